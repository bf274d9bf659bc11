// Package mongo implements the capacity-sharded file registry over a set of
// Mongo databases storage_1..storage_K. Lookups fan out across every shard
// (O(K) per call, accepted while K stays single-digit); inserts go only to
// the configured active shard. Shard growth is decided outside this service.
package mongo

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/filebridge/filebridge/internal/config"
)

const filesCollection = "file_to_link"

type Storage struct {
	client *mongo.Client
	shards []*mongo.Collection // index 0 = storage_1
	active int                 // index into shards receiving inserts
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	reg := cfg.Public.Registry
	if reg.ShardCount < 1 {
		return nil, fmt.Errorf("registry needs at least one shard")
	}
	if reg.ActiveShard < 1 || reg.ActiveShard > reg.ShardCount {
		return nil, fmt.Errorf("active shard %d out of range 1..%d", reg.ActiveShard, reg.ShardCount)
	}

	log.Print("Connecting to registry")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Private.MongoUri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	log.Print("Successfully connected to registry")

	shards := make([]*mongo.Collection, reg.ShardCount)
	for i := range shards {
		shards[i] = client.Database(fmt.Sprintf("storage_%d", i+1)).Collection(filesCollection)
	}

	return &Storage{client: client, shards: shards, active: reg.ActiveShard - 1}, nil
}

func (s *Storage) Cleanup(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
