package mongo

import (
	"context"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filebridge/filebridge/internal/domain"
	"github.com/filebridge/filebridge/internal/errors"
)

// InsertFile writes to the active shard only and returns the shard-assigned
// id. Insert is all-or-nothing per shard; nothing is written elsewhere.
func (s *Storage) InsertFile(ctx context.Context, record *domain.FileRecord) (string, error) {
	res, err := s.shards[s.active].InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	record.Id = oid
	return oid.Hex(), nil
}

// FileByHash fans out across shards 1..K, first match wins. Absence is not
// an error: callers get (nil, nil).
func (s *Storage) FileByHash(ctx context.Context, hash string) (*domain.FileRecord, error) {
	return s.findFirst(ctx, bson.M{"content_hash": hash})
}

func (s *Storage) FileById(ctx context.Context, id string) (*domain.FileRecord, error) {
	oid, err := parseId(id)
	if err != nil {
		return nil, err
	}
	return s.findFirst(ctx, bson.M{"_id": oid})
}

func (s *Storage) findFirst(ctx context.Context, filter bson.M) (*domain.FileRecord, error) {
	for _, shard := range s.shards {
		var record domain.FileRecord
		err := shard.FindOne(ctx, filter).Decode(&record)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &record, nil
	}
	return nil, nil
}

// UpdateAccess increments the access counter on whichever shard holds the
// record. The counter only ever grows.
func (s *Storage) UpdateAccess(ctx context.Context, id string) error {
	oid, err := parseId(id)
	if err != nil {
		return err
	}
	for _, shard := range s.shards {
		res, err := shard.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"access_count": 1}})
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
	}
	return &errors.ErrorWithStatusCode{Message: "File not found", StatusCode: 404}
}

// ListFiles collects matches from every shard, sorts by upload time
// descending and slices the requested page. search is a case-insensitive
// substring match on the display name.
func (s *Storage) ListFiles(ctx context.Context, search string, page, pageSize int) ([]domain.FileRecord, int64, error) {
	filter := bson.M{}
	if search != "" {
		filter["display_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}

	var all []domain.FileRecord
	for _, shard := range s.shards {
		cursor, err := shard.Find(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		var records []domain.FileRecord
		if err := cursor.All(ctx, &records); err != nil {
			return nil, 0, err
		}
		all = append(all, records...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].UploadedAt.After(all[j].UploadedAt)
	})

	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []domain.FileRecord{}, total, nil
	}
	end := min(start+pageSize, len(all))
	return all[start:end], total, nil
}

// Stats aggregates the fan-out: file count, total bytes, distinct owners.
func (s *Storage) Stats(ctx context.Context) (*domain.RegistryStats, error) {
	stats := &domain.RegistryStats{}
	owners := make(map[int64]struct{})

	for _, shard := range s.shards {
		cursor, err := shard.Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		var records []domain.FileRecord
		if err := cursor.All(ctx, &records); err != nil {
			return nil, err
		}
		for _, record := range records {
			stats.TotalFiles++
			stats.TotalSizeBytes += record.SizeBytes
			owners[record.OwnerId] = struct{}{}
		}
	}

	stats.UniqueOwners = len(owners)
	return stats, nil
}

// DeleteFile removes the first match across shards and reports whether any
// shard deleted a record.
func (s *Storage) DeleteFile(ctx context.Context, id string) (bool, error) {
	oid, err := parseId(id)
	if err != nil {
		return false, err
	}
	for _, shard := range s.shards {
		res, err := shard.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			return false, err
		}
		if res.DeletedCount > 0 {
			return true, nil
		}
	}
	return false, nil
}

func parseId(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &errors.ErrorWithStatusCode{Message: "Malformed file id", StatusCode: 400}
	}
	return oid, nil
}
