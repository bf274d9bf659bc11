package service

import (
	"context"

	"github.com/filebridge/filebridge/internal/domain"
)

// Resolver resolves a coordinate to object metadata.
type Resolver interface {
	Resolve(ctx context.Context, coord domain.ObjectCoordinate) (*domain.ObjectMetadata, error)
}

// PooledResolver resolves metadata through the currently least-loaded
// session. Used by link issuance, which needs the fingerprint but no chunks.
type PooledResolver struct {
	pool     *SessionPool
	streamer *Streamer
}

func NewPooledResolver(pool *SessionPool, streamer *Streamer) *PooledResolver {
	return &PooledResolver{pool: pool, streamer: streamer}
}

func (r *PooledResolver) Resolve(ctx context.Context, coord domain.ObjectCoordinate) (*domain.ObjectMetadata, error) {
	client, index := r.pool.Acquire()
	defer r.pool.Release(index)
	return r.streamer.Resolve(ctx, index, client, coord)
}
