// Package upstream is the narrow surface of the remote-store client library
// this gateway consumes: per-session metadata resolution and the fixed-size
// chunked read primitive. The store's own wire protocol lives behind a
// session agent; we never implement it here.
package upstream

import (
	"context"

	"github.com/filebridge/filebridge/internal/domain"
)

// Client is one authenticated session against the remote store.
//
// ResolveObject fails with errors.ErrObjectNotFound when the coordinate no
// longer resolves, and with errors.ErrUpstreamUnavailable on transient
// failure (retryable by the caller). ReadChunk returns the chunkIndex-th
// fixed-size chunk of the object's bytes; the final chunk may be short.
type Client interface {
	ResolveObject(ctx context.Context, containerId, objectId int64) (*domain.ObjectMetadata, error)
	ReadChunk(ctx context.Context, meta *domain.ObjectMetadata, chunkIndex, chunkSize int64) ([]byte, error)
}
