package service

import (
	"context"
	"io"
	"sync"

	"github.com/filebridge/filebridge/internal/domain"
	"github.com/filebridge/filebridge/internal/errors"
	"github.com/filebridge/filebridge/internal/upstream"
)

// FingerprintLen is the fixed number of leading characters of the store's
// unique object identifier embedded in issued links.
const FingerprintLen = 6

// VerifyFingerprint rejects a request whose resolved object disagrees with
// the short fingerprint carried by the link. Runs before the first chunk is
// fetched, so a guessed or rotated fingerprint can't be replayed against an
// unrelated token.
func VerifyFingerprint(meta *domain.ObjectMetadata, fingerprint string) error {
	if len(fingerprint) != FingerprintLen ||
		len(meta.UniqueFingerprint) < FingerprintLen ||
		meta.UniqueFingerprint[:FingerprintLen] != fingerprint {
		return errors.ErrInvalidFingerprint
	}
	return nil
}

// Streamer resolves object metadata and produces lazy chunk sequences. It
// keeps one adapter per pool session (created on first use, keyed by session
// index); each adapter caches resolved metadata for its session.
type Streamer struct {
	chunkSize int64

	mu       sync.Mutex
	adapters map[int]*sessionAdapter
}

func NewStreamer(chunkSize int64) *Streamer {
	return &Streamer{
		chunkSize: chunkSize,
		adapters:  make(map[int]*sessionAdapter),
	}
}

// ChunkSize reports the fixed grid size the streamer plans against.
func (s *Streamer) ChunkSize() int64 {
	return s.chunkSize
}

// Resolve returns the object's metadata through the given session, serving
// repeat lookups from the per-session cache.
func (s *Streamer) Resolve(ctx context.Context, sessionIndex int, client upstream.Client, coord domain.ObjectCoordinate) (*domain.ObjectMetadata, error) {
	return s.adapter(sessionIndex, client).resolve(ctx, coord)
}

// Fetch returns a finite, forward-only, non-restartable stream of trimmed
// chunk buffers following the plan. Buffers are requested from upstream one
// at a time as the caller drains, so a slow consumer backpressures the
// upstream fetch instead of buffering the object in memory.
func (s *Streamer) Fetch(ctx context.Context, sessionIndex int, client upstream.Client, meta *domain.ObjectMetadata, plan domain.ChunkWindow) *ChunkStream {
	return &ChunkStream{
		ctx:       ctx,
		client:    client,
		meta:      meta,
		plan:      plan,
		chunkSize: s.chunkSize,
	}
}

func (s *Streamer) adapter(sessionIndex int, client upstream.Client) *sessionAdapter {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.adapters[sessionIndex]
	if !ok {
		a = &sessionAdapter{
			client:   client,
			metadata: make(map[domain.ObjectCoordinate]*domain.ObjectMetadata),
		}
		s.adapters[sessionIndex] = a
	}
	return a
}

// sessionAdapter caches metadata resolved through one session. Cached
// entries are safe to reuse: coordinates are immutable once issued.
type sessionAdapter struct {
	client upstream.Client

	mu       sync.Mutex
	metadata map[domain.ObjectCoordinate]*domain.ObjectMetadata
}

func (a *sessionAdapter) resolve(ctx context.Context, coord domain.ObjectCoordinate) (*domain.ObjectMetadata, error) {
	a.mu.Lock()
	meta, ok := a.metadata[coord]
	a.mu.Unlock()
	if ok {
		return meta, nil
	}

	meta, err := a.client.ResolveObject(ctx, coord.ContainerId, coord.ObjectId)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.metadata[coord] = meta
	a.mu.Unlock()
	return meta, nil
}

// ChunkStream yields the plan's chunks in order, trimming the first and last
// buffer. Next returns io.EOF after the final chunk and the context's error
// once the request is cancelled; either way no further upstream reads are
// issued.
type ChunkStream struct {
	ctx       context.Context
	client    upstream.Client
	meta      *domain.ObjectMetadata
	plan      domain.ChunkWindow
	chunkSize int64
	index     int64
}

func (cs *ChunkStream) Next() ([]byte, error) {
	if cs.index >= cs.plan.ChunkCount {
		return nil, io.EOF
	}
	if err := cs.ctx.Err(); err != nil {
		return nil, err
	}

	chunkIndex := cs.plan.StartOffset/cs.chunkSize + cs.index
	buf, err := cs.client.ReadChunk(cs.ctx, cs.meta, chunkIndex, cs.chunkSize)
	if err != nil {
		return nil, err
	}

	first := cs.index == 0
	last := cs.index == cs.plan.ChunkCount-1
	cs.index++

	// cuts are offsets into the untrimmed chunk; clamp against short reads
	switch {
	case first && last:
		return buf[clamp(cs.plan.FirstCut, buf):clamp(cs.plan.LastCut, buf)], nil
	case first:
		return buf[clamp(cs.plan.FirstCut, buf):], nil
	case last:
		return buf[:clamp(cs.plan.LastCut, buf)], nil
	default:
		return buf, nil
	}
}

func clamp(cut int64, buf []byte) int64 {
	if cut > int64(len(buf)) {
		return int64(len(buf))
	}
	return cut
}
