package service

import (
	"github.com/filebridge/filebridge/internal/domain"
)

// PlanChunks maps a validated byte window [from, until] onto the store's
// fixed chunk grid. The plan fetches exactly ChunkCount consecutive chunks
// starting at StartOffset, drops FirstCut bytes from the first chunk, keeps
// only the first LastCut bytes of the last, and the trimmed concatenation
// has length exactly ReqLength. All integer arithmetic; holds for every
// 0 <= from <= until.
func PlanChunks(from, until, chunkSize int64) domain.ChunkWindow {
	startOffset := from - (from % chunkSize)
	return domain.ChunkWindow{
		StartOffset: startOffset,
		FirstCut:    from - startOffset,
		LastCut:     (until % chunkSize) + 1,
		ReqLength:   until - from + 1,
		// index of the last touched chunk minus index of the first, inclusive
		ChunkCount: until/chunkSize - startOffset/chunkSize + 1,
	}
}
