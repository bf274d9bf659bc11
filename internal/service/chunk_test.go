package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1048576

func TestPlanChunks(t *testing.T) {
	testCases := []struct {
		name            string
		from, until     int64
		chunkSize       int64
		wantStartOffset int64
		wantFirstCut    int64
		wantLastCut     int64
		wantChunkCount  int64
	}{
		{
			name: "range within the first chunk spilling into the third",
			from: 1048500, until: 2097200, chunkSize: mib,
			wantStartOffset: 0, wantFirstCut: 1048500, wantLastCut: 49, wantChunkCount: 3,
		},
		{
			name: "full first chunk",
			from: 0, until: mib - 1, chunkSize: mib,
			wantStartOffset: 0, wantFirstCut: 0, wantLastCut: mib, wantChunkCount: 1,
		},
		{
			name: "single byte at a chunk boundary",
			from: mib, until: mib, chunkSize: mib,
			wantStartOffset: mib, wantFirstCut: 0, wantLastCut: 1, wantChunkCount: 1,
		},
		{
			name: "first byte only",
			from: 0, until: 0, chunkSize: mib,
			wantStartOffset: 0, wantFirstCut: 0, wantLastCut: 1, wantChunkCount: 1,
		},
		{
			name: "range ending exactly on a boundary byte",
			from: 0, until: mib, chunkSize: mib,
			wantStartOffset: 0, wantFirstCut: 0, wantLastCut: 1, wantChunkCount: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			plan := PlanChunks(tc.from, tc.until, tc.chunkSize)

			assert.Equal(t, tc.wantStartOffset, plan.StartOffset)
			assert.Equal(t, tc.wantFirstCut, plan.FirstCut)
			assert.Equal(t, tc.wantLastCut, plan.LastCut)
			assert.Equal(t, tc.wantChunkCount, plan.ChunkCount)
			assert.Equal(t, tc.until-tc.from+1, plan.ReqLength)
		})
	}
}

// Exhaustive boundary sweep: for every window over small grids, fetching the
// plan through the stream must reproduce the exact slice.
func TestPlanChunksExhaustive(t *testing.T) {
	data := make([]byte, 37)
	for i := range data {
		data[i] = byte(i * 7)
	}

	for _, chunkSize := range []int64{1, 2, 3, 4, 5, 7, 8, 16, 64} {
		streamer := NewStreamer(chunkSize)
		client := &fakeClient{data: data}

		for from := int64(0); from < int64(len(data)); from++ {
			for until := from; until < int64(len(data)); until++ {
				plan := PlanChunks(from, until, chunkSize)
				require.Equal(t, until-from+1, plan.ReqLength)

				got, err := drain(streamer.Fetch(context.Background(), 0, client, client.metadata(), plan))
				require.NoError(t, err)
				require.True(t, bytes.Equal(data[from:until+1], got),
					fmt.Sprintf("chunkSize=%d from=%d until=%d", chunkSize, from, until))
			}
		}
	}
}

func drain(stream *ChunkStream) ([]byte, error) {
	var out []byte
	for {
		buf, err := stream.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}
}
