package handler

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filebridge/filebridge/internal/codec"
	"github.com/filebridge/filebridge/internal/config"
	"github.com/filebridge/filebridge/internal/domain"
	"github.com/filebridge/filebridge/internal/errors"
	"github.com/filebridge/filebridge/internal/service"
	"github.com/filebridge/filebridge/internal/upstream"
)

const testChunkSize = 1 << 20

// fakeStoreClient serves resolves and chunk reads from an in-memory object.
type fakeStoreClient struct {
	data        []byte
	fingerprint string
	fileName    string
	mimeType    string
	resolveErr  error
}

func (f *fakeStoreClient) ResolveObject(ctx context.Context, containerId, objectId int64) (*domain.ObjectMetadata, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &domain.ObjectMetadata{
		Coordinate:        domain.ObjectCoordinate{ContainerId: containerId, ObjectId: objectId},
		UniqueFingerprint: f.fingerprint,
		SizeBytes:         int64(len(f.data)),
		FileName:          f.fileName,
		MimeType:          f.mimeType,
	}, nil
}

func (f *fakeStoreClient) ReadChunk(ctx context.Context, meta *domain.ObjectMetadata, chunkIndex, chunkSize int64) ([]byte, error) {
	start := chunkIndex * chunkSize
	if start >= int64(len(f.data)) {
		return nil, nil
	}
	end := min(start+chunkSize, int64(len(f.data)))
	return f.data[start:end], nil
}

type streamFixture struct {
	router *chi.Mux
	pool   *service.SessionPool
	codec  *codec.Codec
	token  string
}

func newStreamFixture(t *testing.T, client *fakeStoreClient) *streamFixture {
	t.Helper()

	pool := service.NewSessionPool([]upstream.Client{client})
	streamer := service.NewStreamer(testChunkSize)
	tokenCodec := codec.New("test-seed")
	cfg := &config.Config{Public: config.Public{BaseUrl: "http://example.com"}}

	h := New(nil, pool, streamer, tokenCodec, nil, cfg)

	r := chi.NewRouter()
	r.Get("/dl/{token}/{hash}/{name}", h.Stream)
	r.Head("/dl/{token}/{hash}/{name}", h.Stream)

	return &streamFixture{
		router: r,
		pool:   pool,
		codec:  tokenCodec,
		token:  tokenCodec.Encode(domain.ObjectCoordinate{ContainerId: 100, ObjectId: 555}),
	}
}

func randomBytes(n int) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(1)).Read(data)
	return data
}

func TestStreamFullObject(t *testing.T) {
	data := randomBytes(3*testChunkSize + 12345)
	client := &fakeStoreClient{data: data, fingerprint: "abcdefXYZ", fileName: "clip.mp4", mimeType: "video/mp4"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf("%d", len(data)), resp.Header.Get("Content-Length"))
	assert.Equal(t, `inline; filename="clip.mp4"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "public, max-age=3600, immutable", resp.Header.Get("Cache-Control"))
	assert.Empty(t, resp.Header.Get("Content-Range"))
	assert.Equal(t, data, w.Body.Bytes())

	assert.Equal(t, int64(0), f.pool.Load(0), "session must be released")
}

func TestStreamRangeRequest(t *testing.T) {
	data := randomBytes(3 * testChunkSize)
	client := &fakeStoreClient{data: data, fingerprint: "abcdefXYZ", fileName: "clip.mp4", mimeType: "video/mp4"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	req.Header.Set("Range", "bytes=1048000-2100000")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "1052001", resp.Header.Get("Content-Length"))
	assert.Equal(t, fmt.Sprintf("bytes 1048000-2100000/%d", len(data)), resp.Header.Get("Content-Range"))
	assert.Equal(t, data[1048000:2100001], w.Body.Bytes())
	assert.Equal(t, int64(0), f.pool.Load(0))
}

func TestStreamOpenEndedRange(t *testing.T) {
	data := randomBytes(2 * testChunkSize)
	client := &fakeStoreClient{data: data, fingerprint: "abcdefXYZ", fileName: "clip.mp4", mimeType: "video/mp4"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	req.Header.Set("Range", "bytes=1000000-")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("bytes 1000000-%d/%d", len(data)-1, len(data)), resp.Header.Get("Content-Range"))
	assert.Equal(t, data[1000000:], w.Body.Bytes())
}

func TestStreamRangeNotSatisfiable(t *testing.T) {
	data := randomBytes(1000)
	client := &fakeStoreClient{data: data, fingerprint: "abcdefXYZ", fileName: "clip.mp4", mimeType: "video/mp4"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	req.Header.Set("Range", "bytes=900-1500")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode)
	assert.Equal(t, "bytes */1000", resp.Header.Get("Content-Range"))
	assert.Equal(t, int64(0), f.pool.Load(0))
}

func TestStreamMalformedRange(t *testing.T) {
	client := &fakeStoreClient{data: randomBytes(1000), fingerprint: "abcdefXYZ"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	req.Header.Set("Range", "chapters=1-2")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestStreamMalformedToken(t *testing.T) {
	client := &fakeStoreClient{data: randomBytes(1000), fingerprint: "abcdefXYZ"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", "/dl/not-a-token!/abcdef/clip.mp4", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestStreamWrongFingerprint(t *testing.T) {
	client := &fakeStoreClient{data: randomBytes(1000), fingerprint: "abcdefXYZ"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/zzzzzz/clip.mp4", f.token), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int64(0), f.pool.Load(0))
}

func TestStreamObjectNotFound(t *testing.T) {
	client := &fakeStoreClient{resolveErr: errors.ErrObjectNotFound}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestStreamUpstreamUnavailable(t *testing.T) {
	client := &fakeStoreClient{resolveErr: errors.ErrUpstreamUnavailable}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("GET", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Result().StatusCode)
}

func TestStreamHeadHasHeadersNoBody(t *testing.T) {
	data := randomBytes(2*testChunkSize + 7)
	client := &fakeStoreClient{data: data, fingerprint: "abcdefXYZ", fileName: "clip.mp4", mimeType: "video/mp4"}
	f := newStreamFixture(t, client)

	req := httptest.NewRequest("HEAD", fmt.Sprintf("/dl/%s/abcdef/clip.mp4", f.token), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("%d", len(data)), resp.Header.Get("Content-Length"))
	assert.Zero(t, w.Body.Len())
}

func TestDownloadIdentity(t *testing.T) {
	testCases := []struct {
		name     string
		meta     domain.ObjectMetadata
		wantName string
		wantMime string
	}{
		{
			name:     "both present",
			meta:     domain.ObjectMetadata{FileName: "clip.mp4", MimeType: "video/mp4"},
			wantName: "clip.mp4",
			wantMime: "video/mp4",
		},
		{
			name:     "mime from extension",
			meta:     domain.ObjectMetadata{FileName: "notes.json"},
			wantName: "notes.json",
			wantMime: "application/json",
		},
		{
			name:     "nothing known",
			meta:     domain.ObjectMetadata{},
			wantMime: "application/octet-stream",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, mimeType := downloadIdentity(&tc.meta)
			assert.Contains(t, mimeType, tc.wantMime)
			if tc.wantName != "" {
				assert.Equal(t, tc.wantName, name)
			} else {
				assert.NotEmpty(t, name)
			}
		})
	}
}
