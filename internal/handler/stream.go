package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/filebridge/filebridge/internal/domain"
	"github.com/filebridge/filebridge/internal/logger"
	"github.com/filebridge/filebridge/internal/service"
	"github.com/filebridge/filebridge/internal/utils"
)

// Stream serves GET/HEAD /dl/{token}/{hash}/{name}. It decodes the token,
// verifies the path fingerprint against the resolved object, negotiates the
// byte range and copies trimmed chunks to the client one at a time. The
// session's load counter is released on every exit path.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	coord, err := h.codec.Decode(chi.URLParam(r, "token"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	fingerprint := chi.URLParam(r, "hash")

	client, index := h.pool.Acquire()
	defer h.pool.Release(index)

	meta, err := h.streamer.Resolve(r.Context(), index, client, coord)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := service.VerifyFingerprint(meta, fingerprint); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	rangeHeader := r.Header.Get("Range")
	from, until, err := service.NegotiateRange(rangeHeader, meta.SizeBytes)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	plan := service.PlanChunks(from, until, h.streamer.ChunkSize())

	name, mimeType := downloadIdentity(meta)
	headers := w.Header()
	headers.Set("Content-Type", mimeType)
	headers.Set("Content-Length", fmt.Sprintf("%d", plan.ReqLength))
	headers.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	headers.Set("Accept-Ranges", "bytes")
	headers.Set("Cache-Control", "public, max-age=3600, immutable")

	if rangeHeader != "" {
		headers.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", from, until, meta.SizeBytes))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if r.Method == http.MethodHead {
		return
	}

	flusher, _ := w.(http.Flusher)
	stream := h.streamer.Fetch(r.Context(), index, client, meta, plan)
	for {
		buf, err := stream.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			// headers are already out; all we can do is stop the body
			logger.Log.Warn("stream aborted", "err", err, "container", coord.ContainerId, "object", coord.ObjectId)
			return
		}
		if _, err := w.Write(buf); err != nil {
			// client went away, stop issuing upstream reads
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// downloadIdentity picks the response file name and MIME type, inventing a
// stable-enough name when the store has none.
func downloadIdentity(meta *domain.ObjectMetadata) (string, string) {
	name := meta.FileName
	mimeType := meta.MimeType
	if mimeType == "" && name != "" {
		mimeType = mime.TypeByExtension(filepath.Ext(name))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if name == "" {
		ext := "bin"
		if idx := strings.Index(mimeType, "/"); idx >= 0 && idx+1 < len(mimeType) {
			ext = mimeType[idx+1:]
		}
		name = fmt.Sprintf("%s.%s", uuid.NewString()[:8], ext)
	}
	return name, mimeType
}
