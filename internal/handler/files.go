package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filebridge/filebridge/internal/api"
	"github.com/filebridge/filebridge/internal/utils"
)

const defaultPage = 1

// ListFiles serves the admin listing: fan-out across shards with optional
// case-insensitive name search, newest first.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := defaultPage
	if pageQuery := query.Get("page"); pageQuery != "" {
		var err error
		if page, err = parseIntParam(pageQuery, "page"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	pageSize := h.cfg.Public.PageSize
	if sizeQuery := query.Get("page_size"); sizeQuery != "" {
		var err error
		if pageSize, err = parseIntParam(sizeQuery, "page_size"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if pageSize < 1 {
		http.Error(w, "page_size must be positive", http.StatusBadRequest)
		return
	}

	files, total, err := h.files.List(r.Context(), query.Get("search"), page, pageSize)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.FileListResponse{
		Files:      files,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (h *Handler) FileStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.files.Stats(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, stats)
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.files.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
