package handler

import (
	"encoding/json"
	"net/http"

	"github.com/filebridge/filebridge/internal/api"
	"github.com/filebridge/filebridge/internal/domain"
	"github.com/filebridge/filebridge/internal/utils"
)

// RegisterUpload records a store-resident object in the registry. Posted by
// the bot layer after it parks the file in the dump container; a repeated
// content hash bumps the existing record instead of inserting a new one.
func (h *Handler) RegisterUpload(w http.ResponseWriter, r *http.Request) {
	var body api.UploadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	record, duplicate, err := h.files.RegisterUpload(r.Context(), domain.UploadEvent{
		UserId:        body.UserId,
		InteractionId: body.InteractionId,
		ContainerId:   body.ContainerId,
		ObjectId:      body.ObjectId,
		DisplayName:   body.DisplayName,
		SizeBytes:     body.SizeBytes,
		ContentHash:   body.ContentHash,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !duplicate {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(api.UploadResponse{File: *record, Duplicate: duplicate})
}

// IssueLinks turns a prior upload's pending association into public URLs.
func (h *Handler) IssueLinks(w http.ResponseWriter, r *http.Request) {
	var body api.LinksRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	links, err := h.files.Links(r.Context(), body.UserId, body.InteractionId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, links)
}
