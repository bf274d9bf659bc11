// Package api holds the request/response DTOs of the JSON surface.
package api

import (
	"github.com/filebridge/filebridge/internal/domain"
)

// UploadRequest is posted by the bot layer after it has parked an object in
// the remote store's dump container.
type UploadRequest struct {
	UserId        int64  `json:"user_id" validate:"required"`
	InteractionId int64  `json:"interaction_id" validate:"required"`
	ContainerId   int64  `json:"container_id" validate:"required"`
	ObjectId      int64  `json:"object_id" validate:"required"`
	DisplayName   string `json:"display_name" validate:"required"`
	SizeBytes     int64  `json:"size_bytes" validate:"gte=0"`
	ContentHash   string `json:"content_hash" validate:"required"`
}

type UploadResponse struct {
	File      domain.FileRecord `json:"file"`
	Duplicate bool              `json:"duplicate"`
}

type LinksRequest struct {
	UserId        int64 `json:"user_id" validate:"required"`
	InteractionId int64 `json:"interaction_id" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type FileListResponse struct {
	Files      []domain.FileRecord `json:"files"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
}
