package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectCoordinate identifies a message and its attached file inside the
// remote store. Immutable once issued.
type ObjectCoordinate struct {
	ContainerId int64
	ObjectId    int64
}

// FileRecord is the persisted registry entity. Content fields are immutable;
// only AccessCount changes after insert.
type FileRecord struct {
	Id          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerId     int64              `bson:"owner_id" json:"owner_id"`
	ContainerId int64              `bson:"container_id" json:"container_id"`
	ObjectId    int64              `bson:"object_id" json:"object_id"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	UrlSafeName string             `bson:"url_safe_name" json:"url_safe_name"`
	SizeBytes   int64              `bson:"size_bytes" json:"size_bytes"`
	SizeLabel   string             `bson:"size_label" json:"size_label"`
	ContentHash string             `bson:"content_hash" json:"content_hash"`
	AccessCount int64              `bson:"access_count" json:"access_count"`
	UploadedAt  time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

func (r *FileRecord) Coordinate() ObjectCoordinate {
	return ObjectCoordinate{ContainerId: r.ContainerId, ObjectId: r.ObjectId}
}

// ObjectMetadata describes an object as resolved from the remote store.
type ObjectMetadata struct {
	Coordinate        ObjectCoordinate
	UniqueFingerprint string
	SizeBytes         int64
	FileName          string
	MimeType          string
}

// ChunkWindow maps a validated byte range onto the store's fixed chunk grid.
// Derived per request, never persisted.
type ChunkWindow struct {
	StartOffset int64 // byte offset of the first chunk to fetch
	FirstCut    int64 // bytes to discard from the front of the first chunk
	LastCut     int64 // bytes to keep from the last chunk
	ReqLength   int64 // exact length of the trimmed stream
	ChunkCount  int64 // consecutive chunks to fetch starting at StartOffset
}

// PendingAssociation bridges an upload event to a later link request.
type PendingAssociation struct {
	RegistryId  string
	DisplayName string
	SizeLabel   string
	CreatedAt   time.Time
}

// UploadEvent describes a store-resident object reported by the upload
// intake (the bot surface in front of this service).
type UploadEvent struct {
	UserId        int64
	InteractionId int64
	ContainerId   int64
	ObjectId      int64
	DisplayName   string
	SizeBytes     int64
	ContentHash   string
}

// FileLinks is the public result of link issuance.
type FileLinks struct {
	DisplayName string `json:"display_name"`
	SizeLabel   string `json:"size_label"`
	DownloadUrl string `json:"download_url"`
	WatchUrl    string `json:"watch_url"`
}

// RegistryStats is the fan-out aggregate over all shards.
type RegistryStats struct {
	TotalFiles     int64 `json:"total_files"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
	UniqueOwners   int   `json:"unique_owners"`
}
