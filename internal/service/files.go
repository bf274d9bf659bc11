package service

import (
	"context"
	"fmt"
	"time"

	"github.com/filebridge/filebridge/internal/codec"
	"github.com/filebridge/filebridge/internal/domain"
	"github.com/filebridge/filebridge/internal/errors"
	"github.com/filebridge/filebridge/internal/utils"
)

// to mock service in tests
type FileService interface {
	RegisterUpload(ctx context.Context, event domain.UploadEvent) (*domain.FileRecord, bool, error)
	Links(ctx context.Context, userId, interactionId int64) (*domain.FileLinks, error)
	List(ctx context.Context, search string, page, pageSize int) ([]domain.FileRecord, int64, error)
	Stats(ctx context.Context) (*domain.RegistryStats, error)
	Delete(ctx context.Context, id string) error
}

// FileStorage is the sharded registry contract the service depends on.
// Lookups fan out across all shards; inserts go to the active shard only.
type FileStorage interface {
	InsertFile(ctx context.Context, record *domain.FileRecord) (string, error)
	FileByHash(ctx context.Context, hash string) (*domain.FileRecord, error)
	FileById(ctx context.Context, id string) (*domain.FileRecord, error)
	UpdateAccess(ctx context.Context, id string) error
	ListFiles(ctx context.Context, search string, page, pageSize int) ([]domain.FileRecord, int64, error)
	Stats(ctx context.Context) (*domain.RegistryStats, error)
	DeleteFile(ctx context.Context, id string) (bool, error)
}

type Files struct {
	storage  FileStorage
	pending  *PendingCache
	codec    *codec.Codec
	resolver Resolver
	baseUrl  string
}

func NewFiles(storage FileStorage, pending *PendingCache, codec *codec.Codec, resolver Resolver, baseUrl string) FileService {
	return &Files{storage, pending, codec, resolver, baseUrl}
}

// RegisterUpload deduplicates by content hash and records a pending
// association for the later link request. Returns the record and whether it
// was an existing one: a duplicate upload bumps the original's access count
// instead of inserting a second record, keeping the hash unique across the
// shard union.
func (f *Files) RegisterUpload(ctx context.Context, event domain.UploadEvent) (*domain.FileRecord, bool, error) {
	existing, err := f.storage.FileByHash(ctx, event.ContentHash)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := f.storage.UpdateAccess(ctx, existing.Id.Hex()); err != nil {
			return nil, false, err
		}
		f.remember(event, existing.Id.Hex(), existing.DisplayName, existing.SizeLabel)
		return existing, true, nil
	}

	record := &domain.FileRecord{
		OwnerId:     event.UserId,
		ContainerId: event.ContainerId,
		ObjectId:    event.ObjectId,
		DisplayName: event.DisplayName,
		UrlSafeName: utils.SanitizeFilename(event.DisplayName),
		SizeBytes:   event.SizeBytes,
		SizeLabel:   utils.ReadableSize(event.SizeBytes),
		ContentHash: event.ContentHash,
		UploadedAt:  time.Now().UTC(),
	}
	id, err := f.storage.InsertFile(ctx, record)
	if err != nil {
		return nil, false, err
	}

	f.remember(event, id, record.DisplayName, record.SizeLabel)
	return record, false, nil
}

func (f *Files) remember(event domain.UploadEvent, registryId, displayName, sizeLabel string) {
	f.pending.Put(event.UserId, event.InteractionId, domain.PendingAssociation{
		RegistryId:  registryId,
		DisplayName: displayName,
		SizeLabel:   sizeLabel,
	})
}

// Links resolves a pending association into public URLs. The fingerprint is
// taken from a fresh upstream resolve so a stale registry row can't mint a
// link to a different object.
func (f *Files) Links(ctx context.Context, userId, interactionId int64) (*domain.FileLinks, error) {
	assoc, ok := f.pending.Get(userId, interactionId)
	if !ok {
		return nil, &errors.ErrorWithStatusCode{Message: "No pending upload for this interaction", StatusCode: 404}
	}

	record, err := f.storage.FileById(ctx, assoc.RegistryId)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &errors.ErrorWithStatusCode{Message: "File not found in registry", StatusCode: 404}
	}

	meta, err := f.resolver.Resolve(ctx, record.Coordinate())
	if err != nil {
		return nil, err
	}
	if len(meta.UniqueFingerprint) < FingerprintLen {
		return nil, errors.ErrUpstreamUnavailable
	}

	token := f.codec.Encode(record.Coordinate())
	fingerprint := meta.UniqueFingerprint[:FingerprintLen]

	return &domain.FileLinks{
		DisplayName: record.DisplayName,
		SizeLabel:   record.SizeLabel,
		DownloadUrl: fmt.Sprintf("%s/dl/%s/%s/%s", f.baseUrl, token, fingerprint, record.UrlSafeName),
		WatchUrl:    fmt.Sprintf("%s/watch/%s/%s/%s", f.baseUrl, token, fingerprint, record.UrlSafeName),
	}, nil
}

func (f *Files) List(ctx context.Context, search string, page, pageSize int) ([]domain.FileRecord, int64, error) {
	page = max(1, page)
	pageSize = max(1, pageSize)
	return f.storage.ListFiles(ctx, search, page, pageSize)
}

func (f *Files) Stats(ctx context.Context) (*domain.RegistryStats, error) {
	return f.storage.Stats(ctx)
}

func (f *Files) Delete(ctx context.Context, id string) error {
	deleted, err := f.storage.DeleteFile(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &errors.ErrorWithStatusCode{Message: "File not found", StatusCode: 404}
	}
	return nil
}
