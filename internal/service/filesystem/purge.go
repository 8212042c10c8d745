package filesystem

import (
	"context"
	"log/slog"

	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	"filevault/internal/domain/services"
)

// fileReleaser frees the binary behind an item once nothing else uses it.
// Duplicated items share one file record, so the storage object and the
// record only go away with the last reference.
type fileReleaser struct {
	itemRepo fsRepo.ItemRepository
	storage  services.ObjectStorage
	logger   *slog.Logger
}

// release removes the storage object of item.File when no item outside
// dying references it. It reports whether the file record may be deleted,
// and a failure entry when the provider refused the removal.
func (r *fileReleaser) release(ctx context.Context, item *models.Item, dying []string) (bool, *models.CleanupFailure, error) {
	if item.FileID == nil || item.File == nil {
		return false, nil, nil
	}

	refs, err := r.itemRepo.CountFileReferences(ctx, *item.FileID, dying)
	if err != nil {
		return false, nil, err
	}
	if refs > 0 {
		r.logger.Debug("file still referenced, keeping object",
			"file_id", *item.FileID,
			"references", refs,
		)
		return false, nil, nil
	}

	if err := r.storage.Remove(ctx, item.File.ExternalRef); err != nil {
		r.logger.Warn("failed to remove storage object",
			"item_id", item.ID,
			"file_id", item.File.ID,
			"external_ref", item.File.ExternalRef,
			"error", err,
		)
		return false, &models.CleanupFailure{
			ItemID:      item.ID,
			FileID:      item.File.ID,
			ExternalRef: item.File.ExternalRef,
			Error:       err.Error(),
		}, nil
	}

	return true, nil, nil
}
