package filesystem

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"filevault/internal/config"
	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	"filevault/internal/domain/repositories"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	"filevault/internal/domain/services"
	fsSvc "filevault/internal/domain/services/filesystem"
)

type libraryService struct {
	folderRepo fsRepo.FolderRepository
	itemRepo   fsRepo.ItemRepository
	fileRepo   fsRepo.FileRepository
	txManager  repositories.TransactionManager
	releaser   *fileReleaser
	logger     *slog.Logger
}

// NewLibraryService creates the service behind search, favorites, trash and stats
func NewLibraryService(
	folderRepo fsRepo.FolderRepository,
	itemRepo fsRepo.ItemRepository,
	fileRepo fsRepo.FileRepository,
	storage services.ObjectStorage,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) fsSvc.LibraryService {
	return &libraryService{
		folderRepo: folderRepo,
		itemRepo:   itemRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		releaser:   &fileReleaser{itemRepo: itemRepo, storage: storage, logger: logger},
		logger:     logger,
	}
}

// Search matches live folders and items. Folders are capped at the page
// limit and not paged; items are paged.
func (s *libraryService) Search(ctx context.Context, userID, term string, page models.PageRequest) (*models.SearchResults, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.NewValidation("Search query is required")
	}

	page.ApplyDefaults()
	if err := page.Validate(); err != nil {
		return nil, invalid(err)
	}

	folders, err := s.folderRepo.Search(ctx, userID, term, page.Limit)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.Search(ctx, userID, term, page.Offset(), page.Limit)
	if err != nil {
		return nil, err
	}
	if err := newFolderLookup(s.folderRepo, userID).attach(ctx, items); err != nil {
		return nil, err
	}

	return &models.SearchResults{Folders: folders, Items: items}, nil
}

// GetFavorites lists live favorite folders and items
func (s *libraryService) GetFavorites(ctx context.Context, userID string) (*models.Favorites, error) {
	folders, err := s.folderRepo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := withCounts(ctx, s.folderRepo, userID, folders); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := newFolderLookup(s.folderRepo, userID).attach(ctx, items); err != nil {
		return nil, err
	}

	return &models.Favorites{Folders: folders, Items: items}, nil
}

// GetTrash lists soft-deleted folders and items
func (s *libraryService) GetTrash(ctx context.Context, userID string) (*models.Trash, error) {
	folders, err := s.folderRepo.ListTrashed(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListTrashed(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := newFolderLookup(s.folderRepo, userID).attach(ctx, items); err != nil {
		return nil, err
	}

	return &models.Trash{Folders: folders, Items: items}, nil
}

// RestoreFromTrash clears the soft-delete flag. A restored item keeps its
// folder reference even when that folder is itself still in the trash.
func (s *libraryService) RestoreFromTrash(ctx context.Context, userID, id string, kind models.RestoreKind) error {
	switch kind {
	case models.RestoreFolder:
		if _, err := s.folderRepo.GetByID(ctx, id, userID, models.Trashed); err != nil {
			return notFound(err, "Folder not found in trash")
		}
		if err := s.folderRepo.SetDeleted(ctx, id, userID, false); err != nil {
			return notFound(err, "Folder not found in trash")
		}

	case models.RestoreItem:
		if _, err := s.itemRepo.GetByID(ctx, id, userID, models.Trashed); err != nil {
			return notFound(err, "Item not found in trash")
		}
		if err := s.itemRepo.SetDeleted(ctx, id, userID, false); err != nil {
			return notFound(err, "Item not found in trash")
		}

	default:
		return domain.NewValidation("type must be 'folder' or 'item'")
	}

	s.logger.Info("restored from trash", "id", id, "kind", kind, "user_id", userID)
	return nil
}

// EmptyTrash permanently removes every trashed folder and item.
//
// Storage objects are removed one at a time before any row is deleted so
// their external refs are never lost. A failed removal is recorded and the
// sweep moves on; the file row behind it is kept so the object can still
// be found. Rows are then deleted in one transaction, folders first. Only
// the items the sweep walked are deleted; anything trashed meanwhile waits
// for the next call.
func (s *libraryService) EmptyTrash(ctx context.Context, userID string) (*models.PurgeResult, error) {
	trashed, err := s.itemRepo.ListTrashed(ctx, userID)
	if err != nil {
		return nil, err
	}

	dying := make([]string, len(trashed))
	for i := range trashed {
		dying[i] = trashed[i].ID
	}

	result := &models.PurgeResult{StorageFailures: []models.CleanupFailure{}}
	var releasedFiles []string
	seen := make(map[string]bool)

	for i := range trashed {
		item := &trashed[i]
		if item.FileID == nil || seen[*item.FileID] {
			continue
		}
		seen[*item.FileID] = true

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		release, failure, err := s.releaser.release(ctx, item, dying)
		if err != nil {
			return nil, err
		}
		if failure != nil {
			result.StorageFailures = append(result.StorageFailures, *failure)
			continue
		}
		if release {
			releasedFiles = append(releasedFiles, *item.FileID)
		}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folders, err := s.folderRepo.DeleteTrashed(txCtx, userID)
		if err != nil {
			return err
		}
		result.FoldersDeleted = folders

		items, err := s.itemRepo.DeleteTrashed(txCtx, userID, dying)
		if err != nil {
			return err
		}
		result.ItemsDeleted = items

		for _, fileID := range releasedFiles {
			if err := s.fileRepo.Delete(txCtx, fileID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return err
			}
			result.FilesDeleted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trash emptied",
		"user_id", userID,
		"folders_deleted", result.FoldersDeleted,
		"items_deleted", result.ItemsDeleted,
		"files_deleted", result.FilesDeleted,
		"storage_failures", len(result.StorageFailures),
	)

	return result, nil
}

// GetStorageStats reports usage of live items against the fixed capacity
func (s *libraryService) GetStorageStats(ctx context.Context, userID string) (*models.StorageStats, error) {
	used, err := s.itemRepo.SumLiveSize(ctx, userID)
	if err != nil {
		return nil, err
	}

	byType, err := s.itemRepo.UsageByType(ctx, userID)
	if err != nil {
		return nil, err
	}

	folderCount, err := s.folderRepo.CountLive(ctx, userID)
	if err != nil {
		return nil, err
	}

	return models.NewStorageStats(config.StorageCapacityBytes, used, byType, folderCount), nil
}
