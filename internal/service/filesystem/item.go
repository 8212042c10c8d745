package filesystem

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"filevault/internal/catalog"
	"filevault/internal/config"
	models "filevault/internal/domain/models/filesystem"
	"filevault/internal/domain/repositories"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	"filevault/internal/domain/services"
	fsSvc "filevault/internal/domain/services/filesystem"
)

// CopySuffix is appended to the name of a duplicated item
const CopySuffix = " (Copy)"

type itemService struct {
	itemRepo   fsRepo.ItemRepository
	fileRepo   fsRepo.FileRepository
	folderRepo fsRepo.FolderRepository
	storage    services.ObjectStorage
	catalog    *catalog.Catalog
	txManager  repositories.TransactionManager
	validator  *ResourceValidator
	releaser   *fileReleaser
	logger     *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(
	itemRepo fsRepo.ItemRepository,
	fileRepo fsRepo.FileRepository,
	folderRepo fsRepo.FolderRepository,
	storage services.ObjectStorage,
	cat *catalog.Catalog,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	logger *slog.Logger,
) fsSvc.ItemService {
	return &itemService{
		itemRepo:   itemRepo,
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		storage:    storage,
		catalog:    cat,
		txManager:  txManager,
		validator:  validator,
		releaser:   &fileReleaser{itemRepo: itemRepo, storage: storage, logger: logger},
		logger:     logger,
	}
}

// CreateItem creates a content item
func (s *itemService) CreateItem(ctx context.Context, req *fsSvc.CreateItemRequest) (*models.Item, error) {
	if err := validateCreateItemRequest(req); err != nil {
		return nil, invalid(err)
	}

	folderID := emptyToNil(req.FolderID)
	if folderID != nil {
		if err := s.validator.ValidateFolder(ctx, *folderID, req.UserID, "Folder not found"); err != nil {
			return nil, err
		}
	}

	tags := slices.Clone(req.Tags)
	if tags == nil {
		tags = []string{}
	}

	item := &models.Item{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Type:        req.Type,
		Content:     req.Content,
		FolderID:    folderID,
		Tags:        tags,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, notFound(err, "Folder not found")
	}

	if err := newFolderLookup(s.folderRepo, req.UserID).attachOne(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		"id", item.ID,
		"name", item.Name,
		"type", item.Type,
		"user_id", req.UserID,
		"folder_id", item.FolderID,
	)

	return item, nil
}

// ListItems returns one page of live items
func (s *itemService) ListItems(ctx context.Context, req *fsSvc.ListItemsRequest) (*models.ItemPage, error) {
	page := req.Page
	page.ApplyDefaults()
	if err := page.Validate(); err != nil {
		return nil, invalid(err)
	}

	filter := &models.ItemFilter{
		UserID:   req.UserID,
		FolderID: emptyToNil(req.FolderID),
		Type:     req.Type,
		Page:     page,
	}
	if req.FavoritesOnly {
		favorite := true
		filter.IsFavorite = &favorite
	}

	items, total, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := newFolderLookup(s.folderRepo, req.UserID).attach(ctx, items); err != nil {
		return nil, err
	}

	return &models.ItemPage{
		Items:      items,
		Pagination: models.NewPagination(page.Page, page.Limit, total),
	}, nil
}

// ListRecentItems returns live items by most recent update
func (s *itemService) ListRecentItems(ctx context.Context, userID string, limit int) ([]models.Item, error) {
	if limit <= 0 {
		limit = config.DefaultRecentLimit
	}
	limit = min(limit, models.MaxPageLimit)

	items, err := s.itemRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := newFolderLookup(s.folderRepo, userID).attach(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// GetItem retrieves a live item
func (s *itemService) GetItem(ctx context.Context, userID, itemID string) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID, userID, models.Live)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}

	if err := newFolderLookup(s.folderRepo, userID).attachOne(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem applies a partial update
func (s *itemService) UpdateItem(ctx context.Context, userID, itemID string, req *fsSvc.UpdateItemRequest) (*models.Item, error) {
	if err := validateUpdateItemRequest(req); err != nil {
		return nil, invalid(err)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID, userID, models.Live)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}

	if req.FolderID.Present {
		folderID := emptyToNil(req.FolderID.Value)
		if folderID != nil {
			if err := s.validator.ValidateFolder(ctx, *folderID, userID, "Folder not found"); err != nil {
				return nil, err
			}
		}
		item.FolderID = folderID
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	req.Description.Apply(&item.Description)
	req.Content.Apply(&item.Content)
	if req.Tags != nil {
		item.Tags = slices.Clone(*req.Tags)
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, notFound(err, "Item not found")
	}

	if err := newFolderLookup(s.folderRepo, userID).attachOne(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item updated",
		"id", item.ID,
		"name", item.Name,
		"user_id", userID,
		"folder_id", item.FolderID,
	)

	return item, nil
}

// DeleteItem trashes an item, or removes it for good when permanent is set.
// A permanent delete removes the storage object first; if that fails the
// item row is still deleted and the failure is reported in the result.
func (s *itemService) DeleteItem(ctx context.Context, userID, itemID string, permanent bool) (*models.PurgeResult, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID, userID, models.AnyState)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}

	if !permanent {
		if err := s.itemRepo.SetDeleted(ctx, item.ID, userID, true); err != nil {
			return nil, notFound(err, "Item not found")
		}
		s.logger.Info("item moved to trash", "id", item.ID, "user_id", userID)
		return nil, nil
	}

	result := &models.PurgeResult{StorageFailures: []models.CleanupFailure{}}

	deleteFile, failure, err := s.releaser.release(ctx, item, []string{item.ID})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		result.StorageFailures = append(result.StorageFailures, *failure)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Delete(txCtx, item.ID, userID); err != nil {
			return notFound(err, "Item not found")
		}
		result.ItemsDeleted = 1

		if deleteFile {
			if err := s.fileRepo.Delete(txCtx, *item.FileID); err != nil {
				return err
			}
			result.FilesDeleted = 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item permanently deleted",
		"id", item.ID,
		"user_id", userID,
		"file_deleted", deleteFile,
		"storage_failures", len(result.StorageFailures),
	)

	return result, nil
}

// ToggleFavorite flips the favorite flag of a live item
func (s *itemService) ToggleFavorite(ctx context.Context, userID, itemID string) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID, userID, models.Live)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}

	item.IsFavorite = !item.IsFavorite
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, notFound(err, "Item not found")
	}

	if err := newFolderLookup(s.folderRepo, userID).attachOne(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item favorite toggled",
		"id", item.ID,
		"user_id", userID,
		"is_favorite", item.IsFavorite,
	)

	return item, nil
}

// DuplicateItem copies a live item. The copy points at the same file record,
// so no new upload happens and the file count is unchanged.
func (s *itemService) DuplicateItem(ctx context.Context, userID, itemID string) (*models.Item, error) {
	source, err := s.itemRepo.GetByID(ctx, itemID, userID, models.Live)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}

	dup := &models.Item{
		UserID:      userID,
		Name:        source.Name + CopySuffix,
		Description: source.Description,
		Type:        source.Type,
		Content:     source.Content,
		FileID:      source.FileID,
		FolderID:    source.FolderID,
		Tags:        slices.Clone(source.Tags),
		Size:        source.Size,
	}

	if err := s.itemRepo.Create(ctx, dup); err != nil {
		return nil, notFound(err, "Item not found")
	}
	dup.File = source.File

	if err := newFolderLookup(s.folderRepo, userID).attachOne(ctx, dup); err != nil {
		return nil, err
	}

	s.logger.Info("item duplicated",
		"id", dup.ID,
		"source_id", source.ID,
		"user_id", userID,
		"file_id", dup.FileID,
	)

	return dup, nil
}
