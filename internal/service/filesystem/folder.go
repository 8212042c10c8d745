package filesystem

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	fsSvc "filevault/internal/domain/services/filesystem"
)

type folderService struct {
	folderRepo fsRepo.FolderRepository
	itemRepo   fsRepo.ItemRepository
	validator  *ResourceValidator
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo fsRepo.FolderRepository,
	itemRepo fsRepo.ItemRepository,
	validator *ResourceValidator,
	logger *slog.Logger,
) fsSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		itemRepo:   itemRepo,
		validator:  validator,
		logger:     logger,
	}
}

// CreateFolder creates a folder at root or under a live parent
func (s *folderService) CreateFolder(ctx context.Context, req *fsSvc.CreateFolderRequest) (*models.Folder, error) {
	if err := validateCreateFolderRequest(req); err != nil {
		return nil, invalid(err)
	}

	parentID := emptyToNil(req.ParentID)
	if parentID != nil {
		if err := s.validator.ValidateFolder(ctx, *parentID, req.UserID, "Parent folder not found"); err != nil {
			return nil, err
		}
	}

	folder := &models.Folder{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Color:       req.Color,
		ParentID:    parentID,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, notFound(err, "Parent folder not found")
	}

	// Fresh folders have no children
	folder.Subfolders = []models.Folder{}
	folder.Items = []models.Item{}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", req.UserID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// ListFolders lists live direct children of parentID with child counts, newest first
func (s *folderService) ListFolders(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	folders, err := s.folderRepo.ListChildren(ctx, userID, emptyToNil(parentID))
	if err != nil {
		return nil, err
	}

	if err := withCounts(ctx, s.folderRepo, userID, folders); err != nil {
		return nil, err
	}

	return folders, nil
}

// GetFolder retrieves a live folder with its live subfolders, items and parent
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID, models.Live)
	if err != nil {
		return nil, notFound(err, "Folder not found")
	}

	subfolders, err := s.folderRepo.ListChildren(ctx, userID, &folder.ID)
	if err != nil {
		return nil, err
	}
	if err := withCounts(ctx, s.folderRepo, userID, subfolders); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByFolder(ctx, userID, folder.ID)
	if err != nil {
		return nil, err
	}

	if folder.ParentID != nil {
		// The parent may be trashed; it is still shown for navigation
		parent, err := s.folderRepo.GetByID(ctx, *folder.ParentID, userID, models.AnyState)
		switch {
		case err == nil:
			folder.Parent = parent
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	folder.Subfolders = subfolders
	folder.Items = items

	counts := models.FolderCounts{Items: len(items), Subfolders: len(subfolders)}
	folder.Counts = &counts

	return folder, nil
}

// UpdateFolder applies a partial update. Moving a folder under itself is
// rejected; deeper cycles are not checked.
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *fsSvc.UpdateFolderRequest) (*models.Folder, error) {
	if err := validateUpdateFolderRequest(req); err != nil {
		return nil, invalid(err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, userID, models.Live)
	if err != nil {
		return nil, notFound(err, "Folder not found")
	}

	if req.ParentID.Present {
		parentID := emptyToNil(req.ParentID.Value)
		if parentID != nil {
			if *parentID == folder.ID {
				return nil, domain.NewInvalidOperation("Folder cannot be its own parent")
			}
			if err := s.validator.ValidateFolder(ctx, *parentID, userID, "Parent folder not found"); err != nil {
				return nil, err
			}
		}
		folder.ParentID = parentID
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}
	req.Description.Apply(&folder.Description)
	req.Color.Apply(&folder.Color)

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, notFound(err, "Folder not found")
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// DeleteFolder trashes a folder, or removes it for good when permanent is
// set. Trashing does not touch children; a permanent delete takes the
// subfolder tree with it and moves contained items to the root.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string, permanent bool) error {
	if _, err := s.folderRepo.GetByID(ctx, folderID, userID, models.AnyState); err != nil {
		return notFound(err, "Folder not found")
	}

	if permanent {
		if err := s.folderRepo.Delete(ctx, folderID, userID); err != nil {
			return notFound(err, "Folder not found")
		}
		s.logger.Info("folder permanently deleted", "id", folderID, "user_id", userID)
		return nil
	}

	if err := s.folderRepo.SetDeleted(ctx, folderID, userID, true); err != nil {
		return notFound(err, "Folder not found")
	}
	s.logger.Info("folder moved to trash", "id", folderID, "user_id", userID)
	return nil
}

// ToggleFavorite flips the favorite flag of a live folder
func (s *folderService) ToggleFavorite(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID, models.Live)
	if err != nil {
		return nil, notFound(err, "Folder not found")
	}

	folder.IsFavorite = !folder.IsFavorite
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, notFound(err, "Folder not found")
	}

	s.logger.Info("folder favorite toggled",
		"id", folder.ID,
		"user_id", userID,
		"is_favorite", folder.IsFavorite,
	)

	return folder, nil
}
