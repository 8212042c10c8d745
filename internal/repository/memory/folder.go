package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"

	"github.com/google/uuid"
)

// FolderRepository implements FolderRepository over a Store
type FolderRepository struct {
	s *Store
}

// NewFolderRepository creates a folder repository backed by store
func NewFolderRepository(store *Store) fsRepo.FolderRepository {
	return &FolderRepository{s: store}
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if folder.ParentID != nil {
		if _, ok := r.s.folders[*folder.ParentID]; !ok {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
	}

	now := r.s.now()
	folder.ID = uuid.NewString()
	folder.IsDeleted = false
	folder.CreatedAt = now
	folder.UpdatedAt = now
	r.s.touchFolderLocked(ctx, folder.ID)
	r.s.folders[folder.ID] = cloneFolder(folder)
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id, userID string, state models.DeletionState) (*models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.folders[id]
	if !ok || f.UserID != userID || !matchesState(f.IsDeleted, state) {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return cloneFolder(f), nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.folders[folder.ID]
	if !ok || f.UserID != folder.UserID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	if folder.ParentID != nil {
		if _, ok := r.s.folders[*folder.ParentID]; !ok {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
	}

	r.s.touchFolderLocked(ctx, f.ID)
	f.Name = folder.Name
	f.Description = folder.Description
	f.Color = folder.Color
	f.ParentID = folder.ParentID
	f.IsFavorite = folder.IsFavorite
	f.UpdatedAt = r.s.now()
	folder.UpdatedAt = f.UpdatedAt
	return nil
}

func (r *FolderRepository) SetDeleted(ctx context.Context, id, userID string, deleted bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.folders[id]
	if !ok || f.UserID != userID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	r.s.touchFolderLocked(ctx, id)
	f.IsDeleted = deleted
	f.UpdatedAt = r.s.now()
	return nil
}

func (r *FolderRepository) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.folders[id]
	if !ok || f.UserID != userID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	r.s.removeFolderLocked(ctx, id)
	return nil
}

// removeFolderLocked deletes a folder and its subtree, detaching items
func (s *Store) removeFolderLocked(ctx context.Context, id string) {
	for childID, child := range s.folders {
		if child.ParentID != nil && *child.ParentID == id {
			s.removeFolderLocked(ctx, childID)
		}
	}
	for itemID, item := range s.items {
		if item.FolderID != nil && *item.FolderID == id {
			s.touchItemLocked(ctx, itemID)
			item.FolderID = nil
		}
	}
	s.touchFolderLocked(ctx, id)
	delete(s.folders, id)
}

func (r *FolderRepository) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	folders := r.filter(func(f *models.Folder) bool {
		if f.UserID != userID || f.IsDeleted {
			return false
		}
		if parentID == nil {
			return f.ParentID == nil
		}
		return f.ParentID != nil && *f.ParentID == *parentID
	})
	sortFolders(folders, func(f models.Folder) int64 { return f.CreatedAt.UnixNano() })
	return folders, nil
}

func (r *FolderRepository) CountChildren(ctx context.Context, userID string, folderIDs []string) (map[string]models.FolderCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]models.FolderCounts, len(folderIDs))
	for _, id := range folderIDs {
		f, ok := r.s.folders[id]
		if !ok || f.UserID != userID {
			continue
		}
		var c models.FolderCounts
		for _, item := range r.s.items {
			if !item.IsDeleted && item.FolderID != nil && *item.FolderID == id {
				c.Items++
			}
		}
		for _, child := range r.s.folders {
			if !child.IsDeleted && child.ParentID != nil && *child.ParentID == id {
				c.Subfolders++
			}
		}
		counts[id] = c
	}
	return counts, nil
}

func (r *FolderRepository) ListFavorites(ctx context.Context, userID string) ([]models.Folder, error) {
	folders := r.filter(func(f *models.Folder) bool {
		return f.UserID == userID && f.IsFavorite && !f.IsDeleted
	})
	sortFolders(folders, func(f models.Folder) int64 { return f.UpdatedAt.UnixNano() })
	return folders, nil
}

func (r *FolderRepository) ListTrashed(ctx context.Context, userID string) ([]models.Folder, error) {
	folders := r.filter(func(f *models.Folder) bool {
		return f.UserID == userID && f.IsDeleted
	})
	sortFolders(folders, func(f models.Folder) int64 { return f.UpdatedAt.UnixNano() })
	return folders, nil
}

func (r *FolderRepository) Search(ctx context.Context, userID, term string, limit int) ([]models.Folder, error) {
	needle := strings.ToLower(term)
	folders := r.filter(func(f *models.Folder) bool {
		if f.UserID != userID || f.IsDeleted {
			return false
		}
		return containsFold(&f.Name, needle) || containsFold(f.Description, needle)
	})
	sortFolders(folders, func(f models.Folder) int64 { return f.UpdatedAt.UnixNano() })
	if limit >= 0 && len(folders) > limit {
		folders = folders[:limit]
	}
	return folders, nil
}

func (r *FolderRepository) CountLive(ctx context.Context, userID string) (int, error) {
	return len(r.filter(func(f *models.Folder) bool {
		return f.UserID == userID && !f.IsDeleted
	})), nil
}

func (r *FolderRepository) DeleteTrashed(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, f := range r.s.folders {
		if f.UserID == userID && f.IsDeleted {
			n++
			r.s.removeFolderLocked(ctx, id)
		}
	}
	return n, nil
}

func (r *FolderRepository) filter(keep func(*models.Folder) bool) []models.Folder {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	folders := []models.Folder{}
	for _, f := range r.s.folders {
		if keep(f) {
			folders = append(folders, *cloneFolder(f))
		}
	}
	return folders
}

// sortFolders orders by key descending, then id
func sortFolders(folders []models.Folder, key func(models.Folder) int64) {
	slices.SortFunc(folders, func(a, b models.Folder) int {
		if c := cmp.Compare(key(b), key(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func matchesState(deleted bool, state models.DeletionState) bool {
	switch state {
	case models.Live:
		return !deleted
	case models.Trashed:
		return deleted
	default:
		return true
	}
}

func containsFold(s *string, lowerNeedle string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), lowerNeedle)
}
