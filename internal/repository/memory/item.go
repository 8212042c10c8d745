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

// ItemRepository implements ItemRepository over a Store
type ItemRepository struct {
	s *Store
}

// NewItemRepository creates an item repository backed by store
func NewItemRepository(store *Store) fsRepo.ItemRepository {
	return &ItemRepository{s: store}
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefsLocked(item); err != nil {
		return err
	}

	now := r.s.now()
	item.ID = uuid.NewString()
	item.IsDeleted = false
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Tags == nil {
		item.Tags = []string{}
	}
	r.s.touchItemLocked(ctx, item.ID)
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepository) checkRefsLocked(item *models.Item) error {
	if item.FolderID != nil {
		if _, ok := r.s.folders[*item.FolderID]; !ok {
			return fmt.Errorf("item '%s' references a missing folder: %w", item.Name, domain.ErrNotFound)
		}
	}
	if item.FileID != nil {
		if _, ok := r.s.files[*item.FileID]; !ok {
			return fmt.Errorf("item '%s' references a missing file: %w", item.Name, domain.ErrNotFound)
		}
	}
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id, userID string, state models.DeletionState) (*models.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.items[id]
	if !ok || i.UserID != userID || !matchesState(i.IsDeleted, state) {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return r.viewLocked(i), nil
}

func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.items[item.ID]
	if !ok || i.UserID != item.UserID {
		return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
	}
	if item.FolderID != nil {
		if _, ok := r.s.folders[*item.FolderID]; !ok {
			return fmt.Errorf("target folder: %w", domain.ErrNotFound)
		}
	}

	r.s.touchItemLocked(ctx, i.ID)
	i.Name = item.Name
	i.Description = item.Description
	i.Content = item.Content
	i.FolderID = item.FolderID
	i.Tags = slices.Clone(item.Tags)
	if i.Tags == nil {
		i.Tags = []string{}
	}
	i.IsFavorite = item.IsFavorite
	i.UpdatedAt = r.s.now()
	item.UpdatedAt = i.UpdatedAt
	return nil
}

func (r *ItemRepository) SetDeleted(ctx context.Context, id, userID string, deleted bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.items[id]
	if !ok || i.UserID != userID {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	r.s.touchItemLocked(ctx, id)
	i.IsDeleted = deleted
	i.UpdatedAt = r.s.now()
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.items[id]
	if !ok || i.UserID != userID {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	r.s.touchItemLocked(ctx, id)
	delete(r.s.items, id)
	return nil
}

func (r *ItemRepository) List(ctx context.Context, filter *models.ItemFilter) ([]models.Item, int, error) {
	items := r.filter(func(i *models.Item) bool {
		if i.UserID != filter.UserID || i.IsDeleted {
			return false
		}
		if filter.FolderID != nil && (i.FolderID == nil || *i.FolderID != *filter.FolderID) {
			return false
		}
		if filter.Type != nil && i.Type != *filter.Type {
			return false
		}
		if filter.IsFavorite != nil && i.IsFavorite != *filter.IsFavorite {
			return false
		}
		return true
	})

	sortItemsBy(items, filter.Page.SortBy, filter.Page.SortOrder)

	total := len(items)
	start := min(filter.Page.Offset(), total)
	end := min(start+filter.Page.Limit, total)
	return items[start:end], total, nil
}

func (r *ItemRepository) ListByFolder(ctx context.Context, userID, folderID string) ([]models.Item, error) {
	items := r.filter(func(i *models.Item) bool {
		return i.UserID == userID && !i.IsDeleted && i.FolderID != nil && *i.FolderID == folderID
	})
	sortItemsBy(items, models.SortByCreatedAt, models.SortDesc)
	return items, nil
}

func (r *ItemRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.Item, error) {
	items := r.filter(func(i *models.Item) bool {
		return i.UserID == userID && !i.IsDeleted
	})
	sortItemsBy(items, models.SortByUpdatedAt, models.SortDesc)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *ItemRepository) ListFavorites(ctx context.Context, userID string) ([]models.Item, error) {
	items := r.filter(func(i *models.Item) bool {
		return i.UserID == userID && i.IsFavorite && !i.IsDeleted
	})
	sortItemsBy(items, models.SortByUpdatedAt, models.SortDesc)
	return items, nil
}

func (r *ItemRepository) ListTrashed(ctx context.Context, userID string) ([]models.Item, error) {
	items := r.filter(func(i *models.Item) bool {
		return i.UserID == userID && i.IsDeleted
	})
	sortItemsBy(items, models.SortByUpdatedAt, models.SortDesc)
	return items, nil
}

func (r *ItemRepository) Search(ctx context.Context, userID, term string, offset, limit int) ([]models.Item, error) {
	needle := strings.ToLower(term)
	items := r.filter(func(i *models.Item) bool {
		if i.UserID != userID || i.IsDeleted {
			return false
		}
		return containsFold(&i.Name, needle) ||
			containsFold(i.Description, needle) ||
			containsFold(i.Content, needle) ||
			slices.Contains(i.Tags, term)
	})
	sortItemsBy(items, models.SortByUpdatedAt, models.SortDesc)

	start := min(offset, len(items))
	end := min(start+limit, len(items))
	return items[start:end], nil
}

func (r *ItemRepository) SumLiveSize(ctx context.Context, userID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, i := range r.s.items {
		if i.UserID == userID && !i.IsDeleted {
			total += i.Size
		}
	}
	return total, nil
}

func (r *ItemRepository) UsageByType(ctx context.Context, userID string) ([]models.TypeUsage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byType := make(map[models.ItemType]*models.TypeUsage)
	for _, i := range r.s.items {
		if i.UserID != userID || i.IsDeleted {
			continue
		}
		u, ok := byType[i.Type]
		if !ok {
			u = &models.TypeUsage{Type: i.Type}
			byType[i.Type] = u
		}
		u.Count++
		u.Size += i.Size
	}

	usage := make([]models.TypeUsage, 0, len(byType))
	for _, u := range byType {
		u.SizeGB = models.FormatGiB(u.Size)
		usage = append(usage, *u)
	}
	slices.SortFunc(usage, func(a, b models.TypeUsage) int {
		return cmp.Compare(a.Type, b.Type)
	})
	return usage, nil
}

func (r *ItemRepository) CountFileReferences(ctx context.Context, fileID string, excludeItemIDs []string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for id, i := range r.s.items {
		if i.FileID != nil && *i.FileID == fileID && !slices.Contains(excludeItemIDs, id) {
			count++
		}
	}
	return count, nil
}

func (r *ItemRepository) DeleteTrashed(ctx context.Context, userID string, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, id := range ids {
		i, ok := r.s.items[id]
		if !ok || i.UserID != userID || !i.IsDeleted {
			continue
		}
		r.s.touchItemLocked(ctx, id)
		delete(r.s.items, id)
		n++
	}
	return n, nil
}

func (r *ItemRepository) filter(keep func(*models.Item) bool) []models.Item {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []models.Item{}
	for _, i := range r.s.items {
		if keep(i) {
			items = append(items, *r.viewLocked(i))
		}
	}
	return items
}

// viewLocked copies an item and attaches its file record
func (r *ItemRepository) viewLocked(i *models.Item) *models.Item {
	c := cloneItem(i)
	if c.FileID != nil {
		if f, ok := r.s.files[*c.FileID]; ok {
			file := *f
			c.File = &file
		}
	}
	return c
}

func sortItemsBy(items []models.Item, field models.SortField, order models.SortOrder) {
	slices.SortFunc(items, func(a, b models.Item) int {
		var c int
		switch field {
		case models.SortByName:
			c = cmp.Compare(a.Name, b.Name)
		case models.SortByUpdatedAt:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		case models.SortBySize:
			c = cmp.Compare(a.Size, b.Size)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if order != models.SortAsc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
