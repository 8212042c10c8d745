package filesystem

import (
	"context"

	"filevault/internal/domain/models/filesystem"
)

// ItemRepository defines data access operations for items.
// Items are returned with their File record attached when they have one.
type ItemRepository interface {
	// Create inserts an item and fills in ID and timestamps
	Create(ctx context.Context, item *filesystem.Item) error

	// GetByID retrieves an item in the requested deletion state
	GetByID(ctx context.Context, id, userID string, state filesystem.DeletionState) (*filesystem.Item, error)

	// Update writes name, description, content, folder, tags and favorite flag
	Update(ctx context.Context, item *filesystem.Item) error

	// SetDeleted flips the soft-delete flag
	SetDeleted(ctx context.Context, id, userID string, deleted bool) error

	// Delete hard-deletes an item row
	Delete(ctx context.Context, id, userID string) error

	// List returns one page of live items matching the filter plus the total match count
	List(ctx context.Context, filter *filesystem.ItemFilter) ([]filesystem.Item, int, error)

	// ListByFolder lists live items directly inside a folder, newest first
	ListByFolder(ctx context.Context, userID, folderID string) ([]filesystem.Item, error)

	// ListRecent lists live items by updated_at descending
	ListRecent(ctx context.Context, userID string, limit int) ([]filesystem.Item, error)

	// ListFavorites lists live favorite items, most recently updated first
	ListFavorites(ctx context.Context, userID string) ([]filesystem.Item, error)

	// ListTrashed lists soft-deleted items, most recently updated first
	ListTrashed(ctx context.Context, userID string) ([]filesystem.Item, error)

	// Search matches live items by name/description/content substring
	// (case-insensitive) or exact tag
	Search(ctx context.Context, userID, term string, offset, limit int) ([]filesystem.Item, error)

	// SumLiveSize sums size over the user's live items
	SumLiveSize(ctx context.Context, userID string) (int64, error)

	// UsageByType groups live items by type with count and summed size
	UsageByType(ctx context.Context, userID string) ([]filesystem.TypeUsage, error)

	// CountFileReferences counts items other than excludeItemIDs that reference fileID
	CountFileReferences(ctx context.Context, fileID string, excludeItemIDs []string) (int, error)

	// DeleteTrashed hard-deletes the listed items that are still soft-deleted
	// and owned by the user. Items trashed after the list was taken survive.
	DeleteTrashed(ctx context.Context, userID string, ids []string) (int64, error)
}
