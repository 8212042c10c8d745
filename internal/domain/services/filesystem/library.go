package filesystem

import (
	"context"

	"filevault/internal/domain/models/filesystem"
)

// LibraryService covers the cross-entity views: search, favorites, trash and stats
type LibraryService interface {
	// Search matches live folders (capped at the page limit) and live items (paged)
	Search(ctx context.Context, userID, term string, page filesystem.PageRequest) (*filesystem.SearchResults, error)

	// GetFavorites lists live favorite folders and items
	GetFavorites(ctx context.Context, userID string) (*filesystem.Favorites, error)

	// GetTrash lists soft-deleted folders and items
	GetTrash(ctx context.Context, userID string) (*filesystem.Trash, error)

	// RestoreFromTrash clears the soft-delete flag of a trashed folder or item
	RestoreFromTrash(ctx context.Context, userID, id string, kind filesystem.RestoreKind) error

	// EmptyTrash permanently removes every trashed folder and item
	EmptyTrash(ctx context.Context, userID string) (*filesystem.PurgeResult, error)

	// GetStorageStats reports usage against the fixed capacity
	GetStorageStats(ctx context.Context, userID string) (*filesystem.StorageStats, error)
}
