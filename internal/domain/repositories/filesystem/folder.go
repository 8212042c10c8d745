package filesystem

import (
	"context"

	"filevault/internal/domain/models/filesystem"
)

// FolderRepository defines data access operations for folders.
// Every lookup is scoped by owner; a row owned by someone else is reported
// as domain.ErrNotFound.
type FolderRepository interface {
	// Create inserts a folder and fills in ID and timestamps
	Create(ctx context.Context, folder *filesystem.Folder) error

	// GetByID retrieves a folder in the requested deletion state
	GetByID(ctx context.Context, id, userID string, state filesystem.DeletionState) (*filesystem.Folder, error)

	// Update writes name, description, color, parent and favorite flag
	Update(ctx context.Context, folder *filesystem.Folder) error

	// SetDeleted flips the soft-delete flag
	SetDeleted(ctx context.Context, id, userID string, deleted bool) error

	// Delete hard-deletes a folder; subfolders cascade, items are detached
	Delete(ctx context.Context, id, userID string) error

	// ListChildren lists live direct children of parentID (nil = root), newest first
	ListChildren(ctx context.Context, userID string, parentID *string) ([]filesystem.Folder, error)

	// CountChildren returns live item/subfolder counts keyed by folder ID
	CountChildren(ctx context.Context, userID string, folderIDs []string) (map[string]filesystem.FolderCounts, error)

	// ListFavorites lists live favorite folders, most recently updated first
	ListFavorites(ctx context.Context, userID string) ([]filesystem.Folder, error)

	// ListTrashed lists soft-deleted folders, most recently updated first
	ListTrashed(ctx context.Context, userID string) ([]filesystem.Folder, error)

	// Search matches live folders whose name or description contains term (case-insensitive)
	Search(ctx context.Context, userID, term string, limit int) ([]filesystem.Folder, error)

	// CountLive counts the user's live folders
	CountLive(ctx context.Context, userID string) (int, error)

	// DeleteTrashed hard-deletes every soft-deleted folder of the user
	DeleteTrashed(ctx context.Context, userID string) (int64, error)
}
