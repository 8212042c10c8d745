package filesystem

import (
	"context"

	"filevault/internal/domain/models/filesystem"
	"filevault/internal/httputil"
)

// FolderService handles folder lifecycle and hierarchy rules
type FolderService interface {
	// CreateFolder creates a folder at root or under a live parent
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*filesystem.Folder, error)

	// ListFolders lists live direct children of parentID (nil = root) with counts
	ListFolders(ctx context.Context, userID string, parentID *string) ([]filesystem.Folder, error)

	// GetFolder retrieves a live folder with its live children, items and parent
	GetFolder(ctx context.Context, userID, folderID string) (*filesystem.Folder, error)

	// UpdateFolder applies a partial update (rename, recolor, move)
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*filesystem.Folder, error)

	// DeleteFolder moves a folder to trash, or removes it when permanent is set
	DeleteFolder(ctx context.Context, userID, folderID string, permanent bool) error

	// ToggleFavorite flips the favorite flag of a live folder
	ToggleFavorite(ctx context.Context, userID, folderID string) (*filesystem.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID      string  `json:"-"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"` // NULL = root
}

// UpdateFolderRequest represents a partial folder update.
// Absent fields are left unchanged; a null parent_id moves the folder to root.
type UpdateFolderRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description httputil.OptionalString `json:"description"`
	Color       httputil.OptionalString `json:"color"`
	ParentID    httputil.OptionalString `json:"parent_id"`
}
