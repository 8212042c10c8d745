package filesystem

import (
	"context"

	"filevault/internal/domain/models/filesystem"
	"filevault/internal/httputil"
)

// ItemService handles item lifecycle rules, uploads and duplication
type ItemService interface {
	// CreateItem creates a content item (note, link, ...)
	CreateItem(ctx context.Context, req *CreateItemRequest) (*filesystem.Item, error)

	// UploadFileItem stores the payload in object storage and records a file-backed item
	UploadFileItem(ctx context.Context, req *UploadFileItemRequest, payload *FilePayload) (*filesystem.Item, error)

	// ListItems returns one page of live items
	ListItems(ctx context.Context, req *ListItemsRequest) (*filesystem.ItemPage, error)

	// ListRecentItems returns live items by most recent update
	ListRecentItems(ctx context.Context, userID string, limit int) ([]filesystem.Item, error)

	// GetItem retrieves a live item
	GetItem(ctx context.Context, userID, itemID string) (*filesystem.Item, error)

	// UpdateItem applies a partial update
	UpdateItem(ctx context.Context, userID, itemID string, req *UpdateItemRequest) (*filesystem.Item, error)

	// DeleteItem moves an item to trash, or removes it (and its unshared binary) when permanent is set
	DeleteItem(ctx context.Context, userID, itemID string, permanent bool) (*filesystem.PurgeResult, error)

	// ToggleFavorite flips the favorite flag of a live item
	ToggleFavorite(ctx context.Context, userID, itemID string) (*filesystem.Item, error)

	// DuplicateItem copies a live item; a file-backed copy shares the same file record
	DuplicateItem(ctx context.Context, userID, itemID string) (*filesystem.Item, error)
}

// CreateItemRequest represents an item creation request
type CreateItemRequest struct {
	UserID      string              `json:"-"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Type        filesystem.ItemType `json:"type"`
	Content     *string             `json:"content,omitempty"`
	FolderID    *string             `json:"folder_id,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
}

// UploadFileItemRequest carries the metadata fields of an upload
type UploadFileItemRequest struct {
	UserID      string              `json:"-"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Type        filesystem.ItemType `json:"type"`
	FolderID    *string             `json:"folder_id,omitempty"`
}

// FilePayload is the raw upload as received from the client
type FilePayload struct {
	Data         []byte
	OriginalName string
	MimeType     string
	Size         int64 // Declared byte length
}

// ListItemsRequest filters and pages an item listing
type ListItemsRequest struct {
	UserID        string
	Page          filesystem.PageRequest
	FolderID      *string
	Type          *filesystem.ItemType
	FavoritesOnly bool
}

// UpdateItemRequest represents a partial item update.
// A null folder_id moves the item to root; tags, when present, replace the list.
type UpdateItemRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description httputil.OptionalString `json:"description"`
	Content     httputil.OptionalString `json:"content"`
	FolderID    httputil.OptionalString `json:"folder_id"`
	Tags        *[]string               `json:"tags,omitempty"`
}
