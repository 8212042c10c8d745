package filesystem

import (
	"fmt"
	"time"
)

// ItemType is the content kind of an item
type ItemType string

const (
	ItemTypeNote     ItemType = "NOTE"
	ItemTypeLink     ItemType = "LINK"
	ItemTypeImage    ItemType = "IMAGE"
	ItemTypeDocument ItemType = "DOCUMENT"
	ItemTypeVideo    ItemType = "VIDEO"
	ItemTypeAudio    ItemType = "AUDIO"
	ItemTypeFile     ItemType = "FILE"
	ItemTypeOther    ItemType = "OTHER"
)

// ItemTypes lists every valid item type in declaration order
var ItemTypes = []ItemType{
	ItemTypeNote,
	ItemTypeLink,
	ItemTypeImage,
	ItemTypeDocument,
	ItemTypeVideo,
	ItemTypeAudio,
	ItemTypeFile,
	ItemTypeOther,
}

// ParseItemType converts a string to an ItemType
func ParseItemType(s string) (ItemType, error) {
	for _, t := range ItemTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

type Item struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Type        ItemType  `json:"type" db:"type"`
	Content     *string   `json:"content" db:"content"`     // Inline note/link payload, NULL for file items
	FileID      *string   `json:"file_id" db:"file_id"`     // NULL for content items
	FolderID    *string   `json:"folder_id" db:"folder_id"` // NULL = root level
	Tags        []string  `json:"tags" db:"tags"`           // Ordered, duplicates allowed
	Size        int64     `json:"size" db:"size"`           // Bytes, 0 for non-file items
	IsFavorite  bool      `json:"is_favorite" db:"is_favorite"`
	IsDeleted   bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	File   *File   `json:"file,omitempty"`
	Folder *Folder `json:"folder,omitempty"`
}

// HasFile reports whether the item is backed by an uploaded file
func (i *Item) HasFile() bool {
	return i.FileID != nil && *i.FileID != ""
}
