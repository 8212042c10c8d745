package filesystem

import (
	"time"
)

// Folder is a named container owned by one user. Folders nest through
// ParentID; trashed folders keep their place in the tree.
type Folder struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       *string   `json:"color" db:"color"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	IsFavorite  bool      `json:"is_favorite" db:"is_favorite"`
	IsDeleted   bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Populated by the service for detail/list views, never stored
	Parent     *Folder       `json:"parent,omitempty"`
	Subfolders []Folder      `json:"subfolders"`
	Items      []Item        `json:"items"`
	Counts     *FolderCounts `json:"counts,omitempty"`
}

// FolderCounts holds the number of live direct children of a folder
type FolderCounts struct {
	Items      int `json:"items"`
	Subfolders int `json:"subfolders"`
}
