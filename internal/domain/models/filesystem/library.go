package filesystem

// SearchResults holds folder and item matches. There is no ranking and no
// merge between the two lists.
type SearchResults struct {
	Folders []Folder `json:"folders"`
	Items   []Item   `json:"items"`
}

// Favorites holds live favorite folders and items
type Favorites struct {
	Folders []Folder `json:"folders"`
	Items   []Item   `json:"items"`
}

// Trash holds soft-deleted folders and items
type Trash struct {
	Folders []Folder `json:"folders"`
	Items   []Item   `json:"items"`
}

// RestoreKind selects which entity a trash restore targets
type RestoreKind string

const (
	RestoreFolder RestoreKind = "folder"
	RestoreItem   RestoreKind = "item"
)

// CleanupFailure records a storage object that could not be removed
type CleanupFailure struct {
	ItemID      string `json:"item_id"`
	FileID      string `json:"file_id"`
	ExternalRef string `json:"external_ref"`
	Error       string `json:"error"`
}

// PurgeResult summarizes a permanent deletion
type PurgeResult struct {
	FoldersDeleted  int64            `json:"folders_deleted"`
	ItemsDeleted    int64            `json:"items_deleted"`
	FilesDeleted    int64            `json:"files_deleted"`
	StorageFailures []CleanupFailure `json:"storage_failures"`
}
