package filesystem

import (
	"fmt"
)

const bytesPerGiB = 1024 * 1024 * 1024

// FormatGiB renders a byte count as GiB with two decimals
func FormatGiB(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/bytesPerGiB)
}

// TypeUsage is the count and summed size of live items of one type
type TypeUsage struct {
	Type   ItemType `json:"type"`
	Count  int      `json:"count"`
	Size   int64    `json:"size"`
	SizeGB string   `json:"size_gb"`
}

// StorageStats reports usage against the fixed capacity. Available storage
// goes negative when usage exceeds capacity; nothing enforces the quota.
type StorageStats struct {
	TotalStorage       int64       `json:"total_storage"`
	UsedStorage        int64       `json:"used_storage"`
	AvailableStorage   int64       `json:"available_storage"`
	TotalStorageGB     string      `json:"total_storage_gb"`
	UsedStorageGB      string      `json:"used_storage_gb"`
	AvailableStorageGB string      `json:"available_storage_gb"`
	ItemStats          []TypeUsage `json:"item_stats"`
	FolderCount        int         `json:"folder_count"`
}

// NewStorageStats derives the stats view from raw usage numbers
func NewStorageStats(capacity, used int64, byType []TypeUsage, folderCount int) *StorageStats {
	available := capacity - used
	for i := range byType {
		byType[i].SizeGB = FormatGiB(byType[i].Size)
	}
	if byType == nil {
		byType = []TypeUsage{}
	}
	return &StorageStats{
		TotalStorage:       capacity,
		UsedStorage:        used,
		AvailableStorage:   available,
		TotalStorageGB:     FormatGiB(capacity),
		UsedStorageGB:      FormatGiB(used),
		AvailableStorageGB: FormatGiB(available),
		ItemStats:          byType,
		FolderCount:        folderCount,
	}
}
