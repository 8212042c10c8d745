package config

const (
	// MaxFolderNameLength fits in PostgreSQL VARCHAR(255)
	MaxFolderNameLength = 255

	// MaxItemNameLength fits in PostgreSQL VARCHAR(255)
	MaxItemNameLength = 255

	// MaxColorLength allows "#RRGGBBAA" and short CSS color names
	MaxColorLength = 32

	// MaxTagLength bounds a single tag
	MaxTagLength = 64

	// MaxUploadSize is the largest multipart file accepted (50 MiB)
	MaxUploadSize = 50 << 20

	// StorageCapacityBytes is the fixed per-user capacity reported by stats (15 GiB).
	// It is never enforced on writes.
	StorageCapacityBytes int64 = 15 * 1024 * 1024 * 1024

	// DefaultRecentLimit is used when no limit is given for recent items
	DefaultRecentLimit = 10
)
