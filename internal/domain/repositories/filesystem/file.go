package filesystem

import (
	"context"

	"filevault/internal/domain/models/filesystem"
)

// FileRepository defines data access operations for stored file records
type FileRepository interface {
	// Create inserts a file record and fills in ID and created_at
	Create(ctx context.Context, file *filesystem.File) error

	// GetByID retrieves a file record
	GetByID(ctx context.Context, id string) (*filesystem.File, error)

	// Delete removes a file record
	Delete(ctx context.Context, id string) error
}
