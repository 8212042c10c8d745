package memory

import (
	"context"
	"fmt"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"

	"github.com/google/uuid"
)

// FileRepository implements FileRepository over a Store
type FileRepository struct {
	s *Store
}

// NewFileRepository creates a file repository backed by store
func NewFileRepository(store *Store) fsRepo.FileRepository {
	return &FileRepository{s: store}
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	file.ID = uuid.NewString()
	file.CreatedAt = r.s.now()
	stored := *file
	r.s.touchFileLocked(ctx, file.ID)
	r.s.files[file.ID] = &stored
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	c := *f
	return &c, nil
}

// Delete removes the record and detaches items still pointing at it
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.files[id]; !ok {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	for itemID, item := range r.s.items {
		if item.FileID != nil && *item.FileID == id {
			r.s.touchItemLocked(ctx, itemID)
			item.FileID = nil
		}
	}
	r.s.touchFileLocked(ctx, id)
	delete(r.s.files, id)
	return nil
}
