package filesystem

import (
	"context"
	"errors"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"
)

// folderLookup attaches each item's folder, reading every folder once
type folderLookup struct {
	repo   fsRepo.FolderRepository
	userID string
	cache  map[string]*models.Folder
}

func newFolderLookup(repo fsRepo.FolderRepository, userID string) *folderLookup {
	return &folderLookup{repo: repo, userID: userID, cache: make(map[string]*models.Folder)}
}

// attach sets Folder on every item placed in a folder. Trashed folders are
// still attached; a folder that no longer exists is left nil.
func (l *folderLookup) attach(ctx context.Context, items []models.Item) error {
	for i := range items {
		if err := l.attachOne(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (l *folderLookup) attachOne(ctx context.Context, item *models.Item) error {
	if item.FolderID == nil {
		item.Folder = nil
		return nil
	}
	id := *item.FolderID
	folder, ok := l.cache[id]
	if !ok {
		f, err := l.repo.GetByID(ctx, id, l.userID, models.AnyState)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		folder = f
		l.cache[id] = f
	}
	item.Folder = folder
	return nil
}

// withCounts fills Counts on each folder
func withCounts(ctx context.Context, repo fsRepo.FolderRepository, userID string, folders []models.Folder) error {
	if len(folders) == 0 {
		return nil
	}
	ids := make([]string, len(folders))
	for i := range folders {
		ids[i] = folders[i].ID
	}
	counts, err := repo.CountChildren(ctx, userID, ids)
	if err != nil {
		return err
	}
	for i := range folders {
		c := counts[folders[i].ID]
		folders[i].Counts = &c
	}
	return nil
}
