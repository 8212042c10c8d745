package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	models "filevault/internal/domain/models/filesystem"
	"filevault/internal/domain/repositories"
)

// Store holds folders, items and files in process. The repositories built
// on it mirror the Postgres schema: subfolders cascade on delete, items are
// detached when their folder or file disappears.
type Store struct {
	mu      sync.RWMutex
	folders map[string]*models.Folder
	items   map[string]*models.Item
	files   map[string]*models.File
	last    time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		folders: make(map[string]*models.Folder),
		items:   make(map[string]*models.Item),
		files:   make(map[string]*models.File),
	}
}

// now is strictly increasing so updated_at ordering never ties
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// Counts returns the number of folders, items and files in any state
func (s *Store) Counts() (folders, items, files int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.folders), len(s.items), len(s.files)
}

// undoLog holds the state each row had before a transaction first touched
// it. A nil entry means the row did not exist.
type undoLog struct {
	folders map[string]*models.Folder
	items   map[string]*models.Item
	files   map[string]*models.File
}

func newUndoLog() *undoLog {
	return &undoLog{
		folders: make(map[string]*models.Folder),
		items:   make(map[string]*models.Item),
		files:   make(map[string]*models.File),
	}
}

func undoFrom(ctx context.Context) *undoLog {
	log, _ := ctx.Value(txKey{}).(*undoLog)
	return log
}

// The touch helpers must run with mu held, before the row changes.

func (s *Store) touchFolderLocked(ctx context.Context, id string) {
	log := undoFrom(ctx)
	if log == nil {
		return
	}
	if _, seen := log.folders[id]; seen {
		return
	}
	var prev *models.Folder
	if f, ok := s.folders[id]; ok {
		prev = cloneFolder(f)
	}
	log.folders[id] = prev
}

func (s *Store) touchItemLocked(ctx context.Context, id string) {
	log := undoFrom(ctx)
	if log == nil {
		return
	}
	if _, seen := log.items[id]; seen {
		return
	}
	var prev *models.Item
	if i, ok := s.items[id]; ok {
		prev = cloneItem(i)
	}
	log.items[id] = prev
}

func (s *Store) touchFileLocked(ctx context.Context, id string) {
	log := undoFrom(ctx)
	if log == nil {
		return
	}
	if _, seen := log.files[id]; seen {
		return
	}
	var prev *models.File
	if f, ok := s.files[id]; ok {
		c := *f
		prev = &c
	}
	log.files[id] = prev
}

// undo reverts only the rows recorded in log
func (s *Store) undo(log *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, prev := range log.folders {
		if prev == nil {
			delete(s.folders, id)
		} else {
			s.folders[id] = prev
		}
	}
	for id, prev := range log.items {
		if prev == nil {
			delete(s.items, id)
		} else {
			s.items[id] = prev
		}
	}
	for id, prev := range log.files {
		if prev == nil {
			delete(s.files, id)
		} else {
			s.files[id] = prev
		}
	}
}

func cloneFolder(f *models.Folder) *models.Folder {
	c := *f
	c.Parent, c.Subfolders, c.Items, c.Counts = nil, nil, nil, nil
	return &c
}

func cloneItem(i *models.Item) *models.Item {
	c := *i
	c.Tags = slices.Clone(i.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.File, c.Folder = nil, nil
	return &c
}

type txKey struct{}

// TransactionManager gives all-or-nothing semantics with an undo log: when
// fn fails, the rows it touched go back to their prior state and writes
// made outside the transaction are left alone. Transactions run one at a
// time.
type TransactionManager struct {
	store *Store
	txMu  sync.Mutex
}

// NewTransactionManager creates a transaction manager over store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn and reverts its writes if it returns an error
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if undoFrom(ctx) != nil {
		return fn(ctx)
	}

	tm.txMu.Lock()
	defer tm.txMu.Unlock()

	log := newUndoLog()
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		tm.store.undo(log)
		return err
	}
	return nil
}
