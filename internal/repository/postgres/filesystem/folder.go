package filesystem

import (
	"context"
	"fmt"
	"log/slog"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	"filevault/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = `f.id, f.user_id, f.name, f.description, f.color, f.parent_id,
	f.is_favorite, f.is_deleted, f.created_at, f.updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) fsRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, color, parent_id, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_deleted, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.UserID,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.ParentID,
		folder.IsFavorite,
	).Scan(&folder.ID, &folder.IsDeleted, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder owned by userID in the requested state
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string, state models.DeletionState) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		WHERE f.id = $1 AND f.user_id = $2%s
	`, folderColumns, r.tables.Folders, stateClause("f", state))

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "folder", id, "get folder")
	}

	return folder, nil
}

// Update writes the mutable fields and bumps updated_at
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, color = $3, parent_id = $4, is_favorite = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.ParentID,
		folder.IsFavorite,
		folder.ID,
		folder.UserID,
	).Scan(&folder.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return notFoundOr(err, "folder", folder.ID, "update folder")
	}

	return nil
}

// SetDeleted flips the soft-delete flag
func (r *PostgresFolderRepository) SetDeleted(ctx context.Context, id, userID string, deleted bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, deleted, id, userID)
	if err != nil {
		return notFoundOr(err, "folder", id, "set folder deleted")
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes a folder. Subfolders cascade; items are detached.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return notFoundOr(err, "folder", id, "delete folder")
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists live direct children of parentID (nil = root level)
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	var query string
	args := []interface{}{userID}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s f
			WHERE f.user_id = $1 AND f.parent_id IS NULL AND f.is_deleted = FALSE
			ORDER BY f.created_at DESC
		`, folderColumns, r.tables.Folders)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s f
			WHERE f.user_id = $1 AND f.parent_id = $2 AND f.is_deleted = FALSE
			ORDER BY f.created_at DESC
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	return r.queryFolders(ctx, "list folder children", query, args...)
}

// CountChildren returns live item and subfolder counts per folder
func (r *PostgresFolderRepository) CountChildren(ctx context.Context, userID string, folderIDs []string) (map[string]models.FolderCounts, error) {
	counts := make(map[string]models.FolderCounts, len(folderIDs))
	if len(folderIDs) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf(`
		SELECT f.id,
			(SELECT COUNT(*) FROM %s i WHERE i.folder_id = f.id AND i.is_deleted = FALSE),
			(SELECT COUNT(*) FROM %s c WHERE c.parent_id = f.id AND c.is_deleted = FALSE)
		FROM %s f
		WHERE f.user_id = $1 AND f.id::text = ANY($2::text[])
	`, r.tables.Items, r.tables.Folders, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("count folder children: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var c models.FolderCounts
		if err := rows.Scan(&id, &c.Items, &c.Subfolders); err != nil {
			return nil, fmt.Errorf("scan folder counts: %w", err)
		}
		counts[id] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder counts: %w", err)
	}

	return counts, nil
}

// ListFavorites lists live favorite folders, most recently updated first
func (r *PostgresFolderRepository) ListFavorites(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		WHERE f.user_id = $1 AND f.is_favorite = TRUE AND f.is_deleted = FALSE
		ORDER BY f.updated_at DESC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, "list favorite folders", query, userID)
}

// ListTrashed lists soft-deleted folders, most recently updated first
func (r *PostgresFolderRepository) ListTrashed(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		WHERE f.user_id = $1 AND f.is_deleted = TRUE
		ORDER BY f.updated_at DESC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, "list trashed folders", query, userID)
}

// Search matches live folders by name or description substring
func (r *PostgresFolderRepository) Search(ctx context.Context, userID, term string, limit int) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		WHERE f.user_id = $1 AND f.is_deleted = FALSE
		  AND (f.name ILIKE $2 OR f.description ILIKE $2)
		ORDER BY f.updated_at DESC
		LIMIT $3
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, "search folders", query, userID, likePattern(term), limit)
}

// CountLive counts the user's live folders
func (r *PostgresFolderRepository) CountLive(ctx context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE user_id = $1 AND is_deleted = FALSE
	`, r.tables.Folders)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}
	return count, nil
}

// DeleteTrashed hard-deletes every soft-deleted folder of the user
func (r *PostgresFolderRepository) DeleteTrashed(ctx context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE user_id = $1 AND is_deleted = TRUE
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete trashed folders: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, op, query string, args ...interface{}) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, notFoundOr(err, "folder", "", op)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.Description,
		&f.Color,
		&f.ParentID,
		&f.IsFavorite,
		&f.IsDeleted,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
