package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	"filevault/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Items are always read with their file record left-joined in
const itemColumns = `i.id, i.user_id, i.name, i.description, i.type, i.content, i.file_id,
	i.folder_id, i.tags, i.size, i.is_favorite, i.is_deleted, i.created_at, i.updated_at,
	fl.id, fl.filename, fl.original_filename, fl.external_ref, fl.url, fl.file_type,
	fl.mime_type, fl.size, fl.created_at`

// sortColumns whitelists the columns callers may order by
var sortColumns = map[models.SortField]string{
	models.SortByName:      "i.name",
	models.SortByCreatedAt: "i.created_at",
	models.SortByUpdatedAt: "i.updated_at",
	models.SortBySize:      "i.size",
}

// PostgresItemRepository implements the ItemRepository interface
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(config *postgres.RepositoryConfig) fsRepo.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *PostgresItemRepository) from() string {
	return fmt.Sprintf("%s i LEFT JOIN %s fl ON fl.id = i.file_id", r.tables.Items, r.tables.Files)
}

// Create creates a new item
func (r *PostgresItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, type, content, file_id, folder_id, tags, size, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, is_deleted, created_at, updated_at
	`, r.tables.Items)

	item.Tags = nonNil(item.Tags)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.UserID,
		item.Name,
		item.Description,
		string(item.Type),
		item.Content,
		item.FileID,
		item.FolderID,
		item.Tags,
		item.Size,
		item.IsFavorite,
	).Scan(&item.ID, &item.IsDeleted, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("item '%s' references a missing folder or file: %w", item.Name, domain.ErrNotFound)
		}
		return fmt.Errorf("create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item owned by userID in the requested state
func (r *PostgresItemRepository) GetByID(ctx context.Context, id, userID string, state models.DeletionState) (*models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE i.id = $1 AND i.user_id = $2%s
	`, itemColumns, r.from(), stateClause("i", state))

	executor := postgres.GetExecutor(ctx, r.pool)
	item, err := scanItem(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "item", id, "get item")
	}

	return item, nil
}

// Update writes the mutable fields and bumps updated_at
func (r *PostgresItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, content = $3, folder_id = $4, tags = $5,
			is_favorite = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`, r.tables.Items)

	item.Tags = nonNil(item.Tags)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.Name,
		item.Description,
		item.Content,
		item.FolderID,
		item.Tags,
		item.IsFavorite,
		item.ID,
		item.UserID,
	).Scan(&item.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("target folder: %w", domain.ErrNotFound)
		}
		return notFoundOr(err, "item", item.ID, "update item")
	}

	return nil
}

// SetDeleted flips the soft-delete flag
func (r *PostgresItemRepository) SetDeleted(ctx context.Context, id, userID string, deleted bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, deleted, id, userID)
	if err != nil {
		return notFoundOr(err, "item", id, "set item deleted")
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes an item row
func (r *PostgresItemRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return notFoundOr(err, "item", id, "delete item")
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns one page of live items plus the total number of matches
func (r *PostgresItemRepository) List(ctx context.Context, filter *models.ItemFilter) ([]models.Item, int, error) {
	conditions := []string{"i.user_id = $1", "i.is_deleted = FALSE"}
	args := []interface{}{filter.UserID}

	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		conditions = append(conditions, fmt.Sprintf("i.folder_id = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, fmt.Sprintf("i.type = $%d", len(args)))
	}
	if filter.IsFavorite != nil {
		args = append(args, *filter.IsFavorite)
		conditions = append(conditions, fmt.Sprintf("i.is_favorite = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	executor := postgres.GetExecutor(ctx, r.pool)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s i WHERE %s`, r.tables.Items, where)
	if err := executor.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		if postgres.IsPgInvalidInputError(err) {
			return []models.Item{}, 0, nil
		}
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	column, ok := sortColumns[filter.Page.SortBy]
	if !ok {
		column = sortColumns[models.DefaultSortField]
	}
	direction := "DESC"
	if filter.Page.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s %s, i.id
		LIMIT $%d OFFSET $%d
	`, itemColumns, r.from(), where, column, direction, len(args)-1, len(args))

	items, err := r.queryItems(ctx, "list items", query, args...)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListByFolder lists live items directly inside a folder, newest first
func (r *PostgresItemRepository) ListByFolder(ctx context.Context, userID, folderID string) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE i.user_id = $1 AND i.folder_id = $2 AND i.is_deleted = FALSE
		ORDER BY i.created_at DESC
	`, itemColumns, r.from())

	return r.queryItems(ctx, "list folder items", query, userID, folderID)
}

// ListRecent lists live items by updated_at descending
func (r *PostgresItemRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE i.user_id = $1 AND i.is_deleted = FALSE
		ORDER BY i.updated_at DESC
		LIMIT $2
	`, itemColumns, r.from())

	return r.queryItems(ctx, "list recent items", query, userID, limit)
}

// ListFavorites lists live favorite items, most recently updated first
func (r *PostgresItemRepository) ListFavorites(ctx context.Context, userID string) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE i.user_id = $1 AND i.is_favorite = TRUE AND i.is_deleted = FALSE
		ORDER BY i.updated_at DESC
	`, itemColumns, r.from())

	return r.queryItems(ctx, "list favorite items", query, userID)
}

// ListTrashed lists soft-deleted items, most recently updated first
func (r *PostgresItemRepository) ListTrashed(ctx context.Context, userID string) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE i.user_id = $1 AND i.is_deleted = TRUE
		ORDER BY i.updated_at DESC
	`, itemColumns, r.from())

	return r.queryItems(ctx, "list trashed items", query, userID)
}

// Search matches live items by text substring or exact tag
func (r *PostgresItemRepository) Search(ctx context.Context, userID, term string, offset, limit int) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE i.user_id = $1 AND i.is_deleted = FALSE
		  AND (i.name ILIKE $2 OR i.description ILIKE $2 OR i.content ILIKE $2 OR $3 = ANY(i.tags))
		ORDER BY i.updated_at DESC
		LIMIT $4 OFFSET $5
	`, itemColumns, r.from())

	return r.queryItems(ctx, "search items", query, userID, likePattern(term), term, limit, offset)
}

// SumLiveSize sums size over the user's live items
func (r *PostgresItemRepository) SumLiveSize(ctx context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(size), 0)::BIGINT FROM %s WHERE user_id = $1 AND is_deleted = FALSE
	`, r.tables.Items)

	var total int64
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum item sizes: %w", err)
	}
	return total, nil
}

// UsageByType groups live items by type
func (r *PostgresItemRepository) UsageByType(ctx context.Context, userID string) ([]models.TypeUsage, error) {
	query := fmt.Sprintf(`
		SELECT type, COUNT(*), COALESCE(SUM(size), 0)::BIGINT
		FROM %s
		WHERE user_id = $1 AND is_deleted = FALSE
		GROUP BY type
		ORDER BY type
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("usage by type: %w", err)
	}
	defer rows.Close()

	usage := []models.TypeUsage{}
	for rows.Next() {
		var u models.TypeUsage
		var itemType string
		if err := rows.Scan(&itemType, &u.Count, &u.Size); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.Type = models.ItemType(itemType)
		u.SizeGB = models.FormatGiB(u.Size)
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage: %w", err)
	}

	return usage, nil
}

// CountFileReferences counts items other than excludeItemIDs pointing at fileID
func (r *PostgresItemRepository) CountFileReferences(ctx context.Context, fileID string, excludeItemIDs []string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE file_id = $1 AND NOT (id::text = ANY($2::text[]))
	`, r.tables.Items)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, fileID, nonNil(excludeItemIDs)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count file references: %w", err)
	}
	return count, nil
}

// DeleteTrashed hard-deletes the listed items that are still soft-deleted
func (r *PostgresItemRepository) DeleteTrashed(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE user_id = $1 AND is_deleted = TRUE AND id::text = ANY($2::text[])
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete trashed items: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresItemRepository) queryItems(ctx context.Context, op, query string, args ...interface{}) ([]models.Item, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		if postgres.IsPgInvalidInputError(err) {
			return []models.Item{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		if postgres.IsPgInvalidInputError(err) {
			return []models.Item{}, nil
		}
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var (
		item     models.Item
		itemType string

		fileID, filename, originalName, externalRef, url, fileType, mimeType *string
		fileSize                                                            *int64
		fileCreatedAt                                                       *time.Time
	)

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Description,
		&itemType,
		&item.Content,
		&item.FileID,
		&item.FolderID,
		&item.Tags,
		&item.Size,
		&item.IsFavorite,
		&item.IsDeleted,
		&item.CreatedAt,
		&item.UpdatedAt,
		&fileID,
		&filename,
		&originalName,
		&externalRef,
		&url,
		&fileType,
		&mimeType,
		&fileSize,
		&fileCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Type = models.ItemType(itemType)
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if fileID != nil {
		item.File = &models.File{
			ID:               *fileID,
			Filename:         deref(filename),
			OriginalFilename: deref(originalName),
			ExternalRef:      deref(externalRef),
			URL:              deref(url),
			FileType:         models.FileType(deref(fileType)),
			MimeType:         deref(mimeType),
		}
		if fileSize != nil {
			item.File.Size = *fileSize
		}
		if fileCreatedAt != nil {
			item.File.CreatedAt = *fileCreatedAt
		}
	}

	return &item, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
