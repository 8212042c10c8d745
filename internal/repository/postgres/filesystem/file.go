package filesystem

import (
	"context"
	"fmt"
	"log/slog"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	"filevault/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) fsRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (filename, original_filename, external_ref, url, file_type, mime_type, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.Filename,
		file.OriginalFilename,
		file.ExternalRef,
		file.URL,
		string(file.FileType),
		file.MimeType,
		file.Size,
	).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file record
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, filename, original_filename, external_ref, url, file_type, mime_type, size, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Files)

	var f models.File
	var fileType string
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.Filename,
		&f.OriginalFilename,
		&f.ExternalRef,
		&f.URL,
		&fileType,
		&f.MimeType,
		&f.Size,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "file", id, "get file")
	}
	f.FileType = models.FileType(fileType)

	return &f, nil
}

// Delete removes a file record. Items still pointing at it are detached.
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return notFoundOr(err, "file", id, "delete file")
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
