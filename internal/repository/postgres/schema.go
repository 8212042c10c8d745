package postgres

import (
	"context"
	"fmt"
	"strings"

	"filevault/internal/domain/repositories"
)

// ApplySchema creates the tables and indexes if they do not exist.
// Statements are idempotent so it is safe to run on every start.
func ApplySchema(ctx context.Context, db repositories.DBTX, tables *TableNames, prefix string) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT,
				color TEXT,
				parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
				is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Folders, tables.Folders),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				filename TEXT NOT NULL,
				original_filename TEXT NOT NULL,
				external_ref TEXT NOT NULL,
				url TEXT NOT NULL,
				file_type TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				size BIGINT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Files),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT,
				type TEXT NOT NULL,
				content TEXT,
				file_id UUID REFERENCES %s(id) ON DELETE SET NULL,
				folder_id UUID REFERENCES %s(id) ON DELETE SET NULL,
				tags TEXT[] NOT NULL DEFAULT '{}',
				size BIGINT NOT NULL DEFAULT 0,
				is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
				is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Items, tables.Files, tables.Folders),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sfolders_user_parent ON %s(user_id, parent_id) WHERE is_deleted = FALSE`, prefix, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sfolders_user_deleted ON %s(user_id, is_deleted)`, prefix, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sitems_user_folder ON %s(user_id, folder_id) WHERE is_deleted = FALSE`, prefix, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sitems_user_updated ON %s(user_id, updated_at DESC)`, prefix, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sitems_file ON %s(file_id) WHERE file_id IS NOT NULL`, prefix, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sitems_tags ON %s USING GIN (tags)`, prefix, tables.Items),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// DropSchema drops every table, dependents first
func DropSchema(ctx context.Context, db repositories.DBTX, tables *TableNames) error {
	for _, table := range []string{tables.Items, tables.Files, tables.Folders} {
		if _, err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// ClearUserData hard-deletes everything owned by userID, including file
// records only that user's items referenced
func ClearUserData(ctx context.Context, db repositories.DBTX, tables *TableNames, userID string) error {
	statements := []string{
		fmt.Sprintf(`
			DELETE FROM %s f
			WHERE f.id IN (SELECT file_id FROM %s WHERE user_id = $1 AND file_id IS NOT NULL)
			  AND NOT EXISTS (SELECT 1 FROM %s i WHERE i.file_id = f.id AND i.user_id <> $1)`,
			tables.Files, tables.Items, tables.Items),
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, tables.Items),
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, tables.Folders),
	}
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt, userID); err != nil {
			return fmt.Errorf("clear user data: %w", err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
