//go:build ignore

// Drops every filevault table for the current environment's prefix.
// Usage: DATABASE_URL=... ENVIRONMENT=dev go run scripts/drop_all_tables.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		env := os.Getenv("ENVIRONMENT")
		if env == "" {
			env = "dev"
		}
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Items reference files and folders, so they go first
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %sitems CASCADE;
		DROP TABLE IF EXISTS %sfiles CASCADE;
		DROP TABLE IF EXISTS %sfolders CASCADE;
	`, prefix, prefix, prefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}
