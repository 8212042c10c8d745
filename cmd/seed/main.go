package main

import (
	"context"
	"flag"
	"log"
	"time"

	"filevault/internal/auth"
	"filevault/internal/catalog"
	"filevault/internal/config"
	models "filevault/internal/domain/models/filesystem"
	fsSvc "filevault/internal/domain/services/filesystem"
	"filevault/internal/repository/postgres"
	postgresFS "filevault/internal/repository/postgres/filesystem"
	serviceFS "filevault/internal/service/filesystem"
	"filevault/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Clear the seed user's folders and items (keep schema)")
	userID := flag.String("user", "demo-user", "Owner id for seeded data")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger := config.NewLogger(cfg.Environment, log.Writer())

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.ApplySchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Stored objects are left in place; only metadata rows are cleared
	log.Printf("Clearing existing data for user %s...", *userID)
	if err := postgres.ClearUserData(ctx, pool, tables, *userID); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("Data cleared successfully")
		return
	}

	objectStorage, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		log.Fatalf("Failed to set up object storage: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	folderRepo := postgresFS.NewFolderRepository(repoConfig)
	itemRepo := postgresFS.NewItemRepository(repoConfig)
	fileRepo := postgresFS.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	validator := serviceFS.NewResourceValidator(folderRepo)

	folders := serviceFS.NewFolderService(folderRepo, itemRepo, validator, logger)
	items := serviceFS.NewItemService(itemRepo, fileRepo, folderRepo, objectStorage, catalog.MustLoad(), txManager, validator, logger)

	if err := seed(ctx, folders, items, *userID); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if cfg.JWTSecret != "" {
		token, err := auth.SignHMAC(cfg.JWTSecret, *userID, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		})
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		log.Printf("Bearer token for %s (24h): %s", *userID, token)
	}

	log.Println("Seeding complete!")
}

type seedItem struct {
	name    string
	kind    models.ItemType
	content string
	tags    []string
}

type seedFolder struct {
	name   string
	color  string
	items  []seedItem
	nested []seedFolder
}

var seedTree = []seedFolder{
	{
		name:  "Work",
		color: "#3b82f6",
		items: []seedItem{
			{"Quarterly report notes", models.ItemTypeNote, "Revenue up, churn down.", []string{"report", "q3"}},
			{"Team wiki", models.ItemTypeLink, "https://example.com/wiki", []string{"docs"}},
		},
		nested: []seedFolder{
			{
				name: "Meetings",
				items: []seedItem{
					{"Standup 2024-05-02", models.ItemTypeNote, "Blocked on review.", []string{"meeting"}},
				},
			},
		},
	},
	{
		name:  "Personal",
		color: "#22c55e",
		items: []seedItem{
			{"Reading list", models.ItemTypeNote, "The Go Programming Language", []string{"books"}},
		},
	},
}

func seed(ctx context.Context, folders fsSvc.FolderService, items fsSvc.ItemService, userID string) error {
	for _, f := range seedTree {
		if err := seedFolderTree(ctx, folders, items, userID, nil, f); err != nil {
			return err
		}
	}

	// One uploaded file at root
	readme := []byte("# filevault\n\nUploaded by the seed tool.\n")
	item, err := items.UploadFileItem(ctx,
		&fsSvc.UploadFileItemRequest{UserID: userID, Name: "README", Type: models.ItemTypeDocument},
		&fsSvc.FilePayload{Data: readme, OriginalName: "README.md", MimeType: "text/markdown", Size: int64(len(readme))},
	)
	if err != nil {
		return err
	}
	log.Printf("Uploaded %s (%s)", item.Name, item.File.URL)
	return nil
}

func seedFolderTree(ctx context.Context, folders fsSvc.FolderService, items fsSvc.ItemService, userID string, parentID *string, f seedFolder) error {
	color := f.color
	var colorPtr *string
	if color != "" {
		colorPtr = &color
	}

	folder, err := folders.CreateFolder(ctx, &fsSvc.CreateFolderRequest{
		UserID:   userID,
		Name:     f.name,
		Color:    colorPtr,
		ParentID: parentID,
	})
	if err != nil {
		return err
	}
	log.Printf("Created folder %s (ID: %s)", folder.Name, folder.ID)

	for _, it := range f.items {
		content := it.content
		item, err := items.CreateItem(ctx, &fsSvc.CreateItemRequest{
			UserID:   userID,
			Name:     it.name,
			Type:     it.kind,
			Content:  &content,
			FolderID: &folder.ID,
			Tags:     it.tags,
		})
		if err != nil {
			return err
		}
		log.Printf("  Created item %s (ID: %s)", item.Name, item.ID)
	}

	for _, child := range f.nested {
		if err := seedFolderTree(ctx, folders, items, userID, &folder.ID, child); err != nil {
			return err
		}
	}
	return nil
}
