package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"filevault/internal/auth"
	"filevault/internal/catalog"
	"filevault/internal/config"
	"filevault/internal/domain/repositories"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	"filevault/internal/handler"
	"filevault/internal/middleware"
	"filevault/internal/repository/memory"
	"filevault/internal/repository/postgres"
	postgresFS "filevault/internal/repository/postgres/filesystem"
	serviceFS "filevault/internal/service/filesystem"
	"filevault/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// repositorySet is the persistence the services run on
type repositorySet struct {
	folders   fsRepo.FolderRepository
	items     fsRepo.ItemRepository
	files     fsRepo.FileRepository
	txManager repositories.TransactionManager
	close     func()
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logOutput, closeLog, err := config.LogWriter(cfg.LogDir, cfg.LogMaxFiles)
	if err != nil {
		log.Fatalf("Failed to set up log file: %v", err)
	}
	defer closeLog()

	logger := config.NewLogger(cfg.Environment, logOutput)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"storage_backend", cfg.Storage.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtVerifier, err := auth.NewVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	repos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up repositories: %v", err)
	}
	defer repos.close()

	objectStorage, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		log.Fatalf("Failed to set up object storage: %v", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load item catalog: %v", err)
	}

	// Services
	validator := serviceFS.NewResourceValidator(repos.folders)
	folderService := serviceFS.NewFolderService(repos.folders, repos.items, validator, logger)
	itemService := serviceFS.NewItemService(repos.items, repos.files, repos.folders, objectStorage, cat, repos.txManager, validator, logger)
	libraryService := serviceFS.NewLibraryService(repos.folders, repos.items, repos.files, objectStorage, repos.txManager, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Folders: handler.NewFolderHandler(folderService, logger),
		Items:   handler.NewItemHandler(itemService, logger),
		Library: handler.NewLibraryHandler(libraryService, logger),
		Meta:    handler.NewMetaHandler(cat),
	})

	// Local backend objects are served by this process
	if local, ok := objectStorage.(*storage.LocalStore); ok {
		mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServer(http.Dir(local.Root()))))
		logger.Info("serving local objects", "root", local.Root())
	}

	// Build middleware chain
	// Order: CORS → Recovery → RequestLogger → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier, logger, "/health", "/files/")(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  60 * time.Second, // Uploads up to 50 MiB
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

// setupRepositories connects to Postgres, or falls back to the in-memory
// store when DATABASE_URL is empty
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositorySet, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory repositories (data is lost on restart)")
		store := memory.NewStore()
		return &repositorySet{
			folders:   memory.NewFolderRepository(store),
			items:     memory.NewItemRepository(store),
			files:     memory.NewFileRepository(store),
			txManager: memory.NewTransactionManager(store),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.ApplySchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		pool.Close()
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &repositorySet{
		folders:   postgresFS.NewFolderRepository(repoConfig),
		items:     postgresFS.NewItemRepository(repoConfig),
		files:     postgresFS.NewFileRepository(repoConfig),
		txManager: postgres.NewTransactionManager(pool, logger),
		close:     pool.Close,
	}, nil
}
