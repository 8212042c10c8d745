package handler

import (
	"log/slog"
	"net/http"

	models "filevault/internal/domain/models/filesystem"
	fsSvc "filevault/internal/domain/services/filesystem"
	"filevault/internal/httputil"
)

// LibraryHandler serves search, favorites, trash and storage stats
type LibraryHandler struct {
	libraryService fsSvc.LibraryService
	logger         *slog.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(libraryService fsSvc.LibraryService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{
		libraryService: libraryService,
		logger:         logger,
	}
}

// Search matches folders and items by name, description or tag
// GET /api/files/search?q=&page&limit
func (h *LibraryHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, err := parsePage(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	results, err := h.libraryService.Search(r.Context(), userID, r.URL.Query().Get("q"), page)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, results, "Search results retrieved successfully")
}

// GetFavorites lists favorite folders and items
// GET /api/files/favorites
func (h *LibraryHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	favorites, err := h.libraryService.GetFavorites(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, favorites, "Favorites retrieved successfully")
}

// GetTrash lists trashed folders and items
// GET /api/files/trash
func (h *LibraryHandler) GetTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	trash, err := h.libraryService.GetTrash(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, trash, "Trash retrieved successfully")
}

// RestoreFromTrash restores a folder or item
// POST /api/files/trash/{id}/restore?type=folder|item
func (h *LibraryHandler) RestoreFromTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	kind := models.RestoreKind(r.URL.Query().Get("type"))
	if err := h.libraryService.RestoreFromTrash(r.Context(), userID, r.PathValue("id"), kind); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, nil, "Restored successfully")
}

// EmptyTrash permanently deletes everything in the trash
// DELETE /api/files/trash
func (h *LibraryHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.libraryService.EmptyTrash(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, result, "Trash emptied successfully")
}

// GetStorageStats reports usage against capacity
// GET /api/files/stats
func (h *LibraryHandler) GetStorageStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.libraryService.GetStorageStats(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, stats, "Storage stats retrieved successfully")
}
