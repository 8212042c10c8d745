package handler

import (
	"log/slog"
	"net/http"

	fsSvc "filevault/internal/domain/services/filesystem"
	"filevault/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService fsSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService fsSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a new folder
// POST /api/files/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req fsSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusCreated, folder, "Folder created successfully")
}

// ListFolders lists the direct children of a folder, or root folders
// GET /api/files/folders?parent_id=
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	folders, err := h.folderService.ListFolders(r.Context(), userID, httputil.QueryOptional(r, "parent_id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folders, "Folders retrieved successfully")
}

// GetFolder retrieves a folder with its contents
// GET /api/files/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folder, "Folder retrieved successfully")
}

// UpdateFolder renames, recolors or moves a folder
// PATCH /api/files/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req fsSvc.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folder, "Folder updated successfully")
}

// DeleteFolder moves a folder to trash, or removes it with ?permanent=true
// DELETE /api/files/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	permanent := httputil.QueryBool(r, "permanent")
	if err := h.folderService.DeleteFolder(r.Context(), userID, r.PathValue("id"), permanent); err != nil {
		handleError(w, h.logger, err)
		return
	}

	message := "Folder moved to trash"
	if permanent {
		message = "Folder permanently deleted"
	}
	httputil.RespondData(w, http.StatusOK, nil, message)
}

// ToggleFavorite flips a folder's favorite flag
// POST /api/files/folders/{id}/favorite
func (h *FolderHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	folder, err := h.folderService.ToggleFavorite(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, folder, favoriteMessage("Folder", folder.IsFavorite))
}
