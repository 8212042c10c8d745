package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"filevault/internal/config"
	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsSvc "filevault/internal/domain/services/filesystem"
	"filevault/internal/httputil"
)

const (
	// Room for the other form fields and multipart boundaries
	multipartOverhead = 1 << 20
	// Parts beyond this spill to temporary files
	uploadMemory = 8 << 20
)

// ItemHandler handles item HTTP requests
type ItemHandler struct {
	itemService fsSvc.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService fsSvc.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// CreateItem creates a note, link or other content item
// POST /api/files/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req fsSvc.CreateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	item, err := h.itemService.CreateItem(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusCreated, item, "Item created successfully")
}

// UploadFileItem stores a multipart file and creates an item for it
// POST /api/files/items/upload
func (h *ItemHandler) UploadFileItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "File exceeds the 50 MiB limit")
		case errors.Is(err, http.ErrNotMultipart):
			httputil.RespondError(w, http.StatusBadRequest, "File is required")
		default:
			httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		}
		return
	}
	defer r.MultipartForm.RemoveAll()

	payload, err := readUpload(r)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "File exceeds the 50 MiB limit")
			return
		}
		handleError(w, h.logger, err)
		return
	}

	req := fsSvc.UploadFileItemRequest{
		UserID:      userID,
		Name:        r.FormValue("name"),
		Description: formOptional(r, "description"),
		Type:        models.ItemType(r.FormValue("type")),
		FolderID:    formOptional(r, "folder_id"),
	}

	item, err := h.itemService.UploadFileItem(r.Context(), &req, payload)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusCreated, item, "File uploaded successfully")
}

var errFileTooLarge = errors.New("file too large")

// readUpload returns the "file" part, or nil when the form has none
func readUpload(r *http.Request) (*fsSvc.FilePayload, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewValidation("Invalid file part")
	}
	defer file.Close()

	if header.Size > config.MaxUploadSize {
		return nil, errFileTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &fsSvc.FilePayload{
		Data:         data,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
	}, nil
}

func formOptional(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// ListItems lists live items, paged and filtered
// GET /api/files/items?page&limit&sort_by&sort_order&folder_id&type&favorites
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, err := parsePage(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	req := fsSvc.ListItemsRequest{
		UserID:        userID,
		Page:          page,
		FolderID:      httputil.QueryOptional(r, "folder_id"),
		FavoritesOnly: httputil.QueryBool(r, "favorites"),
	}
	if raw := httputil.QueryOptional(r, "type"); raw != nil {
		itemType, err := models.ParseItemType(*raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Type = &itemType
	}

	result, err := h.itemService.ListItems(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, result, "Items retrieved successfully")
}

// ListRecentItems lists the most recently updated items
// GET /api/files/items/recent?limit=
func (h *ItemHandler) ListRecentItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, err := httputil.QueryInt(r, "limit", config.DefaultRecentLimit)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.itemService.ListRecentItems(r.Context(), userID, limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, items, "Recent items retrieved successfully")
}

// GetItem retrieves an item
// GET /api/files/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, item, "Item retrieved successfully")
}

// UpdateItem applies a partial update
// PATCH /api/files/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req fsSvc.UpdateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, item, "Item updated successfully")
}

// DeleteItem moves an item to trash, or removes it with ?permanent=true.
// A permanent delete returns what was removed and any storage failures.
// DELETE /api/files/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	permanent := httputil.QueryBool(r, "permanent")
	result, err := h.itemService.DeleteItem(r.Context(), userID, r.PathValue("id"), permanent)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if !permanent {
		httputil.RespondData(w, http.StatusOK, nil, "Item moved to trash")
		return
	}
	httputil.RespondData(w, http.StatusOK, result, "Item permanently deleted")
}

// ToggleFavorite flips an item's favorite flag
// POST /api/files/items/{id}/favorite
func (h *ItemHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.ToggleFavorite(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, item, favoriteMessage("Item", item.IsFavorite))
}

// DuplicateItem copies an item; file-backed copies share the binary
// POST /api/files/items/{id}/duplicate
func (h *ItemHandler) DuplicateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.DuplicateItem(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusCreated, item, "Item duplicated successfully")
}
