package handler

import "net/http"

// Handlers groups every handler the router needs
type Handlers struct {
	Folders *FolderHandler
	Items   *ItemHandler
	Library *LibraryHandler
	Meta    *MetaHandler
}

// RegisterRoutes wires the API onto mux (Go 1.22+ method patterns).
// Literal segments like /items/recent take precedence over /items/{id}.
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	// Health check
	mux.HandleFunc("GET /health", h.Meta.HealthCheck)

	mux.HandleFunc("GET /api/files/stats", h.Library.GetStorageStats)
	mux.HandleFunc("GET /api/files/types", h.Meta.GetTypes)

	// Folder routes
	mux.HandleFunc("POST /api/files/folders", h.Folders.CreateFolder)
	mux.HandleFunc("GET /api/files/folders", h.Folders.ListFolders)
	mux.HandleFunc("GET /api/files/folders/{id}", h.Folders.GetFolder)
	mux.HandleFunc("PATCH /api/files/folders/{id}", h.Folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/files/folders/{id}", h.Folders.DeleteFolder)
	mux.HandleFunc("POST /api/files/folders/{id}/favorite", h.Folders.ToggleFavorite)

	// Item routes
	mux.HandleFunc("POST /api/files/items", h.Items.CreateItem)
	mux.HandleFunc("POST /api/files/items/upload", h.Items.UploadFileItem)
	mux.HandleFunc("GET /api/files/items", h.Items.ListItems)
	mux.HandleFunc("GET /api/files/items/recent", h.Items.ListRecentItems)
	mux.HandleFunc("GET /api/files/items/{id}", h.Items.GetItem)
	mux.HandleFunc("PATCH /api/files/items/{id}", h.Items.UpdateItem)
	mux.HandleFunc("DELETE /api/files/items/{id}", h.Items.DeleteItem)
	mux.HandleFunc("POST /api/files/items/{id}/favorite", h.Items.ToggleFavorite)
	mux.HandleFunc("POST /api/files/items/{id}/duplicate", h.Items.DuplicateItem)

	// Search, favorites, trash
	mux.HandleFunc("GET /api/files/search", h.Library.Search)
	mux.HandleFunc("GET /api/files/favorites", h.Library.GetFavorites)
	mux.HandleFunc("GET /api/files/trash", h.Library.GetTrash)
	mux.HandleFunc("POST /api/files/trash/{id}/restore", h.Library.RestoreFromTrash)
	mux.HandleFunc("DELETE /api/files/trash", h.Library.EmptyTrash)
}
