package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"filevault/internal/catalog"
	"filevault/internal/domain"
	"filevault/internal/httputil"
	"filevault/internal/repository/memory"
	fsService "filevault/internal/service/filesystem"
	"filevault/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	mux     *http.ServeMux
	objects *storage.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	folderRepo := memory.NewFolderRepository(store)
	itemRepo := memory.NewItemRepository(store)
	fileRepo := memory.NewFileRepository(store)
	txManager := memory.NewTransactionManager(store)
	objects := storage.NewMemoryStore()
	validator := fsService.NewResourceValidator(folderRepo)
	cat := catalog.MustLoad()

	folders := fsService.NewFolderService(folderRepo, itemRepo, validator, logger)
	items := fsService.NewItemService(itemRepo, fileRepo, folderRepo, objects, cat, txManager, validator, logger)
	library := fsService.NewLibraryService(folderRepo, itemRepo, fileRepo, objects, txManager, logger)

	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Folders: NewFolderHandler(folders, logger),
		Items:   NewItemHandler(items, logger),
		Library: NewLibraryHandler(library, logger),
		Meta:    NewMetaHandler(cat),
	})

	return &testServer{mux: mux, objects: objects}
}

// do sends a request as userID ("" means unauthenticated)
func (s *testServer) do(t *testing.T, userID, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if userID != "" {
		req = httputil.WithUserID(req, userID)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(t *testing.T, userID, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return s.do(t, userID, method, target, body, "application/json")
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Message
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) httputil.ProblemDetail {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var problem httputil.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

type idResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	IsFavorite bool    `json:"is_favorite"`
	FileID     *string `json:"file_id"`
	File       *struct {
		MimeType string `json:"mime_type"`
		FileType string `json:"file_type"`
		Size     int64  `json:"size"`
	} `json:"file"`
}

func (s *testServer) createFolder(t *testing.T, userID, name string) idResponse {
	t.Helper()
	rec := s.json(t, userID, http.MethodPost, "/api/files/folders", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var f idResponse
	decodeEnvelope(t, rec, &f)
	return f
}

func multipartBody(t *testing.T, fields map[string]string, filename, mimeType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", mimeType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// ============================================================================
// Tests
// ============================================================================

func TestRequiresUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(t, "", http.MethodGet, "/api/files/folders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFolderEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(t, "alice", http.MethodPost, "/api/files/folders", map[string]string{"name": "Docs"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var docs idResponse
	assert.Equal(t, "Folder created successfully", decodeEnvelope(t, rec, &docs))
	assert.Equal(t, "Docs", docs.Name)

	// A new folder comes back with empty child lists, not missing ones
	var created map[string]json.RawMessage
	decodeEnvelope(t, rec, &created)
	assert.JSONEq(t, `[]`, string(created["subfolders"]))
	assert.JSONEq(t, `[]`, string(created["items"]))

	rec = s.json(t, "alice", http.MethodPost, "/api/files/folders", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "alice", http.MethodPost, "/api/files/folders", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, "bob", http.MethodGet, "/api/files/folders/"+docs.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Folder not found", decodeProblem(t, rec).Detail)

	rec = s.json(t, "alice", http.MethodPatch, "/api/files/folders/"+docs.ID, map[string]string{"parent_id": docs.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Folder cannot be its own parent", decodeProblem(t, rec).Detail)

	rec = s.json(t, "alice", http.MethodPost, "/api/files/folders/"+docs.ID+"/favorite", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Folder added to favorites", decodeEnvelope(t, rec, nil))

	rec = s.json(t, "alice", http.MethodPost, "/api/files/folders/"+docs.ID+"/favorite", nil)
	assert.Equal(t, "Folder removed from favorites", decodeEnvelope(t, rec, nil))

	rec = s.json(t, "alice", http.MethodDelete, "/api/files/folders/"+docs.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Folder moved to trash", decodeEnvelope(t, rec, nil))

	rec = s.json(t, "alice", http.MethodGet, "/api/files/folders", nil)
	var list []idResponse
	decodeEnvelope(t, rec, &list)
	assert.Empty(t, list)

	rec = s.json(t, "alice", http.MethodPost, "/api/files/trash/"+docs.ID+"/restore?type=document", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, "alice", http.MethodPost, "/api/files/trash/"+docs.ID+"/restore?type=folder", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Restored successfully", decodeEnvelope(t, rec, nil))

	rec = s.json(t, "alice", http.MethodDelete, "/api/files/folders/"+docs.ID+"?permanent=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Folder permanently deleted", decodeEnvelope(t, rec, nil))
}

func TestItemEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"a", "b", "c"} {
		rec := s.json(t, "alice", http.MethodPost, "/api/files/items", map[string]interface{}{
			"name": name, "type": "NOTE", "content": "text", "tags": []string{"x"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.json(t, "alice", http.MethodGet, "/api/files/items?page=2&limit=2&sort_by=name&sort_order=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items      []idResponse `json:"items"`
		Pagination struct {
			Page       int `json:"page"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	assert.Equal(t, "Items retrieved successfully", decodeEnvelope(t, rec, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].Name)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	tests := []struct {
		name   string
		target string
	}{
		{"non-numeric page", "/api/files/items?page=two"},
		{"negative limit", "/api/files/items?limit=-1"},
		{"unknown type", "/api/files/items?type=SPREADSHEET"},
		{"unknown sort", "/api/files/items?sort_by=color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.json(t, "alice", http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec = s.json(t, "alice", http.MethodGet, "/api/files/items?limit=150", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var clamped struct {
		Items      []idResponse `json:"items"`
		Pagination struct {
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	decodeEnvelope(t, rec, &clamped)
	assert.Len(t, clamped.Items, 3)
	assert.Equal(t, 100, clamped.Pagination.Limit)

	item := page.Items[0]

	rec = s.json(t, "alice", http.MethodPatch, "/api/files/items/"+item.ID, map[string]interface{}{"name": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated idResponse
	decodeEnvelope(t, rec, &updated)
	assert.Equal(t, "renamed", updated.Name)

	rec = s.json(t, "alice", http.MethodGet, "/api/files/items/recent?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recent []idResponse
	decodeEnvelope(t, rec, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, item.ID, recent[0].ID)

	rec = s.json(t, "alice", http.MethodPost, "/api/files/items/"+item.ID+"/favorite", nil)
	assert.Equal(t, "Item added to favorites", decodeEnvelope(t, rec, nil))

	rec = s.json(t, "alice", http.MethodGet, "/api/files/favorites", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var favorites struct {
		Folders []idResponse `json:"folders"`
		Items   []idResponse `json:"items"`
	}
	assert.Equal(t, "Favorites retrieved successfully", decodeEnvelope(t, rec, &favorites))
	assert.Empty(t, favorites.Folders)
	require.Len(t, favorites.Items, 1)
	assert.Equal(t, item.ID, favorites.Items[0].ID)

	rec = s.json(t, "alice", http.MethodPost, "/api/files/items/"+item.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var dup idResponse
	decodeEnvelope(t, rec, &dup)
	assert.Equal(t, "renamed (Copy)", dup.Name)

	rec = s.json(t, "alice", http.MethodGet, "/api/files/search?q=RENAMED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results struct {
		Items []idResponse `json:"items"`
	}
	decodeEnvelope(t, rec, &results)
	assert.Len(t, results.Items, 2)

	rec = s.json(t, "alice", http.MethodGet, "/api/files/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query is required", decodeProblem(t, rec).Detail)

	rec = s.json(t, "alice", http.MethodDelete, "/api/files/items/"+item.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item moved to trash", decodeEnvelope(t, rec, nil))

	rec = s.json(t, "alice", http.MethodGet, "/api/files/items/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(t, "alice", http.MethodDelete, "/api/files/trash", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var purge struct {
		ItemsDeleted int64 `json:"items_deleted"`
	}
	assert.Equal(t, "Trash emptied successfully", decodeEnvelope(t, rec, &purge))
	assert.Equal(t, int64(1), purge.ItemsDeleted)
}

func TestUploadEndpoint(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"name": "Cat", "type": "IMAGE"}, "cat.PNG", "image/png", []byte("fake png"))
	rec := s.do(t, "alice", http.MethodPost, "/api/files/items/upload", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item idResponse
	assert.Equal(t, "File uploaded successfully", decodeEnvelope(t, rec, &item))
	require.NotNil(t, item.File)
	assert.Equal(t, "image", item.File.FileType)
	assert.Equal(t, int64(len("fake png")), item.File.Size)
	assert.Equal(t, 1, s.objects.Len())

	// Form without a file part
	body, contentType = multipartBody(t, map[string]string{"name": "Cat", "type": "IMAGE"}, "", "", nil)
	rec = s.do(t, "alice", http.MethodPost, "/api/files/items/upload", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File is required", decodeProblem(t, rec).Detail)

	// Not multipart at all
	rec = s.json(t, "alice", http.MethodPost, "/api/files/items/upload", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Provider failure does not leak its cause
	s.objects.UploadErr = errors.New("secret bucket credentials rejected")
	body, contentType = multipartBody(t, map[string]string{"name": "Cat", "type": "IMAGE"}, "cat.png", "image/png", []byte("x"))
	rec = s.do(t, "alice", http.MethodPost, "/api/files/items/upload", body, contentType)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, "Failed to upload file", problem.Detail)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestStatsAndTypes(t *testing.T) {
	s := newTestServer(t)
	s.createFolder(t, "alice", "one")

	rec := s.json(t, "alice", http.MethodGet, "/api/files/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalStorageGB string `json:"total_storage_gb"`
		FolderCount    int    `json:"folder_count"`
	}
	assert.Equal(t, "Storage stats retrieved successfully", decodeEnvelope(t, rec, &stats))
	assert.Equal(t, "15.00", stats.TotalStorageGB)
	assert.Equal(t, 1, stats.FolderCount)

	rec = s.json(t, "alice", http.MethodGet, "/api/files/types", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var types TypesResponse
	decodeEnvelope(t, rec, &types)
	assert.Len(t, types.ItemTypes, 8)
	require.NotEmpty(t, types.MimeRules)
	assert.Equal(t, "", types.MimeRules[len(types.MimeRules)-1].Prefix)

	rec = s.json(t, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"not found", domain.NewNotFound("Item not found"), http.StatusNotFound, "Item not found"},
		{"validation", domain.NewValidation("bad"), http.StatusBadRequest, "bad"},
		{"invalid operation", domain.NewInvalidOperation("nope"), http.StatusBadRequest, "nope"},
		{"upstream", &domain.UpstreamError{Message: "Failed to upload file", Cause: errors.New("s3 down")}, http.StatusBadGateway, "Failed to upload file"},
		{"sentinel", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, logger, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail, decodeProblem(t, rec).Detail)
		})
	}
}
