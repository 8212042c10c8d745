package storage

import (
	"path"
	"path/filepath"
	"strings"

	"filevault/internal/domain/services"

	"github.com/google/uuid"
)

// StoredFilename returns a unique name for an upload, keeping the
// original extension (lowercased) so downloads open with the right app.
func StoredFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "." || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// ObjectKey is "<folder>/<filename>", or just the filename without a folder
func ObjectKey(hint services.UploadHint) string {
	if hint.Folder == "" {
		return hint.Filename
	}
	return path.Join(hint.Folder, hint.Filename)
}
