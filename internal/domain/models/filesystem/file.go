package filesystem

import (
	"time"
)

// FileType is the coarse classification of an uploaded binary
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeDocument FileType = "document"
)

// File is the metadata record of a binary held by the object storage provider.
// One file may be referenced by several items once an item is duplicated.
type File struct {
	ID               string    `json:"id" db:"id"`
	Filename         string    `json:"filename" db:"filename"`
	OriginalFilename string    `json:"original_filename" db:"original_filename"`
	ExternalRef      string    `json:"external_ref" db:"external_ref"`
	URL              string    `json:"url" db:"url"`
	FileType         FileType  `json:"file_type" db:"file_type"`
	MimeType         string    `json:"mime_type" db:"mime_type"`
	Size             int64     `json:"size" db:"size"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
