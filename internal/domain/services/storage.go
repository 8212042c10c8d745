package services

import "context"

// UploadHint tells the object storage where and how to store a payload
type UploadHint struct {
	Folder       string // Category bucket: images, videos, audios, documents
	Filename     string // Generated unique filename, extension preserved
	ResourceKind string // Transport hint: image, video, raw
	ContentType  string
}

// StoredObject is what the provider returns for a successful upload
type StoredObject struct {
	URL         string
	ExternalRef string // Opaque key used to remove the object later
}

// ObjectStorage stores and removes binary payloads.
// Both calls are fallible network operations and are never retried here.
type ObjectStorage interface {
	Upload(ctx context.Context, data []byte, hint UploadHint) (*StoredObject, error)
	Remove(ctx context.Context, externalRef string) error
}
