package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filevault/internal/config"
	"filevault/internal/domain/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	headErr error
	putErr  error
	puts    map[string][]byte
	types   map[string]string
	deletes []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.puts[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestS3Store_UploadAndRemove(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()

	store, err := NewS3Store(ctx, S3StoreConfig{
		Client:    client,
		Bucket:    "vault",
		Region:    "eu-west-1",
		KeyPrefix: "prod/",
	})
	require.NoError(t, err)

	obj, err := store.Upload(ctx, []byte("hello"), services.UploadHint{
		Folder:      "documents",
		Filename:    "abc.pdf",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "prod/documents/abc.pdf", obj.ExternalRef)
	assert.Equal(t, "https://vault.s3.eu-west-1.amazonaws.com/prod/documents/abc.pdf", obj.URL)
	assert.Equal(t, []byte("hello"), client.puts["prod/documents/abc.pdf"])
	assert.Equal(t, "application/pdf", client.types["prod/documents/abc.pdf"])

	require.NoError(t, store.Remove(ctx, obj.ExternalRef))
	assert.Equal(t, []string{"prod/documents/abc.pdf"}, client.deletes)
}

func TestS3Store_PublicURL(t *testing.T) {
	store, err := NewS3Store(context.Background(), S3StoreConfig{
		Client:    newFakeS3(),
		Bucket:    "vault",
		PublicURL: "http://localhost:9000/vault/",
	})
	require.NoError(t, err)

	obj, err := store.Upload(context.Background(), []byte("x"), services.UploadHint{Folder: "images", Filename: "a b.png"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/vault/images/a%20b.png", obj.URL)
}

func TestS3Store_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3Store(ctx, S3StoreConfig{Client: newFakeS3()})
	assert.Error(t, err, "bucket is required")

	client := newFakeS3()
	client.headErr = errors.New("access denied")
	_, err = NewS3Store(ctx, S3StoreConfig{Client: client, Bucket: "vault"})
	assert.ErrorContains(t, err, "access denied")

	client = newFakeS3()
	store, err := NewS3Store(ctx, S3StoreConfig{Client: client, Bucket: "vault"})
	require.NoError(t, err)
	client.putErr = errors.New("timeout")
	_, err = store.Upload(ctx, []byte("x"), services.UploadHint{Filename: "a"})
	assert.ErrorContains(t, err, "timeout")
}

func TestLocalStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewLocalStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	obj, err := store.Upload(ctx, []byte("pixels"), services.UploadHint{Folder: "images", Filename: "x.png"})
	require.NoError(t, err)
	assert.Equal(t, "images/x.png", obj.ExternalRef)
	assert.Equal(t, "http://localhost:8080/files/images/x.png", obj.URL)

	data, err := os.ReadFile(filepath.Join(dir, "images", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	require.NoError(t, store.Remove(ctx, obj.ExternalRef))
	_, err = os.Stat(filepath.Join(dir, "images", "x.png"))
	assert.True(t, os.IsNotExist(err))

	// Already gone
	assert.NoError(t, store.Remove(ctx, obj.ExternalRef))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	assert.Error(t, store.Remove(context.Background(), "../etc/passwd"))
	assert.Error(t, store.Remove(context.Background(), ""))
}

func TestMemoryStore_FailRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	obj, err := store.Upload(ctx, []byte("a"), services.UploadHint{Folder: "documents", Filename: "a.txt"})
	require.NoError(t, err)
	assert.True(t, store.Has(obj.ExternalRef))

	store.FailRemove(obj.ExternalRef, errors.New("provider down"))
	assert.Error(t, store.Remove(ctx, obj.ExternalRef))
	assert.Equal(t, 1, store.Len())

	store.UploadErr = errors.New("quota")
	_, err = store.Upload(ctx, []byte("b"), services.UploadHint{Filename: "b"})
	assert.Error(t, err)
}

func TestStoredFilename(t *testing.T) {
	name := StoredFilename("Holiday Photo.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)
	assert.Len(t, name, 36+4)

	assert.Len(t, StoredFilename("README"), 36)
	assert.NotEqual(t, StoredFilename("a.txt"), StoredFilename("a.txt"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "videos/v.mp4", ObjectKey(services.UploadHint{Folder: "videos", Filename: "v.mp4"}))
	assert.Equal(t, "v.mp4", ObjectKey(services.UploadHint{Filename: "v.mp4"}))
}

func TestDetectMIME(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

	tests := []struct {
		name     string
		declared string
		data     []byte
		want     string
	}{
		{"declared wins", "application/pdf", png, "application/pdf"},
		{"parameters stripped", "Text/Plain; charset=utf-8", nil, "text/plain"},
		{"sniffed when missing", "", png, "image/png"},
		{"sniffed when generic", "application/octet-stream", png, "image/png"},
		{"empty payload", "", nil, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIME(tt.declared, tt.data))
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.StorageConfig{Backend: BackendMemory}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, config.StorageConfig{Backend: BackendLocal, LocalDir: t.TempDir()}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(ctx, config.StorageConfig{Backend: "ftp"}, testLogger())
	assert.Error(t, err)

	_, err = New(ctx, config.StorageConfig{Backend: BackendS3}, testLogger())
	assert.ErrorContains(t, err, "bucket is required")
}
