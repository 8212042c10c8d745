package catalog

import (
	"testing"

	"filevault/internal/domain/models/filesystem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	tests := []struct {
		mime         string
		fileType     filesystem.FileType
		folder       string
		resourceKind string
	}{
		{"image/png", filesystem.FileTypeImage, "images", "image"},
		{"IMAGE/JPEG", filesystem.FileTypeImage, "images", "image"},
		{"video/mp4", filesystem.FileTypeVideo, "videos", "video"},
		{"audio/mpeg", filesystem.FileTypeAudio, "audios", "raw"},
		{"application/pdf", filesystem.FileTypeDocument, "documents", "raw"},
		{"text/plain", filesystem.FileTypeDocument, "documents", "raw"},
		{"", filesystem.FileTypeDocument, "documents", "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			got := c.Classify(tt.mime)
			assert.Equal(t, tt.fileType, got.FileType)
			assert.Equal(t, tt.folder, got.Folder)
			assert.Equal(t, tt.resourceKind, got.ResourceKind)
		})
	}
}

func TestItemTypesCoverModel(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	var got []filesystem.ItemType
	for _, info := range c.ItemTypes() {
		got = append(got, info.Type)
	}
	assert.Equal(t, filesystem.ItemTypes, got)
}

func TestParse_RejectsUnknownFileType(t *testing.T) {
	_, err := Parse([]byte(`
mime_rules:
  - prefix: "image/"
    file_type: picture
    folder: images
    resource_kind: image
fallback:
  file_type: document
  folder: documents
  resource_kind: raw
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "picture")
}

func TestRules_EndWithFallback(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	rules := c.Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, "image/", rules[0].Prefix)
	assert.Equal(t, "audio/", rules[2].Prefix)

	last := rules[len(rules)-1]
	assert.Empty(t, last.Prefix)
	assert.Equal(t, c.Classify("application/zip"), last.Classification)
}
