package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{env: "prod", want: "prod_"},
		{env: "test", want: "test_"},
		{env: "dev", want: "dev_"},
		{env: "staging", want: "dev_"},
		{env: "prod", override: "custom_", want: "custom_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.override, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", tt.override)
			assert.Equal(t, tt.want, getTablePrefix(tt.env))
		})
	}
}

func TestLoad_StorageDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("S3_MAX_RETRIES", "not-a-number")
	t.Setenv("PORT", "9090")

	cfg := Load()

	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Storage.S3MaxRetries)
	assert.Equal(t, "http://localhost:9090", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "prod_", cfg.TablePrefix)
}

func TestSetupLogFile_PrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"filevault-2024-01-01T00-00-00.log",
		"filevault-2024-01-02T00-00-00.log",
		"filevault-2024-01-03T00-00-00.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "filevault-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NotContains(t, files, filepath.Join(dir, "filevault-2024-01-01T00-00-00.log"))
}
