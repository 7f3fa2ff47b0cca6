package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokoni-backend/config"
	"sokoni-backend/internal/apperr"
)

func uploadConfig() *config.Config {
	return &config.Config{
		MaxFileSize:       5 * 1024 * 1024,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "gif", "webp"},
	}
}

func TestValidateUpload(t *testing.T) {
	cfg := uploadConfig()

	assert.NoError(t, ValidateUpload(cfg, "photo.png", 1024))
	assert.NoError(t, ValidateUpload(cfg, "PHOTO.JPG", 1024))

	err := ValidateUpload(cfg, "script.exe", 1024)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = ValidateUpload(cfg, "noextension", 1024)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = ValidateUpload(cfg, "photo.png", cfg.MaxFileSize+1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLocalStorageStoreAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080")
	require.NoError(t, err)

	url, err := storage.Store(context.Background(), "photo.png", strings.NewReader("image-bytes"), 11)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))

	name := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	_, err = os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)

	require.NoError(t, storage.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteIgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080")
	require.NoError(t, err)

	// URLs from other backends or hosts are left alone
	assert.NoError(t, storage.Delete(context.Background(), "https://cdn.example.com/elsewhere.png"))
	assert.NoError(t, storage.Delete(context.Background(), "http://localhost:8080/uploads/never-stored.png"))
}
