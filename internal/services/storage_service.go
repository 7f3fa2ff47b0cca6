package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"sokoni-backend/config"
	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/utils"
)

// Storage persists uploaded files and returns a public URL. Delete is
// best effort: URLs the backend does not recognize are ignored.
type Storage interface {
	Store(ctx context.Context, filename string, content io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

// ValidateUpload checks the extension allow-list and size limit before
// a file reaches any backend
func ValidateUpload(cfg *config.Config, filename string, size int64) error {
	ext := utils.FileExtension(filename)
	if ext == "" {
		return apperr.Validation("validation failed",
			apperr.FieldError{Field: "file", Message: "file has no extension"})
	}

	allowed := false
	for _, a := range cfg.AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperr.Validation("validation failed",
			apperr.FieldError{Field: "file", Message: fmt.Sprintf("file type .%s is not allowed", ext)})
	}

	if size > cfg.MaxFileSize {
		return apperr.Validation("validation failed",
			apperr.FieldError{Field: "file", Message: fmt.Sprintf("file exceeds the %d byte limit", cfg.MaxFileSize)})
	}
	return nil
}

// storedName builds a collision-free name keeping the original extension
func storedName(filename string) string {
	return uuid.New().String() + "." + utils.FileExtension(filename)
}

// LocalStorage writes uploads to disk under the configured directory
type LocalStorage struct {
	uploadPath string
	baseURL    string
}

// NewLocalStorage creates a disk-backed storage rooted at uploadPath
func NewLocalStorage(uploadPath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{uploadPath: uploadPath, baseURL: baseURL}, nil
}

// Store writes the file and returns its public URL
func (ls *LocalStorage) Store(_ context.Context, filename string, content io.Reader, _ int64) (string, error) {
	name := storedName(filename)
	path := filepath.Join(ls.uploadPath, name)

	out, err := os.Create(path)
	if err != nil {
		return "", apperr.Storage("failed to create upload file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		os.Remove(path)
		return "", apperr.Storage("failed to write upload file", err)
	}

	return fmt.Sprintf("%s/uploads/%s", ls.baseURL, name), nil
}

// Delete removes a previously stored file. URLs outside the upload
// directory are left alone.
func (ls *LocalStorage) Delete(_ context.Context, url string) error {
	prefix := ls.baseURL + "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, prefix))
	if err := os.Remove(filepath.Join(ls.uploadPath, name)); err != nil && !os.IsNotExist(err) {
		return apperr.Storage("failed to delete upload file", err)
	}
	return nil
}

// DriveStorage uploads files to a Google Drive folder using a
// server-held refresh token
type DriveStorage struct {
	config   *oauth2.Config
	token    *oauth2.Token
	folderID string
}

// NewDriveStorage creates a Drive-backed storage from the configured
// OAuth credentials
func NewDriveStorage(cfg *config.Config) *DriveStorage {
	return &DriveStorage{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleDriveClientID,
			ClientSecret: cfg.GoogleDriveClientSecret,
			Scopes:       []string{drive.DriveFileScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
		},
		token:    &oauth2.Token{RefreshToken: cfg.GoogleDriveRefreshToken, TokenType: "Bearer"},
		folderID: cfg.GoogleDriveFolderID,
	}
}

// Store uploads the file, makes it world-readable and returns a direct
// download URL
func (ds *DriveStorage) Store(ctx context.Context, filename string, content io.Reader, _ int64) (string, error) {
	client := ds.config.Client(ctx, ds.token)
	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", apperr.Storage("failed to create drive service", err)
	}

	file := &drive.File{Name: storedName(filename)}
	if ds.folderID != "" {
		file.Parents = []string{ds.folderID}
	}

	uploaded, err := service.Files.Create(file).Media(content).Context(ctx).Do()
	if err != nil {
		return "", apperr.Storage("failed to upload file to drive", err)
	}

	_, err = service.Permissions.Create(uploaded.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", apperr.Storage("failed to publish drive file", err)
	}

	return fmt.Sprintf("https://drive.google.com/uc?id=%s", uploaded.Id), nil
}

// Delete removes a previously uploaded file. URLs that are not Drive
// download links are left alone.
func (ds *DriveStorage) Delete(ctx context.Context, url string) error {
	const prefix = "https://drive.google.com/uc?id="
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	fileID := strings.TrimPrefix(url, prefix)

	client := ds.config.Client(ctx, ds.token)
	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return apperr.Storage("failed to create drive service", err)
	}
	if err := service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return apperr.Storage("failed to delete drive file", err)
	}
	return nil
}
