package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"cityguard/internal/config"

	"github.com/google/uuid"
)

// ImageStorage stores and removes uploaded images.
// The local-disk implementation stands in for an external image host.
type ImageStorage interface {
	Save(file *multipart.FileHeader) (*StoredImage, error)
	Delete(id string) error
}

// StoredImage identifies a stored upload
type StoredImage struct {
	ID  string `json:"id"`  // storage identifier (relative file name)
	URL string `json:"url"` // public URL the client loads
}

// StorageService stores uploads on local disk under the configured directory
type StorageService struct {
	dir       string
	publicURL string
}

// NewStorageService creates a new storage service and ensures the upload dir exists
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &StorageService{
		dir:       cfg.Upload.Dir,
		publicURL: strings.TrimSuffix(cfg.Upload.PublicURL, "/"),
	}, nil
}

// Save writes the upload to disk under a generated name
func (s *StorageService) Save(file *multipart.FileHeader) (*StoredImage, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return nil, err
	}

	return &StoredImage{
		ID:  name,
		URL: s.publicURL + "/" + name,
	}, nil
}

// Delete removes a stored image. Missing files are not an error:
// replacing an image must succeed even if the old file is already gone.
func (s *StorageService) Delete(id string) error {
	if id == "" {
		return nil
	}
	// Reject path traversal in stored identifiers
	if filepath.Base(id) != id {
		return fmt.Errorf("invalid storage id: %s", id)
	}
	err := os.Remove(filepath.Join(s.dir, id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
