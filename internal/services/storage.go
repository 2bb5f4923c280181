package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Media kinds scope refs into subdirectories under the upload root.
const (
	MediaKindVideo    = "videos"
	MediaKindResume   = "resumes"
	MediaKindAnalysis = "analysis"
)

var allowedExtensions = map[string]map[string]bool{
	MediaKindVideo:  {".webm": true, ".mp4": true, ".avi": true},
	MediaKindResume: {".pdf": true},
}

// StorageService is the media boundary: opaque refs in, bytes out. Refs are
// slash-separated relative paths like "videos/video_<uuid>.webm".
type StorageService interface {
	SaveUpload(file *multipart.FileHeader, kind string) (string, error)
	SaveBytes(data []byte, kind, filename string) (string, error)
	Read(ref string) ([]byte, error)
	Path(ref string) string
	Delete(ref string) error
	EnsureDirs() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureDirs() error {
	for _, kind := range []string{MediaKindVideo, MediaKindResume, MediaKindAnalysis} {
		if err := os.MkdirAll(filepath.Join(s.uploadPath, kind), 0755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	return nil
}

func (s *storageService) SaveUpload(file *multipart.FileHeader, kind string) (string, error) {
	// Validate file extensions
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if allowed := allowedExtensions[kind]; allowed != nil && !allowed[ext] {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	ref := path.Join(kind, fmt.Sprintf("%s_%s%s", strings.TrimSuffix(kind, "s"), uuid.New().String(), ext))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(s.Path(ref))
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return ref, nil
}

// SaveBytes writes an artifact under the kind directory with a caller-chosen
// filename, overwriting any previous version so re-renders keep a stable ref.
func (s *storageService) SaveBytes(data []byte, kind, filename string) (string, error) {
	ref := path.Join(kind, filename)
	if err := os.WriteFile(s.Path(ref), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return ref, nil
}

func (s *storageService) Read(ref string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}

	return data, nil
}

func (s *storageService) Path(ref string) string {
	return filepath.Join(s.uploadPath, filepath.FromSlash(ref))
}

func (s *storageService) Delete(ref string) error {
	if err := os.Remove(s.Path(ref)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
