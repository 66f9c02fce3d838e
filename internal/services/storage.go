package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrInvalidUpload marks uploads rejected before anything is written.
var ErrInvalidUpload = errors.New("invalid upload")

type StorageService interface {
	SaveFile(file *multipart.FileHeader, fileType string) (string, string, error)
	SaveReader(r io.Reader, originalName, fileType string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return errors.Wrap(err, "failed to create upload directory")
	}

	return nil
}

// SaveFile stores an uploaded PDF and returns its stored name and path.
func (s *storageService) SaveFile(file *multipart.FileHeader, fileType string) (string, string, error) {
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return "", "", errors.Mark(
			errors.Newf("file %s exceeds the %d byte limit", file.Filename, s.maxFileSize),
			ErrInvalidUpload)
	}

	src, err := file.Open()
	if err != nil {
		return "", "", errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	return s.SaveReader(src, file.Filename, fileType)
}

func (s *storageService) SaveReader(r io.Reader, originalName, fileType string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".pdf" {
		return "", "", errors.Mark(errors.Newf("invalid file extension: %q", ext), ErrInvalidUpload)
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to create destination file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", "", errors.Wrap(err, "failed to save file")
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		return errors.Wrap(err, "failed to delete file")
	}
	return nil
}
