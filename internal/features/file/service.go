package file

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxFileSizeBytes = 10 << 20
	maxFilesPerTask  = 20
)

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"text/plain": true,
	"text/csv":   true,
}

type FileService interface {
	GetFilesByTask(ctx context.Context, taskID string) ([]*File, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DeleteFile(ctx context.Context, fileID string, userID primitive.ObjectID) error
	ValidateUpload(ctx context.Context, taskID string, fileSize int64, mimeType string) error
	SaveFile(ctx context.Context, file *File) error
}

type FileServiceImpl struct {
	FileRepo FileRepository
}

func NewFileService(fileRepo FileRepository) FileService {
	return &FileServiceImpl{FileRepo: fileRepo}
}

func (s *FileServiceImpl) GetFilesByTask(ctx context.Context, taskID string) ([]*File, error) {
	return s.FileRepo.FindByTask(ctx, taskID)
}

func (s *FileServiceImpl) GetFile(ctx context.Context, fileID string) (*File, error) {
	return s.FileRepo.Get(ctx, fileID)
}

func (s *FileServiceImpl) SaveFile(ctx context.Context, file *File) error {
	return s.FileRepo.Save(ctx, file)
}

func (s *FileServiceImpl) DeleteFile(ctx context.Context, fileID string, userID primitive.ObjectID) error {
	file, err := s.FileRepo.Get(ctx, fileID)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	if file.UploadedBy != userID {
		return fmt.Errorf("unauthorized: you can only delete your own files")
	}

	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file from disk: %w", err)
	}

	return s.FileRepo.Delete(ctx, fileID)
}

func (s *FileServiceImpl) ValidateUpload(ctx context.Context, taskID string, fileSize int64, mimeType string) error {
	if fileSize > maxFileSizeBytes {
		return fmt.Errorf("file too large (max %dMB)", maxFileSizeBytes>>20)
	}

	if !allowedMimeTypes[mimeType] {
		return fmt.Errorf("file type not allowed: %s", mimeType)
	}

	if taskID != "" {
		count, err := s.FileRepo.CountByTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to check file count: %w", err)
		}
		if count >= maxFilesPerTask {
			return fmt.Errorf("maximum files per task reached (%d)", maxFilesPerTask)
		}
	}

	return nil
}
