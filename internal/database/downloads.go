package database

import (
	"context"
	"errors"
	"time"

	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"gorm.io/gorm"
)

// GetDownloadedFile returns the history record for a normalized URL, or nil
// when no download is recorded.
func (s *SQLiteDatabase) GetDownloadedFile(ctx context.Context, url string) (*models.DownloadedFile, error) {
	var file models.DownloadedFile
	result := s.db.WithContext(ctx).Where("url = ?", url).First(&file)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &file, nil
}

func (s *SQLiteDatabase) GetDownloadedFileByID(ctx context.Context, id uint) (*models.DownloadedFile, error) {
	var file models.DownloadedFile
	result := s.db.WithContext(ctx).First(&file, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &file, nil
}

// SaveDownloadedFile creates or replaces the record for file.URL and returns
// its id.
func (s *SQLiteDatabase) SaveDownloadedFile(ctx context.Context, file models.DownloadedFile) (uint, error) {
	var existing models.DownloadedFile
	result := s.db.WithContext(ctx).Where("url = ?", file.URL).First(&existing)
	if result.Error == nil {
		existing.FilePath = file.FilePath
		existing.FileSize = file.FileSize
		existing.MediaType = file.MediaType
		existing.TaskDir = file.TaskDir
		existing.CacheID = file.CacheID
		existing.DownloadedAt = file.DownloadedAt
		existing.ExpiresAt = file.ExpiresAt
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return 0, err
		}
		return existing.ID, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}

	if err := s.db.WithContext(ctx).Create(&file).Error; err != nil {
		return 0, err
	}
	return file.ID, nil
}

func (s *SQLiteDatabase) RemoveDownloadedFile(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.DownloadedFile{}, id)
	return result.Error
}

func (s *SQLiteDatabase) ListExpiredDownloads(ctx context.Context, now time.Time) ([]models.DownloadedFile, error) {
	var files []models.DownloadedFile
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Find(&files)
	if result.Error != nil {
		return nil, result.Error
	}
	return files, nil
}

// ListTaskDirs returns the task directories still referenced by history
// records, for the idle-directory purge.
func (s *SQLiteDatabase) ListTaskDirs(ctx context.Context) ([]string, error) {
	var dirs []string
	result := s.db.WithContext(ctx).
		Model(&models.DownloadedFile{}).
		Where("task_dir <> ''").
		Distinct().
		Pluck("task_dir", &dirs)
	if result.Error != nil {
		return nil, result.Error
	}
	return dirs, nil
}
