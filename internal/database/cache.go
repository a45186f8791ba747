package database

import (
	"context"
	"errors"

	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"gorm.io/gorm"
)

// GetCachedFile returns the cache entry for a normalized URL, or nil when the
// URL has not been cached yet.
func (s *SQLiteDatabase) GetCachedFile(ctx context.Context, url string) (*models.CachedFile, error) {
	var file models.CachedFile
	result := s.db.WithContext(ctx).Where("url = ?", url).First(&file)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &file, nil
}

func (s *SQLiteDatabase) GetCachedFileByID(ctx context.Context, id uint) (*models.CachedFile, error) {
	var file models.CachedFile
	result := s.db.WithContext(ctx).First(&file, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &file, nil
}

// UpsertCachedFile creates or updates the cache entry for file.URL and returns
// its id. Carousels keep the per-item media type (photo or video) so a resend
// can rebuild the album with the right input media; carousel-ness itself is
// derived from the file_id count.
func (s *SQLiteDatabase) UpsertCachedFile(ctx context.Context, file models.CachedFile) (uint, error) {
	var existing models.CachedFile
	result := s.db.WithContext(ctx).Where("url = ?", file.URL).First(&existing)
	if result.Error == nil {
		existing.FileIDs = file.FileIDs
		existing.MediaType = file.MediaType
		existing.UploaderID = file.UploaderID
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
