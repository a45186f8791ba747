package database

import (
	"context"
	"errors"

	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"gorm.io/gorm"
)

func (s *SQLiteDatabase) GetTranscription(ctx context.Context, fileUniqueID string) (*models.Transcription, error) {
	var transcription models.Transcription
	result := s.db.WithContext(ctx).Where("file_unique_id = ?", fileUniqueID).First(&transcription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &transcription, nil
}

func (s *SQLiteDatabase) SaveTranscription(ctx context.Context, transcription models.Transcription) error {
	var existing models.Transcription
	result := s.db.WithContext(ctx).Where("file_unique_id = ?", transcription.FileUniqueID).First(&existing)
	if result.Error == nil {
		existing.Text = transcription.Text
		existing.UserID = transcription.UserID
		return s.db.WithContext(ctx).Save(&existing).Error
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return s.db.WithContext(ctx).Create(&transcription).Error
}
