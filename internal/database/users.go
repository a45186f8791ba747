package database

import (
	"context"
	"errors"

	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"gorm.io/gorm"
)

func (s *SQLiteDatabase) EnsureUser(ctx context.Context, user models.User) error {
	var existing models.User
	result := s.db.WithContext(ctx).Where("telegram_id = ?", user.TelegramID).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return s.db.WithContext(ctx).Create(&user).Error
}
