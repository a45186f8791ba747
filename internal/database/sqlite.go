package database

import (
	"fmt"
	"os"
	"path/filepath"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SQLiteDatabase struct {
	db *gorm.DB
}

func NewSQLiteDatabase() *SQLiteDatabase {
	return &SQLiteDatabase{}
}

func (s *SQLiteDatabase) Init(config *ddconfig.Config) error {
	if err := os.MkdirAll(config.DownloadPath, 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	dbPath := filepath.Join(config.DownloadPath, "dream_downloader.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteDatabase) runMigrations() error {
	if err := s.db.AutoMigrate(
		&models.User{},
		&models.CachedFile{},
		&models.DownloadedFile{},
		&models.Transcription{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	return nil
}
