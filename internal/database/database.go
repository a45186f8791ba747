package database

import (
	"context"
	"time"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

// UserStore records Telegram users on first contact.
type UserStore interface {
	EnsureUser(ctx context.Context, user models.User) error
}

// FileCacheStore maps normalized URLs to Telegram file_ids. Use wherever a
// repeated URL should resend instead of downloading.
type FileCacheStore interface {
	GetCachedFile(ctx context.Context, url string) (*models.CachedFile, error)
	GetCachedFileByID(ctx context.Context, id uint) (*models.CachedFile, error)
	UpsertCachedFile(ctx context.Context, file models.CachedFile) (uint, error)
}

// DownloadStore is the on-disk download history with TTL-based expiry.
type DownloadStore interface {
	GetDownloadedFile(ctx context.Context, url string) (*models.DownloadedFile, error)
	GetDownloadedFileByID(ctx context.Context, id uint) (*models.DownloadedFile, error)
	SaveDownloadedFile(ctx context.Context, file models.DownloadedFile) (uint, error)
	RemoveDownloadedFile(ctx context.Context, id uint) error
	ListExpiredDownloads(ctx context.Context, now time.Time) ([]models.DownloadedFile, error)
	ListTaskDirs(ctx context.Context) ([]string, error)
}

// TranscriptionStore caches recognized speech by Telegram file_unique_id.
type TranscriptionStore interface {
	GetTranscription(ctx context.Context, fileUniqueID string) (*models.Transcription, error)
	SaveTranscription(ctx context.Context, transcription models.Transcription) error
}

// Database is the full storage interface.
type Database interface {
	Init(config *ddconfig.Config) error
	UserStore
	FileCacheStore
	DownloadStore
	TranscriptionStore
}

var GlobalDB Database

func InitDatabase(config *ddconfig.Config) error {
	database, err := NewDatabase(config)
	if err != nil {
		return err
	}
	GlobalDB = database
	return nil
}

func NewDatabase(config *ddconfig.Config) (Database, error) {
	database := NewSQLiteDatabase()
	if err := database.Init(config); err != nil {
		logutils.Log.WithError(err).Error("Failed to initialize the database")
		return nil, err
	}

	logutils.Log.Info("Database initialized successfully")
	return database, nil
}
