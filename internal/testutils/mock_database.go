package testutils

import (
	"context"
	"time"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

// DatabaseStub implements database.Database with no-op methods.
// Embed it in test-specific mocks and override only the methods you need.
type DatabaseStub struct{}

var _ database.Database = (*DatabaseStub)(nil)

func (*DatabaseStub) Init(_ *ddconfig.Config) error { return nil }

// UserStore methods.

func (*DatabaseStub) EnsureUser(_ context.Context, _ models.User) error { return nil }

// FileCacheStore methods.

func (*DatabaseStub) GetCachedFile(_ context.Context, _ string) (*models.CachedFile, error) {
	return nil, nil
}

func (*DatabaseStub) GetCachedFileByID(_ context.Context, _ uint) (*models.CachedFile, error) {
	return nil, nil
}

func (*DatabaseStub) UpsertCachedFile(_ context.Context, _ models.CachedFile) (uint, error) {
	return 0, nil
}

// DownloadStore methods.

func (*DatabaseStub) GetDownloadedFile(_ context.Context, _ string) (*models.DownloadedFile, error) {
	return nil, nil
}

func (*DatabaseStub) GetDownloadedFileByID(_ context.Context, _ uint) (*models.DownloadedFile, error) {
	return nil, nil
}

func (*DatabaseStub) SaveDownloadedFile(_ context.Context, _ models.DownloadedFile) (uint, error) {
	return 0, nil
}

func (*DatabaseStub) RemoveDownloadedFile(_ context.Context, _ uint) error { return nil }

func (*DatabaseStub) ListExpiredDownloads(_ context.Context, _ time.Time) ([]models.DownloadedFile, error) {
	return nil, nil
}

func (*DatabaseStub) ListTaskDirs(_ context.Context) ([]string, error) { return nil, nil }

// TranscriptionStore methods.

func (*DatabaseStub) GetTranscription(_ context.Context, _ string) (*models.Transcription, error) {
	return nil, nil
}

func (*DatabaseStub) SaveTranscription(_ context.Context, _ models.Transcription) error {
	return nil
}
