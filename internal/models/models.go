package models

import "time"

type MediaType string

const (
	MediaTypePhoto    MediaType = "photo"
	MediaTypeVideo    MediaType = "video"
	MediaTypeAudio    MediaType = "audio"
	MediaTypeDocument MediaType = "document"
	MediaTypeCarousel MediaType = "carousel"
)

func (m MediaType) String() string {
	return string(m)
}

func (m MediaType) IsValid() bool {
	switch m {
	case MediaTypePhoto, MediaTypeVideo, MediaTypeAudio, MediaTypeDocument, MediaTypeCarousel:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uint      `json:"id"            gorm:"primaryKey"`
	TelegramID   int64     `json:"telegram_id"   gorm:"not null;uniqueIndex"`
	Username     string    `json:"username"      gorm:""`
	FirstName    string    `json:"first_name"    gorm:""`
	LastName     string    `json:"last_name"     gorm:""`
	LanguageCode string    `json:"language_code" gorm:""`
	CreatedAt    time.Time `json:"created_at"    gorm:"autoCreateTime"`
}

// CachedFile maps a normalized URL to Telegram file_ids so repeated requests
// resend without downloading.
type CachedFile struct {
	ID         uint      `json:"id"          gorm:"primaryKey"`
	URL        string    `json:"url"         gorm:"not null;uniqueIndex"`
	FileIDs    []string  `json:"file_ids"    gorm:"serializer:json"`
	MediaType  MediaType `json:"media_type"  gorm:"not null"`
	UploaderID int64     `json:"uploader_id" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"  gorm:"autoCreateTime"`
}

func (c *CachedFile) IsCarousel() bool {
	return len(c.FileIDs) > 1
}

func (c *CachedFile) FirstFileID() string {
	if len(c.FileIDs) == 0 {
		return ""
	}
	return c.FileIDs[0]
}

// DownloadedFile records a file kept on disk so a repeated URL within the TTL
// reuses it instead of downloading again.
type DownloadedFile struct {
	ID           uint      `json:"id"            gorm:"primaryKey"`
	URL          string    `json:"url"           gorm:"not null;uniqueIndex"`
	FilePath     string    `json:"file_path"     gorm:"not null"`
	FileSize     int64     `json:"file_size"     gorm:"not null;default:0"`
	MediaType    MediaType `json:"media_type"    gorm:"not null"`
	TaskDir      string    `json:"task_dir"      gorm:""`
	CacheID      *uint     `json:"cache_id"      gorm:""`
	DownloadedAt time.Time `json:"downloaded_at" gorm:"autoCreateTime"`
	ExpiresAt    time.Time `json:"expires_at"    gorm:"not null"`
}

func (d *DownloadedFile) IsExpired() bool {
	return time.Now().After(d.ExpiresAt)
}

type Transcription struct {
	ID           uint      `json:"id"             gorm:"primaryKey"`
	FileUniqueID string    `json:"file_unique_id" gorm:"not null;uniqueIndex"`
	UserID       int64     `json:"user_id"        gorm:"not null;default:0"`
	Text         string    `json:"text"           gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"     gorm:"autoCreateTime"`
}
