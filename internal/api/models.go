package api

import "time"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// RouteInfo describes one endpoint in GET /api.
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// APIInfo is the self-description returned by GET /api.
type APIInfo struct {
	Service   string      `json:"service"`
	Version   string      `json:"version"`
	Endpoints []RouteInfo `json:"endpoints"`
}

// DownloadRequest is the body for POST /download.
type DownloadRequest struct {
	URL string `json:"url"`
	// Download returns the first file directly instead of JSON.
	Download bool `json:"download"`
}

// FileInfo is one delivered file in POST /download and /api/process responses.
type FileInfo struct {
	ID             string `json:"id,omitempty"`
	Filename       string `json:"filename"`
	URL            string `json:"url"`
	Path           string `json:"path,omitempty"`
	Size           int64  `json:"size"`
	TelegramFileID string `json:"telegram_file_id,omitempty"`
	BotLink        string `json:"bot_link,omitempty"`
	CacheID        uint   `json:"cache_id,omitempty"`
	NormalizedURL  string `json:"normalized_url,omitempty"`
	MediaType      string `json:"media_type,omitempty"`
	IsCached       bool   `json:"is_cached"`
}

// DownloadResponse is returned by POST /download.
type DownloadResponse struct {
	Status        string         `json:"status"`
	Cached        bool           `json:"cached"`
	Files         []HistoryEntry `json:"files"`
	IsCarousel    bool           `json:"is_carousel"`
	CarouselCount int            `json:"carousel_count"`
	NormalizedURL string         `json:"normalized_url"`
	CacheID       uint           `json:"cache_id,omitempty"`
	Message       string         `json:"message,omitempty"`
}

// HistoryEntry is one session history item. POST /download responses reuse it
// so the web client renders fresh results and history the same way.
type HistoryEntry struct {
	ID              string     `json:"id"`
	Filename        string     `json:"filename"`
	URL             string     `json:"url"`
	Path            string     `json:"path,omitempty"`
	Size            int64      `json:"size"`
	AddedAt         time.Time  `json:"added_at"`
	TelegramFileID  string     `json:"telegram_file_id,omitempty"`
	BotLink         string     `json:"bot_link,omitempty"`
	CacheID         uint       `json:"cache_id,omitempty"`
	NormalizedURL   string     `json:"normalized_url,omitempty"`
	MediaType       string     `json:"media_type,omitempty"`
	IsCached        bool       `json:"is_cached"`
	IsCarousel      bool       `json:"is_carousel"`
	CarouselCount   int        `json:"carousel_count,omitempty"`
	CarouselFiles   []FileInfo `json:"carousel_files,omitempty"`
	CarouselFileIDs []string   `json:"carousel_file_ids,omitempty"`
}

// HistoryResponse is returned by GET /api/history.
type HistoryResponse struct {
	Status  string         `json:"status"`
	History []HistoryEntry `json:"history"`
}

// TranscribeRequest is the JSON body for POST /transcribe.
type TranscribeRequest struct {
	URL string `json:"url"`
}

// TranscribeResponse is returned by POST /transcribe.
type TranscribeResponse struct {
	Status     string `json:"status"`
	Text       string `json:"text"`
	SourceFile string `json:"source_file,omitempty"`
}

// SummaryRequest is the body for POST /summary.
type SummaryRequest struct {
	Text string `json:"text"`
}

// SummaryResponse is returned by POST /summary.
type SummaryResponse struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// ProcessResponse is returned by POST /api/process.
type ProcessResponse struct {
	Status        string       `json:"status"`
	File          HistoryEntry `json:"file"`
	Transcription string       `json:"transcription"`
	Summary       string       `json:"summary"`
}

// UploadRequest is the body for POST /api/telegram/upload. FileID is the
// history entry id, not a Telegram file_id.
type UploadRequest struct {
	FileID string `json:"file_id"`
}

// UploadResponse is returned by POST /api/telegram/upload.
type UploadResponse struct {
	Status         string `json:"status"`
	BotLink        string `json:"bot_link"`
	CacheID        uint   `json:"cache_id"`
	TelegramFileID string `json:"telegram_file_id"`
	Message        string `json:"message,omitempty"`
}

// StatusResponse is the minimal {"status": "..."} reply.
type StatusResponse struct {
	Status string `json:"status"`
}
