package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader/manager"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/summarize"
	"github.com/dreamcatchered/dreamDownloader/internal/transcribe"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	// maxJSONBodyBytes limits JSON request bodies.
	maxJSONBodyBytes = 1 << 20
	// maxUploadBodyBytes limits multipart uploads for /transcribe.
	maxUploadBodyBytes = 512 << 20
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: "download-api"})
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, APIInfo{
		Service: "download-api",
		Version: "2.0",
		Endpoints: []RouteInfo{
			{Method: http.MethodGet, Path: healthPath, Description: "service health"},
			{Method: http.MethodPost, Path: downloadPath, Description: "download media by url; cached files come from Telegram"},
			{Method: http.MethodGet, Path: filesPrefix + "{path}", Description: "serve a downloaded file"},
			{Method: http.MethodGet, Path: fileByIDPrefix + "{id}", Description: "serve a history entry as attachment"},
			{Method: http.MethodGet, Path: previewPrefix + "{path}", Description: "serve a video inline for previewing"},
			{Method: http.MethodPost, Path: transcribePath, Description: "transcribe by url or uploaded file"},
			{Method: http.MethodPost, Path: summaryPath, Description: "summarize text"},
			{Method: http.MethodPost, Path: processPath, Description: "download, transcribe and summarize in one call"},
			{Method: http.MethodGet, Path: historyPath, Description: "session download history"},
			{Method: http.MethodDelete, Path: historyPath, Description: "clear session history"},
			{Method: http.MethodDelete, Path: historyPrefix + "{id}", Description: "remove one history entry"},
			{Method: http.MethodPost, Path: uploadPath, Description: "upload a history file to Telegram, returns the bot deep link"},
		},
	})
}

// decodeJSON reads a bounded JSON body into v, answering the request itself
// on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// normalizeRequestURL mirrors what the bot does to incoming links: add the
// scheme when missing, expand short links, normalize.
func normalizeRequestURL(r *http.Request, raw string) (string, error) {
	target := strings.TrimSpace(raw)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}
	if platform.IsShortLink(target) {
		target = platform.ExpandShortURL(r.Context(), target)
	}
	return platform.Normalize(target)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req DownloadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	normalized, err := normalizeRequestURL(r, req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, utils.DownloadErrorMessage(err))
		return
	}

	cached, err := database.GlobalDB.GetCachedFile(r.Context(), normalized)
	if err != nil {
		logutils.Log.WithError(err).Error("Cache lookup failed")
	}
	if cached != nil && len(cached.FileIDs) > 0 {
		if s.respondFromCache(w, r, normalized, cached, req.Download) {
			return
		}
		logutils.Log.WithField("url", normalized).Info("Cache delivery failed, downloading from the source")
	}
	s.respondFresh(w, r, normalized, req.Download)
}

// respondFromCache fetches the cached file_ids back from Telegram and serves
// them. Returns false when any fetch fails so the caller downloads fresh.
func (s *Server) respondFromCache(w http.ResponseWriter, r *http.Request, normalized string, cached *models.CachedFile, direct bool) bool {
	ctx := r.Context()

	taskDir := filepath.Join(s.config.DownloadPath, uuid.NewString())
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		logutils.Log.WithError(err).Error("Failed to create task dir")
		return false
	}

	botLink := s.bot.DeepLink(cached.ID)
	infos := make([]FileInfo, 0, len(cached.FileIDs))
	for i, fileID := range cached.FileIDs {
		base := "file"
		if len(cached.FileIDs) > 1 {
			base = fmt.Sprintf("file_%d", i)
		}
		filePath, err := s.bot.DownloadFileToDir(ctx, fileID, taskDir, base)
		if err != nil {
			logutils.Log.WithError(err).WithField("file_id", fileID).Warn("Cached file fetch from Telegram failed")
			os.RemoveAll(taskDir)
			return false
		}
		infos = append(infos, FileInfo{
			Filename:       filepath.Base(filePath),
			URL:            s.fileURL(r, filePath),
			Path:           filePath,
			Size:           utils.FileSize(filePath),
			TelegramFileID: fileID,
			BotLink:        botLink,
			CacheID:        cached.ID,
			NormalizedURL:  normalized,
			MediaType:      string(cached.MediaType),
			IsCached:       true,
		})
	}

	entry := s.recordDownload(r, normalized, infos, cached.ID, botLink, cached.MediaType, true)

	if direct {
		s.serveAttachment(w, r, infos[0].Path)
		return true
	}
	writeJSON(w, http.StatusOK, DownloadResponse{
		Status:        "success",
		Cached:        true,
		Files:         []HistoryEntry{entry},
		IsCarousel:    entry.IsCarousel,
		CarouselCount: entry.CarouselCount,
		NormalizedURL: normalized,
		CacheID:       cached.ID,
		Message:       lang.GetMessage(lang.APICachedDeliveryMsgID),
	})
	return true
}

// respondFresh runs the download pipeline, uploads the result to the service
// group for file_ids and answers with the file list.
func (s *Server) respondFresh(w http.ResponseWriter, r *http.Request, normalized string, direct bool) {
	ctx := r.Context()

	result, err := manager.GlobalManager.Download(ctx, normalized, nil)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, utils.ErrInvalidURL) || errors.Is(err, utils.ErrUnsupportedURL) {
			status = http.StatusBadRequest
		}
		logutils.Log.WithError(err).WithField("url", normalized).Error("API download failed")
		writeError(w, status, utils.DownloadErrorMessage(err))
		return
	}
	if len(result.Files) == 0 {
		writeError(w, http.StatusBadGateway, utils.DownloadErrorMessage(utils.ErrNoMediaFound))
		return
	}

	fileIDs := s.uploadToServiceGroup(ctx, result.Files)

	var cacheID uint
	var botLink string
	if len(fileIDs) == len(result.Files) {
		cacheID, err = database.GlobalDB.UpsertCachedFile(ctx, models.CachedFile{
			URL:       normalized,
			FileIDs:   fileIDs,
			MediaType: groupMediaType(result.Files),
		})
		if err != nil {
			logutils.Log.WithError(err).Error("Failed to cache uploaded files")
		} else {
			botLink = s.bot.DeepLink(cacheID)
		}
	}

	infos := make([]FileInfo, 0, len(result.Files))
	for i, f := range result.Files {
		info := FileInfo{
			Filename:      filepath.Base(f.Path),
			URL:           s.fileURL(r, f.Path),
			Path:          f.Path,
			Size:          f.Size,
			BotLink:       botLink,
			CacheID:       cacheID,
			NormalizedURL: normalized,
			MediaType:     string(f.MediaType),
		}
		if i < len(fileIDs) {
			info.TelegramFileID = fileIDs[i]
		}
		infos = append(infos, info)
	}

	// Files stay on disk for /files links until the TTL sweep collects the
	// task dir.
	now := time.Now()
	var cacheRef *uint
	if cacheID != 0 {
		cacheRef = &cacheID
	}
	if _, err := database.GlobalDB.SaveDownloadedFile(ctx, models.DownloadedFile{
		URL:          normalized,
		FilePath:     result.Files[0].Path,
		FileSize:     result.Files[0].Size,
		MediaType:    groupMediaType(result.Files),
		TaskDir:      result.TaskDir,
		CacheID:      cacheRef,
		DownloadedAt: now,
		ExpiresAt:    now.Add(s.config.GetDownloadSettings().FileTTL),
	}); err != nil {
		logutils.Log.WithError(err).Error("Failed to record download history")
	}

	entry := s.recordDownload(r, normalized, infos, cacheID, botLink, groupMediaType(result.Files), false)

	if direct {
		s.serveAttachment(w, r, infos[0].Path)
		return
	}
	writeJSON(w, http.StatusOK, DownloadResponse{
		Status:        "success",
		Cached:        false,
		Files:         []HistoryEntry{entry},
		IsCarousel:    entry.IsCarousel,
		CarouselCount: entry.CarouselCount,
		NormalizedURL: normalized,
		CacheID:       cacheID,
		Message:       lang.GetMessage(lang.APIFreshDeliveryMsgID),
	})
}

// groupMediaType is the cache row type for a set of files: the single file's
// own type, or video when an album holds any video.
func groupMediaType(files []downloader.File) models.MediaType {
	if len(files) == 1 {
		return files[0].MediaType
	}
	for _, f := range files {
		if f.MediaType == models.MediaTypeVideo {
			return models.MediaTypeVideo
		}
	}
	return models.MediaTypePhoto
}

// uploadToServiceGroup obtains Telegram file_ids by posting the files into the
// service group. Albums of photos and videos go as media groups; everything
// else individually. Missing uploads shorten the returned slice.
func (s *Server) uploadToServiceGroup(ctx context.Context, files []downloader.File) []string {
	groupID := s.config.ServiceGroupID
	if groupID == 0 {
		return nil
	}

	if len(files) > 1 && allPhotoOrVideo(files) {
		items := make([]ddbot.GroupItem, 0, len(files))
		for _, f := range files {
			items = append(items, ddbot.GroupItem{Media: tgbotapi.FilePath(f.Path), MediaType: f.MediaType})
		}
		messages, err := s.bot.SendMediaGroup(ctx, groupID, items, "")
		if err != nil {
			logutils.Log.WithError(err).Warn("Service group album upload failed, falling back to individual uploads")
		} else {
			fileIDs := make([]string, 0, len(messages))
			for _, m := range messages {
				if id := ddbot.SentFileID(m); id != "" {
					fileIDs = append(fileIDs, id)
				}
			}
			return fileIDs
		}
	}

	var fileIDs []string
	for _, f := range files {
		fileID, _, err := s.uploadFile(ctx, f.Path)
		if err != nil {
			logutils.Log.WithError(err).WithField("path", f.Path).Warn("Service group upload failed")
			continue
		}
		fileIDs = append(fileIDs, fileID)
	}
	return fileIDs
}

func allPhotoOrVideo(files []downloader.File) bool {
	for _, f := range files {
		if f.MediaType != models.MediaTypePhoto && f.MediaType != models.MediaTypeVideo {
			return false
		}
	}
	return true
}

// uploadFile posts one file to the service group and returns its file_id and
// classification. Unknown extensions go out as documents.
func (s *Server) uploadFile(ctx context.Context, filePath string) (string, models.MediaType, error) {
	groupID := s.config.ServiceGroupID
	mediaType := downloader.MediaTypeFromPath(filePath)

	var sent tgbotapi.Message
	var err error
	switch mediaType {
	case models.MediaTypeVideo:
		sent, err = s.bot.SendVideoFile(ctx, groupID, filePath, ddbot.VideoOptions{})
	case models.MediaTypeAudio:
		sent, err = s.bot.SendAudioFile(ctx, groupID, filePath, ddbot.AudioOptions{})
	case models.MediaTypePhoto:
		sent, err = s.bot.SendPhotoFile(ctx, groupID, filePath, "")
	default:
		mediaType = models.MediaTypeDocument
		sent, err = s.bot.SendDocumentFile(ctx, groupID, filePath, "")
	}
	if err != nil {
		return "", mediaType, err
	}
	fileID := ddbot.SentFileID(sent)
	if fileID == "" {
		return "", mediaType, errors.New("telegram returned no file_id")
	}
	return fileID, mediaType, nil
}

// recordDownload folds the delivered files into one history entry. Albums
// become a single carousel entry carrying the per-file list.
func (s *Server) recordDownload(r *http.Request, normalized string, infos []FileInfo, cacheID uint, botLink string, mediaType models.MediaType, isCached bool) HistoryEntry {
	sessionID := SessionIDFromContext(r.Context())

	if len(infos) == 1 {
		f := infos[0]
		return s.history.Add(sessionID, HistoryEntry{
			Filename:       f.Filename,
			URL:            f.URL,
			Path:           f.Path,
			Size:           f.Size,
			TelegramFileID: f.TelegramFileID,
			BotLink:        botLink,
			CacheID:        cacheID,
			NormalizedURL:  normalized,
			MediaType:      string(mediaType),
			IsCached:       isCached,
		})
	}

	var total int64
	var ids []string
	for _, f := range infos {
		total += f.Size
		if f.TelegramFileID != "" {
			ids = append(ids, f.TelegramFileID)
		}
	}
	entry := HistoryEntry{
		Filename:        lang.GetMessage(lang.CarouselLabelMsgID, len(infos)),
		URL:             infos[0].URL,
		Path:            infos[0].Path,
		Size:            total,
		BotLink:         botLink,
		CacheID:         cacheID,
		NormalizedURL:   normalized,
		MediaType:       string(mediaType),
		IsCached:        isCached,
		IsCarousel:      true,
		CarouselCount:   len(infos),
		CarouselFiles:   infos,
		CarouselFileIDs: ids,
	}
	if len(ids) > 0 {
		entry.TelegramFileID = ids[0]
	}
	return s.history.Add(sessionID, entry)
}

func (s *Server) serveAttachment(w http.ResponseWriter, r *http.Request, filePath string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filePath)))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filePath, err := s.resolveFile(strings.TrimPrefix(r.URL.Path, filesPrefix))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	s.serveAttachment(w, r, filePath)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filePath, err := s.resolveFile(strings.TrimPrefix(r.URL.Path, previewPrefix))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if downloader.MediaTypeFromPath(filePath) != models.MediaTypeVideo {
		writeError(w, http.StatusBadRequest, "not a video file")
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(filePath)))
	http.ServeFile(w, r, filePath)
}

func (s *Server) handleFileByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()
	entry, ok := s.history.Get(SessionIDFromContext(ctx), path.Base(r.URL.Path))
	if !ok {
		writeError(w, http.StatusNotFound, "file not found in history")
		return
	}

	local := entry.Path
	if local == "" && entry.IsCarousel && len(entry.CarouselFiles) > 0 {
		local = entry.CarouselFiles[0].Path
	}
	if local != "" && fileExists(local) {
		s.serveAttachment(w, r, local)
		return
	}

	// The local copy is gone or was never made, but the Telegram cache may
	// still hold the file.
	if entry.TelegramFileID == "" {
		writeError(w, http.StatusNotFound, "file not found on disk")
		return
	}
	tempDir := filepath.Join(s.config.DownloadPath, "temp_"+uuid.NewString())
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create temp dir")
		return
	}
	defer os.RemoveAll(tempDir)
	filePath, err := s.bot.DownloadFileToDir(ctx, entry.TelegramFileID, tempDir, "file")
	if err != nil {
		logutils.Log.WithError(err).Warn("History file fetch from Telegram failed")
		writeError(w, http.StatusBadGateway, "failed to download from telegram")
		return
	}
	s.serveAttachment(w, r, filePath)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()

	if strings.Contains(r.Header.Get("Content-Type"), jsonContentType) {
		var req TranscribeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "provide 'url' in JSON or upload 'file'")
			return
		}
		normalized, err := normalizeRequestURL(r, req.URL)
		if err != nil {
			writeError(w, http.StatusBadRequest, utils.DownloadErrorMessage(err))
			return
		}
		result, err := manager.GlobalManager.Download(ctx, normalized, nil)
		if err != nil {
			writeError(w, http.StatusBadGateway, utils.DownloadErrorMessage(err))
			return
		}
		if len(result.Files) == 0 {
			writeError(w, http.StatusBadGateway, utils.DownloadErrorMessage(utils.ErrNoMediaFound))
			return
		}
		target := result.Files[0].Path
		text, ok := s.transcribeFile(w, ctx, target)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, TranscribeResponse{Status: "success", Text: text, SourceFile: s.fileURL(r, target)})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "provide 'url' in JSON or upload 'file'")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file selected")
		return
	}

	tempDir := filepath.Join(s.config.DownloadPath, "temp_"+uuid.NewString())
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create temp dir")
		return
	}
	defer os.RemoveAll(tempDir)

	dst := filepath.Join(tempDir, filepath.Base(header.Filename))
	out, err := os.Create(dst)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	_, err = io.Copy(out, file)
	out.Close()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	text, ok := s.transcribeFile(w, ctx, dst)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, TranscribeResponse{Status: "success", Text: text})
}

// transcribeFile answers the request itself on failure.
func (s *Server) transcribeFile(w http.ResponseWriter, ctx context.Context, filePath string) (string, bool) {
	text, err := transcribe.GlobalTranscriber.Transcribe(ctx, filePath)
	switch {
	case errors.Is(err, transcribe.ErrNoSpeech):
		writeError(w, http.StatusUnprocessableEntity, "no speech recognized")
		return "", false
	case err != nil:
		logutils.Log.WithError(err).Error("API transcription failed")
		writeError(w, http.StatusBadGateway, "transcription failed")
		return "", false
	}
	return text, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req SummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	summary, err := summarize.GlobalClient.Summarize(r.Context(), req.Text)
	switch {
	case errors.Is(err, summarize.ErrEmptyText):
		writeError(w, http.StatusBadRequest, "text is required")
		return
	case err != nil:
		logutils.Log.WithError(err).Error("API summary failed")
		writeError(w, http.StatusBadGateway, "summary generation failed")
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Status: "success", Summary: summary})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req DownloadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	ctx := r.Context()

	normalized, err := normalizeRequestURL(r, req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, utils.DownloadErrorMessage(err))
		return
	}
	result, err := manager.GlobalManager.Download(ctx, normalized, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, utils.DownloadErrorMessage(err))
		return
	}
	if len(result.Files) == 0 {
		writeError(w, http.StatusBadGateway, utils.DownloadErrorMessage(utils.ErrNoMediaFound))
		return
	}

	target := result.Files[0]
	if target.MediaType != models.MediaTypeVideo && target.MediaType != models.MediaTypeAudio {
		writeError(w, http.StatusBadRequest, "not an audio or video file")
		return
	}

	text, ok := s.transcribeFile(w, ctx, target.Path)
	if !ok {
		return
	}
	summary, err := summarize.GlobalClient.Summarize(ctx, text)
	if err != nil {
		logutils.Log.WithError(err).Error("API summary failed")
		writeError(w, http.StatusBadGateway, "summary generation failed")
		return
	}

	entry := s.history.Add(SessionIDFromContext(ctx), HistoryEntry{
		Filename:      filepath.Base(target.Path),
		URL:           s.fileURL(r, target.Path),
		Path:          target.Path,
		Size:          target.Size,
		NormalizedURL: normalized,
		MediaType:     string(target.MediaType),
	})
	writeJSON(w, http.StatusOK, ProcessResponse{
		Status:        "success",
		File:          entry,
		Transcription: text,
		Summary:       summary,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, HistoryResponse{Status: "success", History: s.history.List(sessionID)})
	case http.MethodDelete:
		s.history.Clear(sessionID)
		writeJSON(w, http.StatusOK, StatusResponse{Status: "success"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleHistoryItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entry, ok := s.history.Remove(SessionIDFromContext(r.Context()), path.Base(r.URL.Path))
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	s.removeIfUnused(entry.Path)
	for _, f := range entry.CarouselFiles {
		s.removeIfUnused(f.Path)
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

// removeIfUnused deletes a file under the download root once no session
// references it anymore.
func (s *Server) removeIfUnused(filePath string) {
	if filePath == "" || s.history.PathInUse(filePath) {
		return
	}
	rel, err := filepath.Rel(s.config.DownloadPath, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		logutils.Log.WithError(err).WithField("path", filePath).Warn("Failed to remove history file")
	}
}

func (s *Server) handleTelegramUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req UploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "file_id is required")
		return
	}
	ctx := r.Context()
	sessionID := SessionIDFromContext(ctx)

	entry, ok := s.history.Get(sessionID, req.FileID)
	if !ok {
		writeError(w, http.StatusNotFound, "file not found in history")
		return
	}
	if entry.TelegramFileID != "" && entry.BotLink != "" {
		writeJSON(w, http.StatusOK, UploadResponse{
			Status:         "success",
			BotLink:        entry.BotLink,
			CacheID:        entry.CacheID,
			TelegramFileID: entry.TelegramFileID,
			Message:        lang.GetMessage(lang.APIUploadHintMsgID),
		})
		return
	}
	if entry.Path == "" || !fileExists(entry.Path) {
		writeError(w, http.StatusNotFound, "file not found on server")
		return
	}
	if s.config.ServiceGroupID == 0 {
		writeError(w, http.StatusServiceUnavailable, "telegram upload not configured")
		return
	}

	fileID, mediaType, err := s.uploadFile(ctx, entry.Path)
	if err != nil {
		logutils.Log.WithError(err).Error("History upload to Telegram failed")
		writeError(w, http.StatusBadGateway, "telegram upload failed")
		return
	}

	cacheID, err := database.GlobalDB.UpsertCachedFile(ctx, models.CachedFile{
		URL:       "api_file_" + entry.ID,
		FileIDs:   []string{fileID},
		MediaType: mediaType,
	})
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to cache uploaded history file")
		writeError(w, http.StatusInternalServerError, "failed to save file")
		return
	}
	botLink := s.bot.DeepLink(cacheID)

	s.history.Update(sessionID, entry.ID, func(e *HistoryEntry) {
		e.TelegramFileID = fileID
		e.BotLink = botLink
		e.CacheID = cacheID
	})
	writeJSON(w, http.StatusOK, UploadResponse{
		Status:         "success",
		BotLink:        botLink,
		CacheID:        cacheID,
		TelegramFileID: fileID,
		Message:        lang.GetMessage(lang.APIUploadHintMsgID),
	})
}
