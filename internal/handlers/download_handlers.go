package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/singleflight"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader/manager"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader/video"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/media"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	progressStep         = 10
	progressEditInterval = 3 * time.Second
)

// downloadGroup collapses simultaneous requests for the same normalized URL
// into one download and upload. Late requesters get the cached file_ids once
// the first one finishes.
var downloadGroup singleflight.Group

// statusMessage is the shared "Downloading..." notice for one incoming
// message. The first finished URL deletes it. Methods are nil-safe so group
// chats, which get no status, need no branching.
type statusMessage struct {
	bot       *ddbot.Bot
	chatID    int64
	messageID int

	mu      sync.Mutex
	deleted bool
}

func newStatusMessage(bot *ddbot.Bot, chatID int64, text string) *statusMessage {
	sent, err := bot.SendMessage(chatID, text)
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to send status message")
		return nil
	}
	return &statusMessage{bot: bot, chatID: chatID, messageID: sent.MessageID}
}

func (s *statusMessage) Edit(text string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return
	}
	if err := s.bot.EditMessage(s.chatID, s.messageID, text); err != nil {
		logutils.Log.WithError(err).Debug("Status edit failed")
	}
}

func (s *statusMessage) Delete() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return
	}
	s.deleted = true
	s.bot.DeleteMessage(s.chatID, s.messageID)
}

// progressFunc turns download progress into throttled status edits.
func (s *statusMessage) progressFunc() func(float64) {
	if s == nil {
		return nil
	}
	var mu sync.Mutex
	var lastEdit time.Time
	var lastPercent int
	return func(percent float64) {
		p := int(percent)
		mu.Lock()
		if p < lastPercent+progressStep || time.Since(lastEdit) < progressEditInterval {
			mu.Unlock()
			return
		}
		lastPercent = p
		lastEdit = time.Now()
		mu.Unlock()
		s.Edit(lang.GetMessage(lang.DownloadProgressMsgID, p))
	}
}

// HandleMediaLinks processes every supported link in a text message. The
// links download in parallel; one status notice covers them all in private
// chats.
func HandleMediaLinks(bot *ddbot.Bot, config *ddconfig.Config, update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	if !containsURL(message.Text) {
		if _, err := bot.SendMessage(chatID, lang.GetMessage(lang.LinkPromptMsgID)); err != nil {
			logutils.Log.WithError(err).Error("Failed to send link prompt")
		}
		return
	}

	supported, unsupported := extractMessageURLs(message.Text, bot.Username())
	if len(unsupported) > 0 {
		logutils.Log.WithFields(map[string]any{
			"user_id": message.From.ID,
			"urls":    unsupported,
		}).Info("Rejected unsupported links")
		bot.SendErrorMessage(chatID, lang.GetMessage(lang.UnsupportedPlatformsMsgID))
		return
	}
	if len(supported) == 0 {
		return
	}

	if !downloadLimiter.Allow(message.From.ID) {
		bot.SendErrorMessage(chatID, lang.GetMessage(lang.RateLimitedMsgID))
		return
	}

	urls := dedupeByNormalized(supported)

	var status *statusMessage
	if message.Chat.IsPrivate() {
		status = newStatusMessage(bot, chatID, lang.GetMessage(lang.DownloadingMsgID))
	}

	var wg sync.WaitGroup
	for _, rawURL := range urls {
		wg.Add(1)
		go func(rawURL string) {
			defer wg.Done()
			processSingleURL(bot, config, message, rawURL, status)
		}(rawURL)
	}
	wg.Wait()
}

// uploadOutcome is what one collapsed download produced: the cache row and
// the chat that received the fresh upload. Other chats resend from cache.
type uploadOutcome struct {
	cacheID uint
	chatID  int64
}

func processSingleURL(bot *ddbot.Bot, config *ddconfig.Config, message *tgbotapi.Message, rawURL string, status *statusMessage) {
	chatID := message.Chat.ID
	ctx := context.Background()
	defer status.Delete()

	target := rawURL
	if platform.IsShortLink(target) {
		target = platform.ExpandShortURL(ctx, target)
	}
	normalized, err := platform.Normalize(target)
	if err != nil {
		logutils.Log.WithError(err).WithField("url", rawURL).Warn("Skipping unparseable link")
		return
	}

	cached, err := database.GlobalDB.GetCachedFile(ctx, normalized)
	if err != nil {
		logutils.Log.WithError(err).Error("Cache lookup failed")
	}
	if cached != nil && len(cached.FileIDs) > 0 {
		caption := fmt.Sprintf("⚡ @%s\n🔗 %s", bot.Username(), normalized)
		if err := resendCached(bot, chatID, cached, caption); err != nil {
			logutils.Log.WithError(err).Error("Failed to resend cached media")
		}
		return
	}

	v, err, _ := downloadGroup.Do(normalized, func() (interface{}, error) {
		return fetchAndSend(bot, config, message, normalized, status)
	})
	if err != nil {
		logutils.Log.WithError(err).WithField("url", normalized).Error("Download failed")
		bot.SendErrorMessage(chatID, downloadErrorMessage(err))
		return
	}

	outcome := v.(*uploadOutcome)
	if outcome.chatID == chatID {
		return
	}

	// Another chat received the fresh upload; this one gets the cached copy.
	cached, err = database.GlobalDB.GetCachedFileByID(ctx, outcome.cacheID)
	if err != nil || cached == nil {
		logutils.Log.WithError(err).WithField("cache_id", outcome.cacheID).Error("Shared download finished but the cache row is missing")
		return
	}
	caption := fmt.Sprintf("@%s\n🔗 %s", bot.Username(), normalized)
	if err := resendCached(bot, chatID, cached, caption); err != nil {
		logutils.Log.WithError(err).Error("Failed to resend shared download")
	}
}

// fetchAndSend obtains the media behind normalized, preferring a still-valid
// copy on disk over a fresh download, and uploads it to the requesting chat.
// Runs once per URL under downloadGroup no matter how many chats asked.
func fetchAndSend(bot *ddbot.Bot, config *ddconfig.Config, message *tgbotapi.Message, normalized string, status *statusMessage) (*uploadOutcome, error) {
	if outcome, ok := resendFromDisk(bot, config, message, normalized, status); ok {
		return outcome, nil
	}

	result, err := manager.GlobalManager.Download(context.Background(), normalized, status.progressFunc())
	if err != nil {
		return nil, err
	}

	return uploadResult(bot, config, message, normalized, result, status, false)
}

// resendFromDisk reuses a download whose file still sits in its task dir,
// typically after a cache wipe. The upload recreates the cache row. Records
// whose file has vanished are dropped so the next request downloads again.
func resendFromDisk(bot *ddbot.Bot, config *ddconfig.Config, message *tgbotapi.Message, normalized string, status *statusMessage) (*uploadOutcome, bool) {
	ctx := context.Background()

	row, err := database.GlobalDB.GetDownloadedFile(ctx, normalized)
	if err != nil {
		logutils.Log.WithError(err).Error("Download history lookup failed")
		return nil, false
	}
	if row == nil || row.IsExpired() {
		return nil, false
	}
	if _, err := os.Stat(row.FilePath); err != nil {
		logutils.Log.WithField("path", row.FilePath).Warn("Recorded download vanished from disk, dropping the record")
		if err := database.GlobalDB.RemoveDownloadedFile(ctx, row.ID); err != nil {
			logutils.Log.WithError(err).Error("Failed to drop stale download record")
		}
		return nil, false
	}

	logutils.Log.WithField("path", row.FilePath).Info("Reusing downloaded file from disk")
	taskDir := row.TaskDir
	if taskDir == "" {
		taskDir = filepath.Dir(row.FilePath)
	}
	result := &manager.Result{
		TaskDir: taskDir,
		Files: []downloader.File{{
			Path:      row.FilePath,
			Size:      utils.FileSize(row.FilePath),
			MediaType: row.MediaType,
		}},
	}

	outcome, err := uploadResult(bot, config, message, normalized, result, status, true)
	if err != nil {
		logutils.Log.WithError(err).Warn("Failed to reuse downloaded file, falling back to a fresh download")
		return nil, false
	}
	return outcome, true
}

// uploadResult sends downloaded files to the chat, caches the file_ids
// Telegram assigned and attaches the convert button where conversion makes
// sense. fromDisk uploads reuse an earlier task dir and must leave it alone.
func uploadResult(bot *ddbot.Bot, config *ddconfig.Config, message *tgbotapi.Message, normalized string, result *manager.Result, status *statusMessage, fromDisk bool) (*uploadOutcome, error) {
	ctx := context.Background()
	chatID := message.Chat.ID
	caption := fmt.Sprintf("@%s\n🔗 %s", bot.Username(), normalized)

	var (
		err       error
		sentID    int
		fileIDs   []string
		mediaType models.MediaType
		finalPath string
	)

	files := result.Files
	if audio, cover, ok := pickAudioWithCover(files); ok {
		sentID, fileIDs, err = uploadAudio(bot, chatID, normalized, result.TaskDir, audio.Path, cover, caption)
		mediaType = models.MediaTypeAudio
		finalPath = audio.Path
	} else if len(files) == 1 && files[0].MediaType == models.MediaTypePhoto {
		var sent tgbotapi.Message
		sent, err = bot.SendPhotoFile(ctx, chatID, files[0].Path, caption)
		sentID = sent.MessageID
		fileIDs = []string{ddbot.SentFileID(sent)}
		mediaType = models.MediaTypePhoto
		finalPath = files[0].Path
	} else if len(files) == 1 {
		sentID, fileIDs, finalPath, err = uploadVideo(bot, config, chatID, files[0], result.TaskDir, caption, status)
		mediaType = models.MediaTypeVideo
	} else {
		fileIDs, mediaType, err = uploadCarousel(bot, chatID, files, result.TaskDir, caption)
	}
	if err != nil {
		if !fromDisk && config.GetDownloadSettings().CleanupEnabled {
			os.RemoveAll(result.TaskDir)
		}
		return nil, err
	}
	status.Delete()

	cacheID, err := database.GlobalDB.UpsertCachedFile(ctx, models.CachedFile{
		URL:        normalized,
		FileIDs:    fileIDs,
		MediaType:  mediaType,
		UploaderID: message.From.ID,
	})
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to cache uploaded file")
	}

	single := len(fileIDs) == 1
	if cacheID != 0 && sentID != 0 && single && (mediaType == models.MediaTypeVideo || mediaType == models.MediaTypeAudio) {
		if err := bot.EditReplyMarkup(chatID, sentID, ConvertKeyboard(bot, cacheID)); err != nil {
			logutils.Log.WithError(err).Warn("Failed to attach convert button")
		}
	}

	var cacheRef *uint
	if cacheID != 0 {
		cacheRef = &cacheID
	}
	settings := config.GetDownloadSettings()
	switch {
	case fromDisk:
		if row, err := database.GlobalDB.GetDownloadedFile(ctx, normalized); err == nil && row != nil {
			row.CacheID = cacheRef
			if _, err := database.GlobalDB.SaveDownloadedFile(ctx, *row); err != nil {
				logutils.Log.WithError(err).Error("Failed to relink download record to cache")
			}
		}
	case settings.CleanupEnabled:
		if err := os.RemoveAll(result.TaskDir); err != nil {
			logutils.Log.WithError(err).WithField("dir", result.TaskDir).Warn("Task dir cleanup failed")
		}
	case single && finalPath != "":
		now := time.Now()
		_, err := database.GlobalDB.SaveDownloadedFile(ctx, models.DownloadedFile{
			URL:          normalized,
			FilePath:     finalPath,
			FileSize:     utils.FileSize(finalPath),
			MediaType:    mediaType,
			TaskDir:      result.TaskDir,
			CacheID:      cacheRef,
			DownloadedAt: now,
			ExpiresAt:    now.Add(settings.FileTTL),
		})
		if err != nil {
			logutils.Log.WithError(err).Error("Failed to record download history")
		}
	}

	return &uploadOutcome{cacheID: cacheID, chatID: chatID}, nil
}

// pickAudioWithCover spots the audio-extraction layout on disk: one track
// plus the cover art written next to it. The cover doubles as the player
// thumbnail instead of making the result a carousel.
func pickAudioWithCover(files []downloader.File) (*downloader.File, string, bool) {
	var audio *downloader.File
	var cover string
	for i := range files {
		switch files[i].MediaType {
		case models.MediaTypeAudio:
			if audio != nil {
				return nil, "", false
			}
			audio = &files[i]
		case models.MediaTypePhoto:
			if cover == "" {
				cover = files[i].Path
			}
		default:
			return nil, "", false
		}
	}
	if audio == nil {
		return nil, "", false
	}
	return audio, cover, true
}

// uploadAudio sends the track with its tags and cover art. SoundCloud covers
// additionally go out as their own photo message, but only the audio file_id
// lands in the cache.
func uploadAudio(bot *ddbot.Bot, chatID int64, normalized, taskDir, audioPath, coverPath, caption string) (int, []string, error) {
	ctx := context.Background()

	opts := ddbot.AudioOptions{Caption: caption, ThumbPath: coverPath}
	if info := video.ReadTrackInfo(taskDir); info != nil {
		opts.Title = info.Title
		opts.Performer = info.Uploader
	}

	if coverPath != "" && platform.Detect(normalized) == platform.SoundCloud {
		if _, err := bot.SendPhotoFile(ctx, chatID, coverPath, caption); err != nil {
			logutils.Log.WithError(err).Warn("Failed to send cover art")
		}
	}

	sent, err := bot.SendAudioFile(ctx, chatID, audioPath, opts)
	if err != nil {
		return 0, nil, err
	}
	return sent.MessageID, []string{ddbot.SentFileID(sent)}, nil
}

// uploadVideo re-encodes when Telegram needs it and ships the result with a
// thumbnail and probed dimensions so previews render before the download
// finishes.
func uploadVideo(bot *ddbot.Bot, config *ddconfig.Config, chatID int64, f downloader.File, taskDir, caption string, status *statusMessage) (int, []string, string, error) {
	ctx := context.Background()
	path := f.Path

	if f.Size > config.GetMediaSettings().OptimizeThreshold {
		status.Edit(lang.GetMessage(lang.CompressingMsgID))
		if compressed, err := media.GlobalProcessor.CompressToTarget(ctx, path, taskDir); err != nil {
			logutils.Log.WithError(err).Warn("Compression failed, sending the original")
		} else {
			path = compressed
		}
	} else if needs, reason := media.GlobalProcessor.NeedsOptimization(ctx, path); needs {
		logutils.Log.WithField("reason", reason).Info("Optimizing video for Telegram")
		if optimized, err := media.GlobalProcessor.OptimizeForTelegram(ctx, path, taskDir); err != nil {
			logutils.Log.WithError(err).Warn("Optimization failed, sending the original")
		} else {
			path = optimized
		}
	}

	opts := ddbot.VideoOptions{Caption: caption}
	if thumb, err := media.GlobalProcessor.Thumbnail(ctx, path, taskDir); err == nil {
		opts.ThumbPath = thumb
	}
	if info, err := media.GlobalProcessor.Probe(ctx, path); err == nil {
		opts.Width = info.Width
		opts.Height = info.Height
		opts.Duration = int(info.Duration)
	}

	sent, err := bot.SendVideoFile(ctx, chatID, path, opts)
	if err != nil {
		return 0, nil, "", err
	}
	return sent.MessageID, []string{ddbot.SentFileID(sent)}, path, nil
}

// uploadCarousel ships a multi-file post as media group chunks. The cache
// row keeps the per-item type so a resend rebuilds the album with the right
// input media.
func uploadCarousel(bot *ddbot.Bot, chatID int64, files []downloader.File, taskDir, caption string) ([]string, models.MediaType, error) {
	ctx := context.Background()

	carouselType := models.MediaTypePhoto
	var items []ddbot.GroupItem
	for _, f := range files {
		switch f.MediaType {
		case models.MediaTypePhoto:
			items = append(items, ddbot.GroupItem{Media: tgbotapi.FilePath(f.Path), MediaType: models.MediaTypePhoto})
			carouselType = models.MediaTypePhoto
		case models.MediaTypeVideo:
			path := f.Path
			if needs, reason := media.GlobalProcessor.NeedsOptimization(ctx, path); needs {
				logutils.Log.WithField("reason", reason).Info("Optimizing carousel video")
				if optimized, err := media.GlobalProcessor.OptimizeForTelegram(ctx, path, taskDir); err != nil {
					logutils.Log.WithError(err).Warn("Carousel video optimization failed, sending the original")
				} else {
					path = optimized
				}
			}
			items = append(items, ddbot.GroupItem{Media: tgbotapi.FilePath(path), MediaType: models.MediaTypeVideo})
			carouselType = models.MediaTypeVideo
		}
	}

	sentMessages, err := bot.SendMediaGroup(ctx, chatID, items, caption)
	if err != nil {
		return nil, carouselType, err
	}

	var fileIDs []string
	for _, m := range sentMessages {
		if id := ddbot.SentFileID(m); id != "" {
			fileIDs = append(fileIDs, id)
		}
	}
	return fileIDs, carouselType, nil
}

// resendCached delivers a cache hit by file_id. Single videos get the
// convert deep link attached, albums go back out as a media group.
func resendCached(bot *ddbot.Bot, chatID int64, cached *models.CachedFile, caption string) error {
	ctx := context.Background()

	if cached.IsCarousel() {
		_, err := bot.SendMediaGroup(ctx, chatID, cachedGroupItems(cached), caption)
		return err
	}

	sent, err := bot.SendCachedMedia(ctx, chatID, cached.FirstFileID(), cached.MediaType, caption)
	if err != nil {
		return err
	}
	if cached.MediaType == models.MediaTypeVideo {
		if err := bot.EditReplyMarkup(chatID, sent.MessageID, ConvertKeyboard(bot, cached.ID)); err != nil {
			logutils.Log.WithError(err).Warn("Failed to attach convert button")
		}
	}
	return nil
}

// cachedGroupItems rebuilds album entries from stored file_ids. Legacy rows
// typed "carousel" predate per-item types and resend as photos.
func cachedGroupItems(cached *models.CachedFile) []ddbot.GroupItem {
	itemType := models.MediaTypePhoto
	switch cached.MediaType {
	case models.MediaTypeVideo, models.MediaTypeAudio:
		itemType = cached.MediaType
	}

	items := make([]ddbot.GroupItem, 0, len(cached.FileIDs))
	for _, fileID := range cached.FileIDs {
		items = append(items, ddbot.GroupItem{Media: tgbotapi.FileID(fileID), MediaType: itemType})
	}
	return items
}
