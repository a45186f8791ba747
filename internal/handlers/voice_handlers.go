package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/transcribe"
)

const (
	voiceBatchDelay = 500 * time.Millisecond
	voiceBatchLimit = 50
)

// voiceItem is one queued voice or video note message.
type voiceItem struct {
	messageID    int
	chatID       int64
	fileID       string
	fileUniqueID string
	videoNote    bool
}

// batcher groups rapid-fire voice messages per user so one transcription
// covers the whole burst. Each arrival restarts the debounce timer; a full
// batch flushes right away.
type batcher struct {
	delay time.Duration
	limit int

	mu      sync.Mutex
	pending map[int64][]voiceItem
	timers  map[int64]*time.Timer
}

func newBatcher(delay time.Duration, limit int) *batcher {
	return &batcher{
		delay:   delay,
		limit:   limit,
		pending: make(map[int64][]voiceItem),
		timers:  make(map[int64]*time.Timer),
	}
}

func (b *batcher) Add(userID int64, item voiceItem, flush func(items []voiceItem)) {
	b.mu.Lock()
	b.pending[userID] = append(b.pending[userID], item)
	if t, ok := b.timers[userID]; ok {
		t.Stop()
	}

	if len(b.pending[userID]) >= b.limit {
		items := b.takeLocked(userID)
		b.mu.Unlock()
		flush(items)
		return
	}

	b.timers[userID] = time.AfterFunc(b.delay, func() {
		b.mu.Lock()
		items := b.takeLocked(userID)
		b.mu.Unlock()
		if len(items) > 0 {
			flush(items)
		}
	})
	b.mu.Unlock()
}

// takeLocked removes and returns the user's pending items. Callers hold mu.
func (b *batcher) takeLocked(userID int64) []voiceItem {
	items := b.pending[userID]
	delete(b.pending, userID)
	if t, ok := b.timers[userID]; ok {
		t.Stop()
		delete(b.timers, userID)
	}
	return items
}

// HandleVoiceMessage queues voice and video notes for batched transcription.
func HandleVoiceMessage(bot *ddbot.Bot, config *ddconfig.Config, update tgbotapi.Update) {
	message := update.Message

	item := voiceItem{messageID: message.MessageID, chatID: message.Chat.ID}
	switch {
	case message.Voice != nil:
		item.fileID = message.Voice.FileID
		item.fileUniqueID = message.Voice.FileUniqueID
	case message.VideoNote != nil:
		item.fileID = message.VideoNote.FileID
		item.fileUniqueID = message.VideoNote.FileUniqueID
		item.videoNote = true
	default:
		return
	}

	userID := message.From.ID
	voiceBatcher.Add(userID, item, func(items []voiceItem) {
		processVoiceBatch(bot, config, userID, items)
	})
}

// processVoiceBatch downloads, transcribes and merges a burst of voice
// messages into one numbered transcript. Messages that fail recognition are
// left out but keep their position numbers.
func processVoiceBatch(bot *ddbot.Bot, config *ddconfig.Config, userID int64, items []voiceItem) {
	if len(items) == 0 {
		return
	}
	ctx := context.Background()

	sort.Slice(items, func(i, j int) bool { return items[i].messageID < items[j].messageID })
	chatID := items[0].chatID
	count := len(items)

	status, err := bot.SendMessage(chatID, lang.GetMessage(lang.VoiceBatchProcessingMsgID, count))
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to send voice batch status")
		return
	}
	editStatus := func(id lang.MessageID, args ...any) {
		if err := bot.EditMessage(chatID, status.MessageID, lang.GetMessage(id, args...)); err != nil {
			logutils.Log.WithError(err).Debug("Voice status edit failed")
		}
	}

	tempDir, err := os.MkdirTemp("", "voicebatch-")
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to create voice batch dir")
		editStatus(lang.VoiceBatchFailedMsgID)
		return
	}
	defer os.RemoveAll(tempDir)

	editStatus(lang.VoiceBatchDownloadingMsgID, count)

	paths := make([]string, count)
	for i, item := range items {
		ext := ".ogg"
		if item.videoNote {
			ext = ".mp4"
		}
		path := filepath.Join(tempDir, fmt.Sprintf("%s_%d_%d%s", item.fileUniqueID, i, item.messageID, ext))
		if err := bot.DownloadFile(ctx, item.fileID, path); err != nil {
			logutils.Log.WithError(err).WithField("file_id", item.fileID).Error("Failed to download voice file")
			continue
		}
		paths[i] = path
	}

	editStatus(lang.VoiceBatchTranscribingMsgID, count)

	texts := make([]string, count)
	sem := semaphore.NewWeighted(int64(config.GetDownloadSettings().MaxConcurrentTranscriptions))
	var wg sync.WaitGroup
	for i, path := range paths {
		if path == "" {
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			text, err := transcribe.GlobalTranscriber.Transcribe(ctx, path)
			if err != nil {
				logutils.Log.WithError(err).WithField("file", filepath.Base(path)).Warn("Transcription failed")
				return
			}
			texts[i] = text
		}(i, path)
	}
	wg.Wait()

	editStatus(lang.VoiceBatchMergingMsgID)

	// A lone message needs no numbering; bursts get numbered blocks so gaps
	// from failed recognitions stay visible.
	var blocks []string
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if count == 1 {
			blocks = append(blocks, text)
			continue
		}
		label := lang.GetMessage(lang.VoiceLabelMsgID)
		if items[i].videoNote {
			label = lang.GetMessage(lang.VideoNoteLabelMsgID)
		}
		blocks = append(blocks, fmt.Sprintf("--- %s %d ---\n%s", label, i+1, text))
	}
	if len(blocks) == 0 {
		editStatus(lang.VoiceBatchFailedMsgID)
		return
	}
	combined := strings.Join(blocks, "\n\n")

	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		err := database.GlobalDB.SaveTranscription(ctx, models.Transcription{
			FileUniqueID: items[i].fileUniqueID,
			UserID:       userID,
			Text:         text,
		})
		if err != nil {
			logutils.Log.WithError(err).Error("Failed to save transcription")
		}
	}

	batchKey := items[0].fileUniqueID
	if count > 1 {
		batchKey = batchTranscriptionKey(count, items[0].fileUniqueID)
		err := database.GlobalDB.SaveTranscription(ctx, models.Transcription{
			FileUniqueID: batchKey,
			UserID:       userID,
			Text:         combined,
		})
		if err != nil {
			logutils.Log.WithError(err).Error("Failed to save combined transcription")
		}
	}

	editStatus(lang.VoiceBatchDoneMsgID)

	var markup tgbotapi.InlineKeyboardMarkup
	if count > 1 {
		markup = BatchSummaryKeyboard(batchKey)
	} else {
		markup = SummaryKeyboard(items[0].fileUniqueID)
	}

	parts := chunkText(combined, transcriptChunkLimit)
	for i, part := range parts {
		text := lang.GetMessage(lang.TranscriptionContinuedMsgID, part)
		if i == 0 {
			if count > 1 {
				text = lang.GetMessage(lang.TranscriptionBatchHeaderMsgID, lang.CountMessages(count), part)
			} else {
				text = lang.GetMessage(lang.TranscriptionHeaderMsgID, part)
			}
		}
		var err error
		if i == len(parts)-1 {
			_, err = bot.SendHTMLWithMarkup(chatID, text, markup)
		} else {
			_, err = bot.SendHTML(chatID, text)
		}
		if err != nil {
			logutils.Log.WithError(err).Error("Failed to send transcription part")
		}
	}

	bot.DeleteMessage(chatID, status.MessageID)
}
