package bot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	maxSendAttempts = 3
	mediaGroupLimit = 10
	retryBaseDelay  = 5 * time.Second
)

// VideoOptions carries the metadata Telegram needs to render a video
// correctly before it is fully downloaded.
type VideoOptions struct {
	Caption   string
	Width     int
	Height    int
	Duration  int
	ThumbPath string
}

// AudioOptions carries the track tags shown in the Telegram audio player.
type AudioOptions struct {
	Caption   string
	Title     string
	Performer string
	ThumbPath string
}

// GroupItem is one entry of a media group. Media is either a FilePath for
// fresh uploads or a FileID for cache resends.
type GroupItem struct {
	Media     tgbotapi.RequestFileData
	MediaType models.MediaType
}

func retryDelay(err error, attempt int) (time.Duration, bool) {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return time.Duration(tgErr.RetryAfter) * time.Second, true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "timed out", "connection reset", "bad gateway"} {
		if strings.Contains(msg, marker) {
			return time.Duration(attempt) * retryBaseDelay, true
		}
	}
	return 0, false
}

func (b *Bot) sendWithRetry(ctx context.Context, send func() (tgbotapi.Message, error)) (tgbotapi.Message, error) {
	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		msg, err := send()
		if err == nil {
			return msg, nil
		}
		lastErr = err

		delay, retryable := retryDelay(err, attempt)
		if !retryable || attempt == maxSendAttempts {
			break
		}
		logutils.Log.WithError(err).Warnf("Send attempt %d/%d failed, retrying in %s", attempt, maxSendAttempts, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return tgbotapi.Message{}, ctx.Err()
		}
	}
	return tgbotapi.Message{}, lastErr
}

func (b *Bot) SendPhotoFile(ctx context.Context, chatID int64, path, caption string) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
		photo.Caption = caption
		return b.Api.Send(photo)
	})
}

// SendPhotoBytes uploads an in-memory image without writing it to disk.
func (b *Bot) SendPhotoBytes(ctx context.Context, chatID int64, name string, data []byte, caption string) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
		photo.Caption = caption
		return b.Api.Send(photo)
	})
}

// SendVideoFile uploads a video with its probed dimensions and thumbnail.
// The typed VideoConfig cannot carry width and height, so the request goes
// through UploadFiles directly.
func (b *Bot) SendVideoFile(ctx context.Context, chatID int64, path string, opts VideoOptions) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		params := make(tgbotapi.Params)
		params.AddNonZero64("chat_id", chatID)
		params.AddNonEmpty("caption", opts.Caption)
		params.AddNonZero("duration", opts.Duration)
		params.AddNonZero("width", opts.Width)
		params.AddNonZero("height", opts.Height)
		params.AddBool("supports_streaming", true)

		files := []tgbotapi.RequestFile{{Name: "video", Data: tgbotapi.FilePath(path)}}
		if opts.ThumbPath != "" {
			if _, err := os.Stat(opts.ThumbPath); err == nil {
				files = append(files, tgbotapi.RequestFile{Name: "thumb", Data: tgbotapi.FilePath(opts.ThumbPath)})
			}
		}

		resp, err := b.Api.UploadFiles("sendVideo", params, files)
		if err != nil {
			return tgbotapi.Message{}, err
		}
		var msg tgbotapi.Message
		if err := json.Unmarshal(resp.Result, &msg); err != nil {
			return tgbotapi.Message{}, utils.WrapError(err, "failed to decode sendVideo response", nil)
		}
		return msg, nil
	})
}

func (b *Bot) SendAudioFile(ctx context.Context, chatID int64, path string, opts AudioOptions) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
		audio.Caption = opts.Caption
		audio.Title = opts.Title
		audio.Performer = opts.Performer
		if opts.ThumbPath != "" {
			if _, err := os.Stat(opts.ThumbPath); err == nil {
				audio.Thumb = tgbotapi.FilePath(opts.ThumbPath)
			}
		}
		return b.Api.Send(audio)
	})
}

func (b *Bot) SendVoiceFile(ctx context.Context, chatID int64, path, caption string) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		voice := tgbotapi.NewVoice(chatID, tgbotapi.FilePath(path))
		voice.Caption = caption
		return b.Api.Send(voice)
	})
}

func (b *Bot) SendVideoNoteFile(ctx context.Context, chatID int64, path string, length int) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		return b.Api.Send(tgbotapi.NewVideoNote(chatID, length, tgbotapi.FilePath(path)))
	})
}

func (b *Bot) SendDocumentFile(ctx context.Context, chatID int64, path, caption string) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
		doc.Caption = caption
		return b.Api.Send(doc)
	})
}

// SendCachedMedia resends a single file by its Telegram file_id.
func (b *Bot) SendCachedMedia(ctx context.Context, chatID int64, fileID string, mediaType models.MediaType, caption string) (tgbotapi.Message, error) {
	return b.sendWithRetry(ctx, func() (tgbotapi.Message, error) {
		switch mediaType {
		case models.MediaTypeVideo:
			video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID))
			video.Caption = caption
			video.SupportsStreaming = true
			return b.Api.Send(video)
		case models.MediaTypeAudio:
			audio := tgbotapi.NewAudio(chatID, tgbotapi.FileID(fileID))
			audio.Caption = caption
			return b.Api.Send(audio)
		case models.MediaTypeDocument:
			doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
			doc.Caption = caption
			return b.Api.Send(doc)
		default:
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
			photo.Caption = caption
			return b.Api.Send(photo)
		}
	})
}

// SendMediaGroup sends items as albums in chunks of ten. The caption rides
// on the first item only, matching how Telegram displays album captions.
func (b *Bot) SendMediaGroup(ctx context.Context, chatID int64, items []GroupItem, caption string) ([]tgbotapi.Message, error) {
	var sent []tgbotapi.Message
	for chunkIndex, chunk := range chunkItems(items, mediaGroupLimit) {
		media := make([]interface{}, 0, len(chunk))
		for i, item := range chunk {
			itemCaption := ""
			if chunkIndex == 0 && i == 0 {
				itemCaption = caption
			}
			media = append(media, inputMedia(item, itemCaption))
		}

		messages, err := b.sendGroupWithRetry(ctx, tgbotapi.NewMediaGroup(chatID, media))
		if err != nil {
			return sent, utils.WrapError(err, "failed to send media group", map[string]any{
				"chunk": chunkIndex + 1,
			})
		}
		sent = append(sent, messages...)
	}
	return sent, nil
}

func (b *Bot) sendGroupWithRetry(ctx context.Context, group tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		messages, err := b.Api.SendMediaGroup(group)
		if err == nil {
			return messages, nil
		}
		lastErr = err

		delay, retryable := retryDelay(err, attempt)
		if !retryable || attempt == maxSendAttempts {
			break
		}
		logutils.Log.WithError(err).Warnf("Media group attempt %d/%d failed, retrying in %s", attempt, maxSendAttempts, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func inputMedia(item GroupItem, caption string) interface{} {
	switch item.MediaType {
	case models.MediaTypeVideo:
		m := tgbotapi.NewInputMediaVideo(item.Media)
		m.Caption = caption
		m.SupportsStreaming = true
		return m
	case models.MediaTypeAudio:
		m := tgbotapi.NewInputMediaAudio(item.Media)
		m.Caption = caption
		return m
	default:
		m := tgbotapi.NewInputMediaPhoto(item.Media)
		m.Caption = caption
		return m
	}
}

func chunkItems(items []GroupItem, size int) [][]GroupItem {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	var chunks [][]GroupItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// SentFileID extracts the file_id Telegram assigned to an uploaded message,
// for caching. Photos report multiple sizes; the last one is the largest.
func SentFileID(msg tgbotapi.Message) string {
	switch {
	case msg.Video != nil:
		return msg.Video.FileID
	case msg.Audio != nil:
		return msg.Audio.FileID
	case msg.Voice != nil:
		return msg.Voice.FileID
	case msg.VideoNote != nil:
		return msg.VideoNote.FileID
	case msg.Document != nil:
		return msg.Document.FileID
	case len(msg.Photo) > 0:
		return msg.Photo[len(msg.Photo)-1].FileID
	}
	return ""
}
