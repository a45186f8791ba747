package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/media"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/transcribe"
)

// videoNoteLength is the side of the square video note the converter
// produces.
const videoNoteLength = 640

// convertLabels names each conversion target inside toast and status texts.
var convertLabels = map[string]lang.MessageID{
	"note":          lang.ConvertLabelNoteMsgID,
	"voice":         lang.ConvertLabelVoiceMsgID,
	"mp3":           lang.ConvertLabelMP3MsgID,
	"transcription": lang.ConvertLabelTranscribeMsgID,
}

// handleConvertAction executes one convert-menu choice against a cached
// file: re-send as-is, re-encode with ffmpeg, or transcribe.
func handleConvertAction(bot *ddbot.Bot, config *ddconfig.Config, callback *tgbotapi.CallbackQuery, action string, cacheID uint) {
	chatID := callback.Message.Chat.ID
	ctx := context.Background()

	cached, err := database.GlobalDB.GetCachedFileByID(ctx, cacheID)
	if err != nil {
		logutils.Log.WithError(err).WithField("cache_id", cacheID).Error("Failed to load cached file")
	}
	if cached == nil || len(cached.FileIDs) == 0 {
		bot.AnswerCallbackAlert(callback.ID, lang.GetMessage(lang.FileNotFoundMsgID))
		return
	}
	fileID := cached.FileIDs[0]

	if action == "file" {
		bot.AnswerCallback(callback.ID, lang.GetMessage(lang.SendingFileMsgID))
		caption := fmt.Sprintf("@%s", bot.Username())
		if _, err := bot.SendCachedMedia(ctx, chatID, fileID, cached.MediaType, caption); err != nil {
			logutils.Log.WithError(err).WithField("cache_id", cacheID).Error("Failed to resend cached file")
			bot.AnswerCallbackAlert(callback.ID, lang.GetMessage(lang.FileSendFailedMsgID))
		}
		return
	}

	labelID, ok := convertLabels[action]
	if !ok {
		logutils.Log.WithField("action", action).Warn("Unknown conversion action")
		bot.AnswerCallback(callback.ID, "")
		return
	}
	label := lang.GetMessage(labelID)
	bot.AnswerCallback(callback.ID, lang.GetMessage(lang.ConversionStartedMsgID, label))

	status := newStatusMessage(bot, chatID, lang.GetMessage(lang.ConvertingMsgID, label))

	taskDir := filepath.Join(config.DownloadPath, uuid.NewString())
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		logutils.Log.WithError(err).WithField("dir", taskDir).Error("Failed to create conversion directory")
		status.Edit(lang.GetMessage(lang.ConversionFailedMsgID))
		return
	}
	defer os.RemoveAll(taskDir)

	status.Edit(lang.GetMessage(lang.DownloadingFileMsgID))
	inputPath, err := bot.DownloadFileToDir(ctx, fileID, taskDir, "input")
	if err != nil {
		logutils.Log.WithError(err).WithField("file_id", fileID).Error("Failed to fetch file for conversion")
		status.Edit(lang.GetMessage(lang.FileDownloadFailedMsgID))
		return
	}

	if action == "transcription" {
		transcribeConverted(bot, callback, status, inputPath, cacheID)
		return
	}

	caption := fmt.Sprintf("@%s", bot.Username())
	switch action {
	case "mp3":
		outputPath, err := media.GlobalProcessor.ExtractMP3(ctx, inputPath, taskDir)
		if err == nil {
			_, err = bot.SendAudioFile(ctx, chatID, outputPath, ddbot.AudioOptions{
				Caption: caption,
				Title:   bot.Username(),
			})
		}
		if err != nil {
			logutils.Log.WithError(err).WithField("cache_id", cacheID).Error("MP3 conversion failed")
			status.Edit(lang.GetMessage(lang.ConversionFailedMsgID))
			return
		}
	case "voice":
		outputPath, err := media.GlobalProcessor.ConvertToVoice(ctx, inputPath, taskDir)
		if err == nil {
			_, err = bot.SendVoiceFile(ctx, chatID, outputPath, caption)
		}
		if err != nil {
			logutils.Log.WithError(err).WithField("cache_id", cacheID).Error("Voice conversion failed")
			status.Edit(lang.GetMessage(lang.ConversionFailedMsgID))
			return
		}
	case "note":
		outputPath, err := media.GlobalProcessor.ConvertToVideoNote(ctx, inputPath, taskDir)
		if err == nil {
			_, err = bot.SendVideoNoteFile(ctx, chatID, outputPath, videoNoteLength)
		}
		if err != nil {
			logutils.Log.WithError(err).WithField("cache_id", cacheID).Error("Video note conversion failed")
			status.Edit(lang.GetMessage(lang.ConversionFailedMsgID))
			return
		}
	}

	status.Delete()
}

// transcribeConverted recognizes speech in the downloaded file and replaces
// the status message with the transcript. The transcript stays keyed under
// the cache id so the summary button can find it later.
func transcribeConverted(bot *ddbot.Bot, callback *tgbotapi.CallbackQuery, status *statusMessage, inputPath string, cacheID uint) {
	chatID := callback.Message.Chat.ID
	ctx := context.Background()

	status.Edit(lang.GetMessage(lang.ExtractingAudioMsgID))
	text, err := transcribe.GlobalTranscriber.Transcribe(ctx, inputPath)
	if err != nil {
		if errors.Is(err, transcribe.ErrNoSpeech) {
			status.Edit(lang.GetMessage(lang.TranscriptionFailedMsgID))
			return
		}
		logutils.Log.WithError(err).WithField("cache_id", cacheID).Error("Transcription failed")
		status.Edit(lang.GetMessage(lang.AudioExtractionFailedMsgID))
		return
	}

	key := fmt.Sprintf("conv_%d", cacheID)
	err = database.GlobalDB.SaveTranscription(ctx, models.Transcription{
		FileUniqueID: key,
		UserID:       callback.From.ID,
		Text:         text,
	})
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to save transcription")
	}

	markup := SummaryKeyboard(key)
	parts := chunkText(text, transcriptChunkLimit)
	for i, part := range parts {
		msgText := lang.GetMessage(lang.TranscriptionContinuedMsgID, part)
		if i == 0 {
			msgText = lang.GetMessage(lang.TranscriptionHeaderMsgID, part)
		}
		last := i == len(parts)-1

		var err error
		switch {
		case i == 0 && status != nil:
			if last {
				err = bot.EditMessageHTMLWithMarkup(status.chatID, status.messageID, msgText, markup)
			} else {
				err = bot.EditMessageHTML(status.chatID, status.messageID, msgText)
			}
		case last:
			_, err = bot.SendHTMLWithMarkup(chatID, msgText, markup)
		default:
			_, err = bot.SendHTML(chatID, msgText)
		}
		if err != nil {
			logutils.Log.WithError(err).Error("Failed to send transcription part")
		}
	}
}
