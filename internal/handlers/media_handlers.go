package handlers

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/qr"
)

// HandlePhoto scans incoming photos for a QR code and replies with the decoded
// text. Photos without a code are ignored so the bot does not talk over plain
// pictures.
func HandlePhoto(bot *ddbot.Bot, update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID
	ctx := context.Background()

	// Telegram lists photo sizes smallest first.
	photo := message.Photo[len(message.Photo)-1]

	data, err := bot.DownloadFileBytes(ctx, photo.FileID)
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to download photo for qr scan")
		return
	}

	text, err := qr.Decode(data)
	if err != nil {
		if !errors.Is(err, qr.ErrNoQRCode) {
			logutils.Log.WithError(err).Debug("QR scan failed")
		}
		return
	}

	escaped := tgbotapi.EscapeText(tgbotapi.ModeHTML, text)
	if _, err := bot.SendHTML(chatID, lang.GetMessage(lang.QRDecodedMsgID, escaped)); err != nil {
		logutils.Log.WithError(err).Error("Failed to send decoded qr text")
	}
}

// HandleVideoFile caches a user-sent video and offers the conversion menu.
func HandleVideoFile(bot *ddbot.Bot, update tgbotapi.Update) {
	message := update.Message
	offerConversion(bot, message, message.Video.FileID, models.MediaTypeVideo, "user_video")
}

// HandleAudioFile caches a user-sent audio track and offers the conversion
// menu. Documents are accepted only when the mime type or file name marks
// them as audio.
func HandleAudioFile(bot *ddbot.Bot, update tgbotapi.Update) {
	message := update.Message

	var fileID string
	switch {
	case message.Audio != nil:
		fileID = message.Audio.FileID
	case message.Document != nil:
		if !looksLikeAudio(message.Document.MimeType, message.Document.FileName) {
			return
		}
		fileID = message.Document.FileID
	default:
		return
	}

	offerConversion(bot, message, fileID, models.MediaTypeAudio, "user_audio")
}

// offerConversion stores the file under a synthetic per-message key and
// replies with a deep-link button into the conversion menu.
func offerConversion(bot *ddbot.Bot, message *tgbotapi.Message, fileID string, mediaType models.MediaType, keyPrefix string) {
	chatID := message.Chat.ID
	ctx := context.Background()

	key := fmt.Sprintf("%s_%d_%d", keyPrefix, message.From.ID, message.MessageID)
	cacheID, err := database.GlobalDB.UpsertCachedFile(ctx, models.CachedFile{
		URL:        key,
		FileIDs:    []string{fileID},
		MediaType:  mediaType,
		UploaderID: message.From.ID,
	})
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to cache user file")
		return
	}

	if _, err := bot.SendMessageWithMarkup(chatID, lang.GetMessage(lang.FileReceivedMsgID), ConvertKeyboard(bot, cacheID)); err != nil {
		logutils.Log.WithError(err).Error("Failed to acknowledge received file")
	}
}
