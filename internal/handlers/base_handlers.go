package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/qr"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

// HandleStartCommand greets new users and resolves "file_<id>" deep links
// back to the cached media they point at.
func HandleStartCommand(bot *ddbot.Bot, config *ddconfig.Config, update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	if arg := strings.TrimSpace(message.CommandArguments()); arg != "" {
		if cacheID, ok := parseStartPayload(arg); ok {
			openConvertMenu(bot, chatID, cacheID)
			return
		}
		logutils.Log.Debugf("Ignoring malformed start payload: %s", arg)
	}

	msg := tgbotapi.NewMessage(chatID, lang.GetMessage(lang.StartMsgID, bot.Username()))
	msg.DisableWebPagePreview = true
	if _, err := bot.Api.Send(msg); err != nil {
		logutils.Log.WithError(err).Error("Failed to send welcome message")
	}
}

// openConvertMenu resolves a deep-linked cache id. A single file gets the
// conversion menu; a carousel is resent as an album right away, since albums
// have nothing to convert.
func openConvertMenu(bot *ddbot.Bot, chatID int64, cacheID uint) {
	ctx := context.Background()

	cached, err := database.GlobalDB.GetCachedFileByID(ctx, cacheID)
	if err != nil {
		logutils.Log.WithError(err).WithField("cache_id", cacheID).Error("Failed to look up cached file")
	}
	if cached == nil || len(cached.FileIDs) == 0 {
		bot.SendErrorMessage(chatID, lang.GetMessage(lang.LinkExpiredMsgID))
		return
	}

	if cached.IsCarousel() {
		caption := fmt.Sprintf("⚡ @%s", bot.Username())
		if cached.URL != "" {
			caption = fmt.Sprintf("⚡ @%s\n🔗 %s", bot.Username(), cached.URL)
		}
		if _, err := bot.SendMediaGroup(ctx, chatID, cachedGroupItems(cached), caption); err != nil {
			logutils.Log.WithError(err).Error("Failed to resend cached carousel")
			bot.SendErrorMessage(chatID, lang.GetMessage(lang.CarouselErrorMsgID))
		}
		return
	}

	if _, err := bot.SendMessageWithMarkup(chatID, lang.GetMessage(lang.ConvertMenuMsgID), ConvertMenuKeyboard(cacheID)); err != nil {
		logutils.Log.WithError(err).Error("Failed to send conversion menu")
	}
}

// HandleQRCommand renders the argument text as a QR code image.
func HandleQRCommand(bot *ddbot.Bot, update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	text := strings.TrimSpace(message.CommandArguments())
	if text == "" {
		bot.SendErrorMessage(chatID, lang.GetMessage(lang.QRUsageMsgID))
		return
	}
	if utf8.RuneCountInString(text) > qr.MaxTextLength {
		bot.SendErrorMessage(chatID, lang.GetMessage(lang.QRTooLongMsgID, qr.MaxTextLength))
		return
	}

	image, err := qr.Generate(text)
	if err != nil {
		logutils.Log.WithError(err).Error("QR generation failed")
		bot.SendErrorMessage(chatID, lang.GetMessage(lang.QRErrorMsgID))
		return
	}

	caption := lang.GetMessage(lang.QRCaptionMsgID, utils.TruncateString(text, 100))
	if _, err := bot.SendPhotoBytes(context.Background(), chatID, "qr_code.png", image, caption); err != nil {
		logutils.Log.WithError(err).Error("Failed to send QR code")
		bot.SendErrorMessage(chatID, lang.GetMessage(lang.QRErrorMsgID))
	}
}
