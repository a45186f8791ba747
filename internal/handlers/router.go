package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

// Router dispatches one Telegram update. Callback and inline queries gate
// subscription themselves; everything message-based goes through the channel
// gate exactly once here.
func Router(bot *ddbot.Bot, update tgbotapi.Update) {
	config := ddconfig.GlobalConfig

	if update.CallbackQuery != nil {
		HandleCallbackQuery(bot, config, update)
		return
	}
	if update.InlineQuery != nil {
		HandleInlineQuery(bot, config, update)
		return
	}
	if update.Message == nil {
		return
	}

	LoggingMiddleware(update)
	ensureUser(update.Message.From)

	if !RequireSubscription(bot, config, update) {
		return
	}

	message := update.Message

	if message.IsCommand() {
		switch strings.ToLower(message.Command()) {
		case "start":
			HandleStartCommand(bot, config, update)
		case "qr":
			HandleQRCommand(bot, update)
		default:
			logutils.Log.Warnf("Unknown command: %s", message.Command())
			HandleMediaLinks(bot, config, update)
		}
		return
	}

	switch {
	case len(message.Photo) > 0:
		HandlePhoto(bot, update)
	case message.Voice != nil || message.VideoNote != nil:
		HandleVoiceMessage(bot, config, update)
	case message.Video != nil:
		HandleVideoFile(bot, update)
	case message.Audio != nil || message.Document != nil:
		HandleAudioFile(bot, update)
	case message.Text != "":
		HandleMediaLinks(bot, config, update)
	}
}
