package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
)

// ConvertKeyboard is the single "convert" button attached under a delivered
// video or audio. It opens the bot in private chat through a deep link, so
// it works from group chats and inline messages too.
func ConvertKeyboard(bot *ddbot.Bot, cacheID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(lang.GetMessage(lang.ConvertButtonMsgID), bot.DeepLink(cacheID)),
		),
	)
}

// ConvertMenuKeyboard lists the conversion targets for a cached file.
func ConvertMenuKeyboard(cacheID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.ConvertButtonNoteMsgID), convCallbackData("note", cacheID)),
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.ConvertButtonVoiceMsgID), convCallbackData("voice", cacheID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.ConvertButtonMP3MsgID), convCallbackData("mp3", cacheID)),
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.ConvertButtonFileMsgID), convCallbackData("file", cacheID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.ConvertButtonTranscribeMsgID), convCallbackData("transcription", cacheID)),
		),
	)
}

// SubscribeKeyboard links to the channel users must join before the bot
// serves them.
func SubscribeKeyboard(config *ddconfig.Config) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(
				lang.GetMessage(lang.SubscribeButtonMsgID),
				fmt.Sprintf("https://t.me/%s", config.ChannelUsername),
			),
		),
	)
}

// SummaryKeyboard offers a summary of a stored transcription.
func SummaryKeyboard(transcriptionKey string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.SummaryButtonMsgID), "summarize:"+transcriptionKey),
		),
	)
}

// BatchSummaryKeyboard offers a combined summary over a whole voice batch.
func BatchSummaryKeyboard(batchKey string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.GetMessage(lang.BatchSummaryButtonMsgID), "batch_summarize:"+batchKey),
		),
	)
}
