package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

type Bot struct {
	Api    *tgbotapi.BotAPI
	config *ddconfig.Config
}

func InitBot(config *ddconfig.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, utils.WrapError(err, "failed to create bot", nil)
	}
	logutils.Log.Infof("Authorized on account %s", api.Self.UserName)
	return &Bot{Api: api, config: config}, nil
}

func (b *Bot) Username() string {
	return b.Api.Self.UserName
}

// DeepLink builds a start link that resends the cached files when opened.
func (b *Bot) DeepLink(cacheID uint) string {
	return fmt.Sprintf("https://t.me/%s?start=file_%d", b.Username(), cacheID)
}

func (b *Bot) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return b.Api.Send(tgbotapi.NewMessage(chatID, text))
}

// SendHTML sends a message rendered with Telegram HTML markup.
func (b *Bot) SendHTML(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return b.Api.Send(msg)
}

func (b *Bot) SendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	return b.Api.Send(msg)
}

func (b *Bot) SendHTMLWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	return b.Api.Send(msg)
}

func (b *Bot) SendErrorMessage(chatID int64, message string) {
	logutils.Log.Error(message)
	if _, err := b.Api.Send(tgbotapi.NewMessage(chatID, message)); err != nil {
		logutils.Log.WithError(err).Error("Failed to send error message")
	}
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string) error {
	_, err := b.Api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func (b *Bot) EditMessageHTML(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := b.Api.Send(edit)
	return err
}

func (b *Bot) EditMessageHTMLWithMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := b.Api.Send(edit)
	return err
}

// EditReplyMarkup swaps the inline keyboard under an already sent message.
func (b *Bot) EditReplyMarkup(chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) error {
	_, err := b.Api.Send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup))
	return err
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) {
	if _, err := b.Api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logutils.Log.WithError(err).Debug("Failed to delete message")
	}
}

func (b *Bot) AnswerCallback(callbackID, text string) {
	if _, err := b.Api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		logutils.Log.WithError(err).Debug("Failed to answer callback")
	}
}

func (b *Bot) AnswerCallbackAlert(callbackID, text string) {
	if _, err := b.Api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		logutils.Log.WithError(err).Debug("Failed to answer callback")
	}
}

// SendChatAction shows a typing/uploading indicator; failures are harmless.
func (b *Bot) SendChatAction(chatID int64, action string) {
	if _, err := b.Api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		logutils.Log.WithError(err).Debug("Failed to send chat action")
	}
}

// AnswerInlineQuery submits prepared inline results. Queries expire after a
// few seconds, so a failure here usually just means the user typed on.
func (b *Bot) AnswerInlineQuery(config tgbotapi.InlineConfig) {
	if _, err := b.Api.Request(config); err != nil {
		logutils.Log.WithError(err).Debug("Failed to answer inline query")
	}
}
