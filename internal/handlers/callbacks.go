package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/summarize"
)

// HandleCallbackQuery routes inline-button presses: the convert menu under
// delivered files and the summary buttons under transcripts.
func HandleCallbackQuery(bot *ddbot.Bot, config *ddconfig.Config, update tgbotapi.Update) {
	callback := update.CallbackQuery
	if callback.Message == nil {
		// Buttons on inline-mode messages carry no chat to answer into.
		bot.AnswerCallback(callback.ID, "")
		return
	}

	ensureUser(callback.From)
	if !IsSubscribed(bot, config, callback.From.ID) {
		bot.AnswerCallbackAlert(callback.ID, lang.GetMessage(lang.SubscriptionRequiredAlertMsgID))
		return
	}

	data := callback.Data
	switch {
	case strings.HasPrefix(data, "conv_"):
		action, cacheID, ok := parseConvCallback(data)
		if !ok {
			logutils.Log.WithField("data", data).Warn("Malformed convert callback")
			bot.AnswerCallbackAlert(callback.ID, lang.GetMessage(lang.FileNotFoundMsgID))
			return
		}
		handleConvertAction(bot, config, callback, action, cacheID)
	case strings.HasPrefix(data, "batch_summarize:"):
		handleSummarize(bot, callback, strings.TrimPrefix(data, "batch_summarize:"), true)
	case strings.HasPrefix(data, "summarize:"):
		handleSummarize(bot, callback, strings.TrimPrefix(data, "summarize:"), false)
	default:
		logutils.Log.WithField("data", data).Warn("Unknown callback data")
		bot.AnswerCallback(callback.ID, "")
	}
}

// handleSummarize answers a summary button with a key-point list of the
// stored transcript. Batch keys cover a whole voice batch and get the
// message count in the header.
func handleSummarize(bot *ddbot.Bot, callback *tgbotapi.CallbackQuery, key string, batch bool) {
	chatID := callback.Message.Chat.ID
	ctx := context.Background()

	transcription, err := database.GlobalDB.GetTranscription(ctx, key)
	if err != nil {
		logutils.Log.WithError(err).WithField("key", key).Error("Failed to load transcription")
	}
	if transcription == nil || strings.TrimSpace(transcription.Text) == "" {
		bot.AnswerCallbackAlert(callback.ID, lang.GetMessage(lang.SummaryTextNotFoundMsgID))
		return
	}

	bot.AnswerCallback(callback.ID, lang.GetMessage(lang.SummaryProgressMsgID))
	status := newStatusMessage(bot, chatID, lang.GetMessage(lang.SummaryProgressMsgID))

	summary, err := summarize.GlobalClient.Summarize(ctx, transcription.Text)
	if err != nil {
		logutils.Log.WithError(err).WithField("key", key).Error("Summarization failed")
		switch {
		case errors.Is(err, summarize.ErrEmptyText):
			status.Edit(lang.GetMessage(lang.SummaryTextNotFoundMsgID))
		case errors.Is(err, summarize.ErrEmptyResponse):
			status.Edit(lang.GetMessage(lang.SummaryEmptyResponseMsgID))
		default:
			status.Edit(lang.GetMessage(lang.SummaryFailedMsgID))
		}
		return
	}

	text := lang.GetMessage(lang.SummaryHeaderMsgID, summary)
	if batch {
		count := parseBatchCount(key)
		text = lang.GetMessage(lang.BatchSummaryHeaderMsgID, lang.CountMessages(count), summary)
	}

	if status != nil {
		if err := bot.EditMessageHTML(status.chatID, status.messageID, text); err != nil {
			logutils.Log.WithError(err).Error("Failed to edit summary message")
		}
		return
	}
	if _, err := bot.SendHTML(chatID, text); err != nil {
		logutils.Log.WithError(err).Error("Failed to send summary")
	}
}
