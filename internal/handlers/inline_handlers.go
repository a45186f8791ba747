package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/qr"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	// Telegram expires an inline query after roughly ten seconds; waiting
	// any longer than this only produces a "query is too old" error.
	inlineWaitTimeout = 8 * time.Second

	inlineCacheSeconds = 300
	inlineQRDescRunes  = 50
)

// HandleInlineQuery answers @bot queries typed in other chats: "qr <text>"
// renders a QR code, a supported link answers from the cache, and a cache
// miss starts a download so a repeated query succeeds.
func HandleInlineQuery(bot *ddbot.Bot, config *ddconfig.Config, update tgbotapi.Update) {
	query := update.InlineQuery

	if !IsSubscribed(bot, config, query.From.ID) {
		article := tgbotapi.NewInlineQueryResultArticle(
			uuid.NewString(),
			lang.GetMessage(lang.InlineSubscribeTitleMsgID),
			lang.GetMessage(lang.InlineSubscribeTextMsgID, config.ChannelUsername),
		)
		article.Description = lang.GetMessage(lang.SubscriptionRequiredMsgID)
		bot.AnswerInlineQuery(tgbotapi.InlineConfig{
			InlineQueryID: query.ID,
			Results:       []interface{}{article},
			CacheTime:     1,
			IsPersonal:    true,
		})
		return
	}
	ensureUser(query.From)

	text := strings.TrimSpace(query.Query)
	if len(text) >= 3 && strings.EqualFold(text[:3], "qr ") {
		handleInlineQR(bot, query, strings.TrimSpace(text[3:]))
		return
	}

	supported, _ := extractMessageURLs(text, bot.Username())
	if len(supported) == 0 {
		return
	}
	handleInlineDownload(bot, config, query, supported[0])
}

// handleInlineQR answers with the QR code as a cached photo. Inline results
// need a file_id, so the PNG goes through the requester's private chat first.
func handleInlineQR(bot *ddbot.Bot, query *tgbotapi.InlineQuery, text string) {
	answer := func(results ...interface{}) {
		bot.AnswerInlineQuery(tgbotapi.InlineConfig{
			InlineQueryID: query.ID,
			Results:       results,
			CacheTime:     1,
			IsPersonal:    true,
		})
	}
	errorArticle := func() tgbotapi.InlineQueryResultArticle {
		return tgbotapi.NewInlineQueryResultArticle(
			"qr_error",
			lang.GetMessage(lang.InlineQRErrorTitleMsgID),
			lang.GetMessage(lang.QRErrorMsgID),
		)
	}

	if text == "" || utf8.RuneCountInString(text) > qr.MaxTextLength {
		answer(tgbotapi.NewInlineQueryResultArticle(
			"qr_invalid",
			lang.GetMessage(lang.InlineQRInvalidTitleMsgID),
			lang.GetMessage(lang.InlineQRInvalidTextMsgID, bot.Username()),
		))
		return
	}

	image, err := qr.Generate(text)
	if err != nil {
		logutils.Log.WithError(err).Error("Inline QR generation failed")
		answer(errorArticle())
		return
	}

	sent, err := bot.SendPhotoBytes(context.Background(), query.From.ID, "qr_code.png", image, "")
	if err != nil {
		logutils.Log.WithError(err).WithField("user_id", query.From.ID).Warn("Could not deliver the QR code to the requester")
		answer(errorArticle())
		return
	}

	result := tgbotapi.NewInlineQueryResultCachedPhoto("qr_result", ddbot.SentFileID(sent))
	result.Title = lang.GetMessage(lang.InlineQRTitleMsgID)
	result.Description = lang.GetMessage(lang.QRCaptionMsgID, utils.TruncateString(text, inlineQRDescRunes))
	result.Caption = lang.GetMessage(lang.QRCaptionMsgID, text)
	answer(result)
}

// handleInlineDownload serves a media link from the cache, or starts the
// shared download pipeline and waits as long as the inline query allows. On
// timeout the download keeps running, the file lands in the requester's
// private chat, and the next identical query answers from the cache.
func handleInlineDownload(bot *ddbot.Bot, config *ddconfig.Config, query *tgbotapi.InlineQuery, rawURL string) {
	ctx := context.Background()

	target := rawURL
	if platform.IsShortLink(target) {
		target = platform.ExpandShortURL(ctx, target)
	}
	normalized, err := platform.Normalize(target)
	if err != nil {
		logutils.Log.WithError(err).WithField("url", rawURL).Warn("Skipping unparseable inline link")
		return
	}

	cached, err := database.GlobalDB.GetCachedFile(ctx, normalized)
	if err != nil {
		logutils.Log.WithError(err).Error("Cache lookup failed")
	}
	if cached != nil && len(cached.FileIDs) > 0 {
		bot.AnswerInlineQuery(tgbotapi.InlineConfig{
			InlineQueryID: query.ID,
			Results:       cachedInlineResults(bot, cached, fmt.Sprintf("⚡ @%s", bot.Username())),
			CacheTime:     inlineCacheSeconds,
		})
		return
	}

	requester := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: query.From.ID},
		From: &tgbotapi.User{ID: query.From.ID},
	}
	result := downloadGroup.DoChan(normalized, func() (interface{}, error) {
		return fetchAndSend(bot, config, requester, normalized, nil)
	})

	select {
	case res := <-result:
		if res.Err != nil {
			logutils.Log.WithError(res.Err).WithField("url", normalized).Error("Inline download failed")
			bot.AnswerInlineQuery(tgbotapi.InlineConfig{
				InlineQueryID: query.ID,
				Results:       []interface{}{},
				CacheTime:     1,
				IsPersonal:    true,
			})
			return
		}
		outcome := res.Val.(*uploadOutcome)
		cached, err := database.GlobalDB.GetCachedFileByID(ctx, outcome.cacheID)
		if err != nil || cached == nil || len(cached.FileIDs) == 0 {
			logutils.Log.WithError(err).WithField("cache_id", outcome.cacheID).Error("Inline download finished but the cache row is missing")
			bot.AnswerInlineQuery(tgbotapi.InlineConfig{
				InlineQueryID: query.ID,
				Results:       []interface{}{},
				CacheTime:     1,
				IsPersonal:    true,
			})
			return
		}
		bot.AnswerInlineQuery(tgbotapi.InlineConfig{
			InlineQueryID: query.ID,
			Results:       cachedInlineResults(bot, cached, fmt.Sprintf("@%s", bot.Username())),
			CacheTime:     inlineCacheSeconds,
		})
	case <-time.After(inlineWaitTimeout):
		bot.AnswerInlineQuery(tgbotapi.InlineConfig{
			InlineQueryID:     query.ID,
			Results:           []interface{}{},
			CacheTime:         1,
			IsPersonal:        true,
			SwitchPMText:      lang.GetMessage(lang.InlinePreparingMsgID),
			SwitchPMParameter: "inline",
		})
	}
}

// cachedInlineResults renders a cache row as inline results. Singles follow
// the stored media type; carousels number each item and carry the caption on
// the first one only, the way Telegram shows album captions.
func cachedInlineResults(bot *ddbot.Bot, cached *models.CachedFile, caption string) []interface{} {
	resultID := uuid.NewString()

	if len(cached.FileIDs) == 1 {
		fileID := cached.FileIDs[0]
		switch cached.MediaType {
		case models.MediaTypeVideo:
			result := tgbotapi.NewInlineQueryResultCachedVideo(resultID, fileID, lang.GetMessage(lang.InlineVideoTitleMsgID))
			result.Description = caption
			markup := ConvertKeyboard(bot, cached.ID)
			result.ReplyMarkup = &markup
			return []interface{}{result}
		case models.MediaTypeAudio:
			result := tgbotapi.NewInlineQueryResultCachedAudio(resultID, fileID)
			result.Caption = caption
			return []interface{}{result}
		default:
			result := tgbotapi.NewInlineQueryResultCachedPhoto(resultID, fileID)
			result.Title = lang.GetMessage(lang.InlinePhotoTitleMsgID)
			result.Description = caption
			return []interface{}{result}
		}
	}

	var results []interface{}
	for i, fileID := range cached.FileIDs {
		itemID := fmt.Sprintf("%s_%d", resultID, i)
		first := i == 0
		switch cached.MediaType {
		case models.MediaTypeVideo:
			title := fmt.Sprintf("%s %d", lang.GetMessage(lang.InlineVideoTitleMsgID), i+1)
			result := tgbotapi.NewInlineQueryResultCachedVideo(itemID, fileID, title)
			if first {
				result.Description = caption
				markup := ConvertKeyboard(bot, cached.ID)
				result.ReplyMarkup = &markup
			}
			results = append(results, result)
		case models.MediaTypeAudio:
			result := tgbotapi.NewInlineQueryResultCachedAudio(itemID, fileID)
			if first {
				result.Caption = caption
			}
			results = append(results, result)
		default:
			result := tgbotapi.NewInlineQueryResultCachedPhoto(itemID, fileID)
			result.Title = fmt.Sprintf("%s %d", lang.GetMessage(lang.InlinePhotoTitleMsgID), i+1)
			if first {
				result.Description = caption
			}
			results = append(results, result)
		}
	}
	return results
}
