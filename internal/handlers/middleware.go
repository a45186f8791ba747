package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

func LoggingMiddleware(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	logutils.Log.WithFields(map[string]any{
		"username": update.Message.From.UserName,
		"chat_id":  update.Message.Chat.ID,
		"text":     update.Message.Text,
	}).Info("Received a new message")
}

var subscribedStatuses = map[string]bool{
	"member":        true,
	"administrator": true,
	"creator":       true,
}

// IsSubscribed reports whether the user is a member of the required channel.
// Errors count as not subscribed, so an unreachable Telegram API never opens
// the bot to everyone.
func IsSubscribed(bot *ddbot.Bot, config *ddconfig.Config, userID int64) bool {
	if config.ChannelID == 0 {
		return true
	}

	member, err := bot.Api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: config.ChannelID,
			UserID: userID,
		},
	})
	if err != nil {
		logutils.Log.WithError(err).WithField("user_id", userID).Warn("Subscription check failed")
		return false
	}
	return subscribedStatuses[member.Status]
}

// RequireSubscription gates a message-based flow: when the user is not
// subscribed it sends the join prompt with a subscribe button and returns
// false.
func RequireSubscription(bot *ddbot.Bot, config *ddconfig.Config, update tgbotapi.Update) bool {
	if IsSubscribed(bot, config, update.Message.From.ID) {
		return true
	}
	if _, err := bot.SendMessageWithMarkup(
		update.Message.Chat.ID,
		lang.GetMessage(lang.SubscriptionRequiredMsgID),
		SubscribeKeyboard(config),
	); err != nil {
		logutils.Log.WithError(err).Error("Failed to send subscription prompt")
	}
	return false
}

// ensureUser records the sender so summaries and transcripts can be tied to
// an account. Failures only get logged.
func ensureUser(from *tgbotapi.User) {
	if from == nil {
		return
	}
	err := database.GlobalDB.EnsureUser(context.Background(), models.User{
		TelegramID:   from.ID,
		Username:     from.UserName,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		LanguageCode: from.LanguageCode,
	})
	if err != nil {
		logutils.Log.WithError(err).WithField("user_id", from.ID).Warn("Failed to record user")
	}
}
