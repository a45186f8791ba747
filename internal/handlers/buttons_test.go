package handlers

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
)

func testBot(username string) *ddbot.Bot {
	return &ddbot.Bot{Api: &tgbotapi.BotAPI{Self: tgbotapi.User{UserName: username}}}
}

func TestConvertKeyboardDeepLink(t *testing.T) {
	markup := ConvertKeyboard(testBot("testbot"), 42)

	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("expected a single button, got %v", markup.InlineKeyboard)
	}
	button := markup.InlineKeyboard[0][0]
	if button.URL == nil {
		t.Fatal("convert button must be a URL button")
	}
	if *button.URL != "https://t.me/testbot?start=file_42" {
		t.Errorf("unexpected deep link %q", *button.URL)
	}
}

func TestConvertMenuKeyboard(t *testing.T) {
	markup := ConvertMenuKeyboard(7)

	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, button := range row {
			if button.CallbackData == nil {
				t.Fatalf("button %q has no callback data", button.Text)
			}
			data = append(data, *button.CallbackData)
		}
	}

	want := []string{"conv_note_7", "conv_voice_7", "conv_mp3_7", "conv_file_7", "conv_transcription_7"}
	if len(data) != len(want) {
		t.Fatalf("expected %d buttons, got %d", len(want), len(data))
	}
	for i, d := range data {
		if d != want[i] {
			t.Errorf("button %d: got %q, want %q", i, d, want[i])
		}
	}
}

func TestConvertMenuCallbackDataFitsTelegramLimit(t *testing.T) {
	// Telegram caps callback data at 64 bytes.
	for _, row := range ConvertMenuKeyboard(4294967295).InlineKeyboard {
		for _, button := range row {
			if len(*button.CallbackData) > 64 {
				t.Errorf("callback data %q exceeds 64 bytes", *button.CallbackData)
			}
		}
	}
}

func TestSubscribeKeyboard(t *testing.T) {
	config := &ddconfig.Config{ChannelUsername: "mychannel"}
	markup := SubscribeKeyboard(config)

	button := markup.InlineKeyboard[0][0]
	if button.URL == nil || *button.URL != "https://t.me/mychannel" {
		t.Errorf("unexpected channel link %v", button.URL)
	}
}

func TestSummaryKeyboards(t *testing.T) {
	button := SummaryKeyboard("conv_12").InlineKeyboard[0][0]
	if *button.CallbackData != "summarize:conv_12" {
		t.Errorf("unexpected summary callback %q", *button.CallbackData)
	}

	button = BatchSummaryKeyboard("batch_3_abc").InlineKeyboard[0][0]
	if *button.CallbackData != "batch_summarize:batch_3_abc" {
		t.Errorf("unexpected batch summary callback %q", *button.CallbackData)
	}
}
