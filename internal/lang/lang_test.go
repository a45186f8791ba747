package lang

import (
	"os"
	"strings"
	"testing"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

func TestMain(m *testing.M) {
	if logutils.Log == nil {
		logutils.InitLogger("error")
	}
	os.Exit(m.Run())
}

func TestNormalizeLang(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en_US.UTF-8", "en"},
		{"ru_RU.UTF-8", "ru"},
		{"ru", "ru"},
		{"EN", "en"},
		{"pt-BR", "pt"},
		{"C.UTF-8", "c"},
		{"  en  ", "en"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLang(tt.input); got != tt.expected {
			t.Errorf("NormalizeLang(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSetupLangFallsBackToRussian(t *testing.T) {
	if err := SetupLang(&ddconfig.Config{Lang: "de_DE.UTF-8"}); err != nil {
		t.Fatalf("SetupLang returned error: %v", err)
	}
	if got := GetMessage(SubscribeButtonMsgID); got != "подписаться" {
		t.Errorf("GetMessage = %q, expected the russian fallback", got)
	}
}

func TestGetMessageUsesConfiguredLanguage(t *testing.T) {
	if err := SetupLang(&ddconfig.Config{Lang: "en_US.UTF-8"}); err != nil {
		t.Fatalf("SetupLang returned error: %v", err)
	}
	if got := GetMessage(SubscribeButtonMsgID); got != "subscribe" {
		t.Errorf("GetMessage = %q, expected the english text", got)
	}
}

func TestGetMessageFormatsArgs(t *testing.T) {
	if err := SetupLang(&ddconfig.Config{Lang: "ru"}); err != nil {
		t.Fatalf("SetupLang returned error: %v", err)
	}
	got := GetMessage(DownloadProgressMsgID, 42)
	if !strings.Contains(got, "42%") {
		t.Errorf("GetMessage = %q, expected it to contain the percentage", got)
	}
}

func TestGetMessageUnknownID(t *testing.T) {
	if got := GetMessage(MessageID("no_such_message")); got != "Message not found" {
		t.Errorf("GetMessage = %q, expected the placeholder", got)
	}
}

func TestCountMessagesRussianDeclension(t *testing.T) {
	if err := SetupLang(&ddconfig.Config{Lang: "ru"}); err != nil {
		t.Fatalf("SetupLang returned error: %v", err)
	}

	tests := []struct {
		n        int
		expected string
	}{
		{1, "1 сообщение"},
		{2, "2 сообщения"},
		{4, "4 сообщения"},
		{5, "5 сообщений"},
		{11, "11 сообщений"},
		{12, "12 сообщений"},
		{14, "14 сообщений"},
		{21, "21 сообщение"},
		{22, "22 сообщения"},
		{25, "25 сообщений"},
		{100, "100 сообщений"},
	}
	for _, tt := range tests {
		if got := CountMessages(tt.n); got != tt.expected {
			t.Errorf("CountMessages(%d) = %q, expected %q", tt.n, got, tt.expected)
		}
	}
}

func TestCountMessagesEnglish(t *testing.T) {
	if err := SetupLang(&ddconfig.Config{Lang: "en"}); err != nil {
		t.Fatalf("SetupLang returned error: %v", err)
	}
	if got := CountMessages(1); got != "1 message" {
		t.Errorf("CountMessages(1) = %q, expected %q", got, "1 message")
	}
	if got := CountMessages(7); got != "7 messages" {
		t.Errorf("CountMessages(7) = %q, expected %q", got, "7 messages")
	}
}
