package lang

import (
	"fmt"
	"strings"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

var lang string

var supported = map[string]bool{
	"en": true,
	"ru": true,
}

// SetupLang picks the catalog language. The LANG variable often carries a
// full locale like en_US.UTF-8, so the value reduces to its language code.
func SetupLang(config *ddconfig.Config) error {
	normalized := NormalizeLang(config.Lang)
	if !supported[normalized] {
		logutils.Log.WithField("lang", config.Lang).Warn("Unsupported language, falling back to ru")
		normalized = "ru"
	}
	lang = normalized
	return nil
}

// NormalizeLang reduces a locale string to its bare language code.
func NormalizeLang(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, sep := range []string{".", "_", "-"} {
		if idx := strings.Index(value, sep); idx >= 0 {
			value = value[:idx]
		}
	}
	return value
}

func GetMessage(id MessageID, args ...any) string {
	if m, ok := messages[id]; ok {
		if msg, ok := m[lang]; ok {
			return fmt.Sprintf(msg, args...)
		}
		if msg, ok := m["en"]; ok {
			return fmt.Sprintf(msg, args...)
		}
	}
	logutils.Log.WithField("id", string(id)).Warn("Message not found")
	return "Message not found"
}

// CountMessages renders "N messages" with the declension rules of the
// configured language. Russian needs three plural forms.
func CountMessages(n int) string {
	if lang != "ru" {
		if n == 1 {
			return "1 message"
		}
		return fmt.Sprintf("%d messages", n)
	}

	mod10 := n % 10
	mod100 := n % 100
	switch {
	case mod10 == 1 && mod100 != 11:
		return fmt.Sprintf("%d сообщение", n)
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return fmt.Sprintf("%d сообщения", n)
	default:
		return fmt.Sprintf("%d сообщений", n)
	}
}
