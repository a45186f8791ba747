// Package summarize turns long transcripts into key-point summaries via an
// OpenAI-compatible chat-completions endpoint.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	requestTimeout = 2 * time.Minute

	// minSummaryWords is the passthrough threshold: transcripts this short
	// read faster than any summary of them.
	minSummaryWords = 50

	// maxInputRunes keeps the request inside the model context window.
	maxInputRunes = 48000

	minResponseRunes  = 10
	maxErrorBodyBytes = 4096
)

// summaryPrompt instructs the model to return a numbered key-point list and
// to silently repair speech-recognition artifacts. The transcript is appended.
const summaryPrompt = `Ты эксперт по созданию кратких саммари. Создай пронумерованный список ключевых пунктов из расшифровки голосового сообщения. ВАЖНО: Это расшифровка голосового сообщения, возможны ошибки распознавания речи. Поняй смысл по контексту и молча исправь/переформулируй текст естественно, чтобы он был понятным и логичным. Правила: 1) Начни сразу со списка без вводных фраз 2) Каждый пункт - одна ключевая мысль или факт 3) Определи пол говорящего по контексту и СТРОГО соблюдай его во всех пунктах, сохраняя первое лицо (я, у меня, мой/моя/моё) 4) Включи 5-10 самых важных пунктов 5) Используй только цифры с точкой (1. 2. 3.) 6) Пиши кратко и по существу 7) Сохраняй хронологию событий если она важна 8) Исправляй очевидные ошибки распознавания речи, сохраняя смысл 9) Переформулируй неясные фразы для лучшего понимания 10) Исправляй искаженные слова по смыслу 11) Сохраняй естественность речи и логику повествования 12) Если речь неразборчива или слишком короткая, укажи это в саммари. Расшифровка: `

var (
	ErrEmptyText     = errors.New("summarize: empty text")
	ErrEmptyResponse = errors.New("summarize: empty model response")
	ErrAPIFailure    = errors.New("summarize: api request rejected")
)

var (
	thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
	blankLinePattern  = regexp.MustCompile(`\n\s*\n`)
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type Client struct {
	config     *ddconfig.Config
	httpClient *http.Client
}

var GlobalClient *Client

func InitClient(config *ddconfig.Config) {
	GlobalClient = NewClient(config)
}

func NewClient(config *ddconfig.Config) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Summarize produces a key-point summary of text. Transcripts below the
// word threshold come back unchanged without touching the API.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if len(strings.Fields(text)) < minSummaryWords {
		return text, nil
	}
	text = truncateRunes(text, maxInputRunes)

	body, err := json.Marshal(chatRequest{
		Model: c.config.SummaryModel,
		Messages: []chatMessage{
			{Role: "system", Content: summaryPrompt + text},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", utils.WrapError(err, "failed to encode summary request", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.SummaryAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", utils.WrapError(err, "failed to build summary request", map[string]any{
			"url": c.config.SummaryAPIURL,
		})
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}

	logutils.Log.WithFields(map[string]any{
		"url":   c.config.SummaryAPIURL,
		"model": c.config.SummaryModel,
	}).Debug("Requesting summary")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", utils.WrapError(err, "summary request failed", map[string]any{
			"url": c.config.SummaryAPIURL,
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", utils.WrapError(ErrAPIFailure, "summary API returned an error", map[string]any{
			"status": resp.StatusCode,
			"body":   strings.TrimSpace(string(detail)),
		})
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", utils.WrapError(err, "failed to decode summary response", nil)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	summary := cleanResponse(parsed.Choices[0].Message.Content)
	if len([]rune(summary)) < minResponseRunes {
		return "", ErrEmptyResponse
	}
	return summary, nil
}

// cleanResponse removes model reasoning blocks and markup the chat cannot
// render, then tightens the whitespace.
func cleanResponse(s string) string {
	s = thinkBlockPattern.ReplaceAllString(s, "")
	s = stripTags(s)
	s = blankLinePattern.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
