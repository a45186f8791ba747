package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
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

func testClient(serverURL string) *Client {
	return NewClient(&ddconfig.Config{
		APIToken:      "test-token",
		SummaryAPIURL: serverURL,
		SummaryModel:  "openai/gpt-oss-120b",
	})
}

func chatJSON(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func longTranscript() string {
	return strings.TrimSpace(strings.Repeat("слово ", 60))
}

func TestSummarizeEmptyText(t *testing.T) {
	c := testClient("http://127.0.0.1:0")
	if _, err := c.Summarize(context.Background(), "   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Summarize error = %v, expected %v", err, ErrEmptyText)
	}
}

func TestSummarizeShortTextPassthrough(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	const short = "пара слов из короткой записи"
	got, err := testClient(srv.URL).Summarize(context.Background(), short)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != short {
		t.Errorf("Summarize = %q, expected the text unchanged", got)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("short text should not reach the API")
	}
}

func TestSummarizeSuccess(t *testing.T) {
	transcript := longTranscript()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, expected POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, expected bearer token", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request decode failed: %v", err)
		}
		if req.Model != "openai/gpt-oss-120b" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("messages = %d, expected 2", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || !strings.HasSuffix(req.Messages[0].Content, transcript) {
			t.Error("system message should end with the transcript")
		}
		if req.Messages[1].Role != "user" || req.Messages[1].Content != transcript {
			t.Error("user message should carry the raw transcript")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatJSON("<think>рассуждаю про себя</think>1. Первый пункт\n\n\n2. <b>Второй</b> пункт")))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Summarize(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	expected := "1. Первый пункт\n2. Второй пункт"
	if got != expected {
		t.Errorf("Summarize = %q, expected %q", got, expected)
	}
}

func TestSummarizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Summarize(context.Background(), longTranscript())
	if !errors.Is(err, ErrAPIFailure) {
		t.Errorf("Summarize error = %v, expected %v", err, ErrAPIFailure)
	}
}

func TestSummarizeDegenerateResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no choices",
			body: `{"choices":[]}`,
		},
		{
			name: "reasoning only",
			body: chatJSON("<think>долгое размышление без ответа</think>ок"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Summarize(context.Background(), longTranscript())
			if !errors.Is(err, ErrEmptyResponse) {
				t.Errorf("Summarize error = %v, expected %v", err, ErrEmptyResponse)
			}
		})
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "think block spanning lines",
			input:    "<think>line one\nline two</think>ответ готов тут",
			expected: "ответ готов тут",
		},
		{
			name:     "html tags stripped",
			input:    "1. <b>жирный</b> и <i>курсив</i>",
			expected: "1. жирный и курсив",
		},
		{
			name:     "blank lines collapsed",
			input:    "1. раз\n\n\n2. два\n \n3. три",
			expected: "1. раз\n2. два\n3. три",
		},
		{
			name:     "plain text untouched",
			input:    "  обычный текст  ",
			expected: "обычный текст",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanResponse(tt.input); got != tt.expected {
				t.Errorf("cleanResponse(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripTagsKeepsLooseAngleBrackets(t *testing.T) {
	const input = "5 < 10 и 10 > 5"
	if got := stripTags(input); got != input {
		t.Errorf("stripTags(%q) = %q, expected it unchanged", input, got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("яяяяяяяяяя", 5); got != "яяяяя" {
		t.Errorf("truncateRunes = %q, expected five runes", got)
	}
	if got := truncateRunes("short", 100); got != "short" {
		t.Errorf("truncateRunes = %q, expected the input unchanged", got)
	}
}
