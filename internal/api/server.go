package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

const jsonContentType = "application/json"

const (
	healthPath     = "/health"
	apiInfoPath    = "/api"
	downloadPath   = "/download"
	filesPrefix    = "/files/"
	fileByIDPrefix = "/api/download/"
	previewPrefix  = "/api/preview/"
	transcribePath = "/transcribe"
	summaryPath    = "/summary"
	processPath    = "/api/process"
	historyPath    = "/api/history"
	historyPrefix  = "/api/history/"
	uploadPath     = "/api/telegram/upload"
)

const sessionCookieName = "session_id"

// Server runs the download REST API next to the bot.
type Server struct {
	bot     *ddbot.Bot
	config  *ddconfig.Config
	apiKey  string
	history *historyStore
	srv     *http.Server
}

// NewServer creates the API server. When the key is empty, only requests from
// localhost are accepted.
func NewServer(bot *ddbot.Bot, config *ddconfig.Config) *Server {
	s := &Server{
		bot:     bot,
		config:  config,
		apiKey:  config.GetAPISettings().Key,
		history: newHistoryStore(),
	}
	mux := http.NewServeMux()

	mux.HandleFunc(healthPath, s.chain(s.handleHealth))
	mux.HandleFunc(apiInfoPath, s.chain(s.handleAPIInfo))
	mux.HandleFunc(downloadPath, s.chain(s.handleDownload))
	mux.HandleFunc(filesPrefix, s.chain(s.handleFiles))
	mux.HandleFunc(fileByIDPrefix, s.chain(s.handleFileByID))
	mux.HandleFunc(previewPrefix, s.chain(s.handlePreview))
	mux.HandleFunc(transcribePath, s.chain(s.handleTranscribe))
	mux.HandleFunc(summaryPath, s.chain(s.handleSummary))
	mux.HandleFunc(processPath, s.chain(s.handleProcess))
	mux.HandleFunc(historyPath, s.chain(s.handleHistory))
	mux.HandleFunc(historyPrefix, s.chain(s.handleHistoryItem))
	mux.HandleFunc(uploadPath, s.chain(s.handleTelegramUpload))

	// Downloads hold the response open for minutes, so only the header read
	// is bounded.
	s.srv = &http.Server{
		Addr:              config.GetAPISettings().Addr,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// isPrivateIP reports whether ip is in 10.0.0.0/8, 172.16.0.0/12, or 192.168.0.0/16.
func isPrivateIP(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 10 ||
			(ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31) ||
			(ip4[0] == 192 && ip4[1] == 168)
	}
	return false
}

// isLocalhostOrAllowedInDocker returns true if the request is from localhost,
// or from a private IP when RUNNING_IN_DOCKER=true (host accessing the
// container via port mapping).
func isLocalhostOrAllowedInDocker(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return false
	}
	if host == "127.0.0.1" || host == "::1" {
		return true
	}
	if os.Getenv("RUNNING_IN_DOCKER") != "true" {
		return false
	}
	ip := net.ParseIP(host)
	return ip != nil && isPrivateIP(ip)
}

// chain runs request ID, then auth, then the session cookie, then the handler.
func (s *Server) chain(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-ID", requestID)

		if s.apiKey != "" {
			token := ""
			if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				token = strings.TrimSpace(ah[7:])
			}
			if token == "" {
				token = r.Header.Get("X-API-Key")
			}
			if token != s.apiKey {
				logutils.Log.WithFields(map[string]any{
					"request_id": requestID,
					"path":       r.URL.Path,
				}).Warn("API request unauthorized")
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		} else if !isLocalhostOrAllowedInDocker(r) {
			logutils.Log.WithFields(map[string]any{
				"request_id":  requestID,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			}).Warn("API request rejected: non-localhost without API key")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx = WithSessionID(ctx, s.ensureSession(w, r))
		r = r.WithContext(ctx)

		logutils.Log.WithFields(map[string]any{
			"request_id": requestID,
			"path":       r.URL.Path,
			"method":     r.Method,
		}).Debug("API request")
		h(w, r)
	}
}

// ensureSession reads the session cookie, minting one when absent.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
	})
	return sessionID
}

var errOutsideRoot = errors.New("path outside download root")

// resolveFile maps a /files/ path onto the download directory. The cleaned
// path is re-rooted so ".." segments cannot escape it.
func (s *Server) resolveFile(rel string) (string, error) {
	if rel == "" {
		return "", errOutsideRoot
	}
	clean := path.Clean("/" + strings.ReplaceAll(rel, `\`, "/"))
	full := filepath.Join(s.config.DownloadPath, filepath.FromSlash(clean))

	root, err := filepath.Abs(s.config.DownloadPath)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return abs, nil
}

// fileURL builds the public /files/ link for a file under the download root.
func (s *Server) fileURL(r *http.Request, filePath string) string {
	rel, err := filepath.Rel(s.config.DownloadPath, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s%s", scheme, r.Host, filesPrefix, filepath.ToSlash(rel))
}

// Start listens and serves. Blocks until Shutdown is called.
func (s *Server) Start() error {
	logutils.Log.WithField("addr", s.srv.Addr).Info("API server starting")
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logutils.Log.WithError(err).Warn("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
