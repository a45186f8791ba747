package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dreamcatchered/dreamDownloader/internal/api"
	ddbot "github.com/dreamcatchered/dreamDownloader/internal/bot"
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader/manager"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader/video"
	"github.com/dreamcatchered/dreamDownloader/internal/handlers"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/maintenance"
	"github.com/dreamcatchered/dreamDownloader/internal/media"
	"github.com/dreamcatchered/dreamDownloader/internal/summarize"
	"github.com/dreamcatchered/dreamDownloader/internal/transcribe"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const (
	ytdlpUpdateInterval = 24 * time.Hour
	shutdownTimeout     = 10 * time.Second
)

func main() {
	if err := ddconfig.InitConfig(); err != nil {
		logutils.InitLogger("info")
		logutils.Log.WithError(err).Fatal("Failed to initialize configuration")
	}
	config := ddconfig.GlobalConfig

	logutils.InitLogger(config.LogLevel)
	logutils.Log.WithFields(map[string]any{
		"version":    Version,
		"build_time": BuildTime,
	}).Info("Starting Dream Downloader")

	if err := database.InitDatabase(config); err != nil {
		logutils.Log.WithError(err).Fatal("Failed to initialize the database")
	}

	if err := lang.SetupLang(config); err != nil {
		logutils.Log.WithError(err).Fatal("Failed to load message catalog")
	}

	botInstance, err := ddbot.InitBot(config)
	if err != nil {
		logutils.Log.WithError(err).Fatal("Bot initialization failed")
	}

	manager.InitManager(config)
	media.InitProcessor(config)
	transcribe.InitTranscriber(config)
	summarize.InitClient(config)
	handlers.Setup(config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var apiServer *api.Server
	if config.GetAPISettings().Enabled {
		apiServer = api.NewServer(botInstance, config)
		go func() {
			if serveErr := apiServer.Start(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logutils.Log.WithError(serveErr).Fatal("API server failed")
			}
		}()
	}

	maintenance.NewJanitor(config).Start(ctx)
	go video.StartPeriodicUpdater(ctx, ytdlpUpdateInterval)

	go processUpdates(ctx, botInstance)

	logutils.Log.Info("Dream Downloader started successfully")

	<-sigChan
	logutils.Log.Info("Received shutdown signal, starting graceful shutdown...")

	cancel()

	if apiServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if shutdownErr := apiServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logutils.Log.WithError(shutdownErr).Warn("API server shutdown failed")
		}
		shutdownCancel()
	}

	manager.GlobalManager.Stop()
	logutils.Log.Info("All downloads stopped")

	logutils.Log.Info("Dream Downloader shutdown complete")
}

// processUpdates reads the long-poll stream and dispatches every update in
// its own goroutine so one slow handler never stalls the stream.
func processUpdates(ctx context.Context, bot *ddbot.Bot) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.Api.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			go handlers.Router(bot, update)
		case <-ctx.Done():
			logutils.Log.Info("Stopping update processing")
			return
		}
	}
}
