package video

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

const updateTimeout = 3 * time.Minute

// RunUpdate asks yt-dlp to update itself. Extractors break when platforms
// change their pages, so a stale binary is the most common download failure.
func RunUpdate(ctx context.Context) {
	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	cmd := exec.CommandContext(updateCtx, "yt-dlp", "-U")
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))

	if err != nil {
		if updateCtx.Err() != nil {
			logutils.Log.WithError(err).Warn("yt-dlp update timed out or was canceled")
			return
		}
		logutils.Log.WithError(err).WithField("output", out).Warn("yt-dlp update failed")
		return
	}

	logutils.Log.WithField("output", out).Info("yt-dlp update check completed")
}

// StartPeriodicUpdater blocks and re-runs the update check on the given
// interval until the context is canceled. A non-positive interval disables
// the updater.
func StartPeriodicUpdater(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	RunUpdate(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunUpdate(ctx)
		}
	}
}
