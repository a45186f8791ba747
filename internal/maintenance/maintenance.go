package maintenance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/database"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader/manager"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

const (
	expiredSweepInterval = time.Hour
	orphanSweepInterval  = 5 * time.Minute
	watchdogInterval     = time.Minute

	// downloadIdleWindow is how long the manager must be quiet before the
	// watchdog may restart the process.
	downloadIdleWindow = 10 * time.Minute
	// restartMinUptime keeps a freshly started process from exiting again,
	// so a supervisor never sees a restart loop.
	restartMinUptime = 30 * time.Minute
)

// Janitor runs the background sweeps: expired download records, orphaned
// task directories, and the memory watchdog.
type Janitor struct {
	config *ddconfig.Config
	db     database.Database
	active func() int

	started      time.Time
	lastActivity time.Time

	rss  func() (int64, error)
	exit func(int)
}

func NewJanitor(config *ddconfig.Config) *Janitor {
	now := time.Now()
	return &Janitor{
		config: config,
		db:     database.GlobalDB,
		active: func() int {
			if manager.GlobalManager == nil {
				return 0
			}
			return manager.GlobalManager.ActiveCount()
		},
		started:      now,
		lastActivity: now,
		rss:          processRSS,
		exit:         os.Exit,
	}
}

// Start launches the sweeps. They stop when ctx is canceled. Does nothing
// when cleanup is disabled.
func (j *Janitor) Start(ctx context.Context) {
	if !j.config.GetDownloadSettings().CleanupEnabled {
		logutils.Log.Info("Cleanup disabled, maintenance sweeps not started")
		return
	}
	go j.every(ctx, expiredSweepInterval, j.sweepExpired)
	go j.every(ctx, orphanSweepInterval, j.sweepOrphans)
	go j.every(ctx, watchdogInterval, j.checkMemory)
}

func (j *Janitor) every(ctx context.Context, interval time.Duration, run func(context.Context)) {
	run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run(ctx)
		}
	}
}

// sweepExpired drops download records past their TTL together with their
// files on disk.
func (j *Janitor) sweepExpired(ctx context.Context) {
	expired, err := j.db.ListExpiredDownloads(ctx, time.Now())
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to list expired downloads")
		return
	}

	for _, file := range expired {
		j.removeFiles(file.TaskDir, file.FilePath)
		if err := j.db.RemoveDownloadedFile(ctx, file.ID); err != nil {
			logutils.Log.WithError(err).WithField("id", file.ID).Error("Failed to drop expired download record")
		}
	}
	if len(expired) > 0 {
		logutils.Log.WithField("count", len(expired)).Info("Cleaned up expired downloads")
	}
}

func (j *Janitor) removeFiles(taskDir, filePath string) {
	target := taskDir
	if target == "" {
		target = filePath
	}
	if target == "" || !j.underRoot(target) {
		return
	}
	if err := os.RemoveAll(target); err != nil {
		logutils.Log.WithError(err).WithField("path", target).Warn("Failed to remove expired files")
	}
}

// underRoot reports whether path lies strictly inside the download
// directory. The root itself never qualifies.
func (j *Janitor) underRoot(path string) bool {
	root, err := filepath.Abs(j.config.DownloadPath)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs != root && strings.HasPrefix(abs, root+string(filepath.Separator))
}

// sweepOrphans removes task directories no database record references and
// that have been idle long enough to rule out an in-flight download.
func (j *Janitor) sweepOrphans(ctx context.Context) {
	entries, err := os.ReadDir(j.config.DownloadPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logutils.Log.WithError(err).Error("Failed to read download directory")
		}
		return
	}

	known, err := j.db.ListTaskDirs(ctx)
	if err != nil {
		logutils.Log.WithError(err).Error("Failed to list task dirs")
		return
	}
	keep := make(map[string]struct{}, len(known))
	for _, dir := range known {
		keep[filepath.Clean(dir)] = struct{}{}
	}

	cutoff := time.Now().Add(-j.orphanMinAge())
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(j.config.DownloadPath, entry.Name())
		if _, ok := keep[filepath.Clean(dir)]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logutils.Log.WithError(err).WithField("dir", dir).Warn("Failed to remove orphaned task dir")
			continue
		}
		removed++
	}
	if removed > 0 {
		logutils.Log.WithField("count", removed).Info("Removed orphaned task dirs")
	}
}

// orphanMinAge is at least the full download timeout and never under an
// hour, so a still-running download is never swept.
func (j *Janitor) orphanMinAge() time.Duration {
	minAge := j.config.GetDownloadSettings().DownloadTimeout
	if minAge < time.Hour {
		minAge = time.Hour
	}
	return minAge
}

// checkMemory exits for a supervisor restart when RSS stays above the limit
// while no downloads run. Restarting needs ten quiet minutes and half an
// hour of uptime.
func (j *Janitor) checkMemory(context.Context) {
	if j.active() > 0 {
		j.lastActivity = time.Now()
		return
	}

	rss, err := j.rss()
	if err != nil {
		logutils.Log.WithError(err).Debug("Memory check unavailable")
		return
	}
	limitMB := j.config.GetDownloadSettings().MemoryLimitMB
	if rss <= int64(limitMB)<<20 {
		return
	}

	now := time.Now()
	if now.Sub(j.lastActivity) < downloadIdleWindow || now.Sub(j.started) < restartMinUptime {
		return
	}

	logutils.Log.WithFields(map[string]any{
		"rss_mb":   rss >> 20,
		"limit_mb": limitMB,
	}).Warn("Memory limit exceeded while idle, exiting for supervisor restart")
	j.exit(0)
}

// processRSS reads the resident set size from /proc/self/status. Platforms
// without procfs get an error, which disables the watchdog.
func processRSS() (int64, error) {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return 0, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		value, ok := strings.CutPrefix(line, "VmRSS:")
		if !ok {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) < 1 {
			break
		}
		kb, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, err
		}
		return kb << 10, nil
	}
	return 0, errors.New("VmRSS not present in /proc/self/status")
}
