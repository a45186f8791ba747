package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader/video"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

// minFreeSpace is the disk floor below which new downloads are refused.
const minFreeSpace int64 = 1 << 30

// Factory builds the download chain for a URL. Swappable in tests.
type Factory func(rawURL string, config *ddconfig.Config, progress func(float64)) downloader.Downloader

// Service is the download entry point the handlers and the API depend on.
type Service interface {
	Download(ctx context.Context, rawURL string, progress func(float64)) (*Result, error)
	ActiveCount() int
	Stop()
}

// Result is a finished download: the collected files plus the task directory
// that owns them. The caller is responsible for removing TaskDir.
type Result struct {
	Title   string
	TaskDir string
	Files   []downloader.File
}

// task is one in-flight download. Requests for the same normalized URL share
// a task and all receive its outcome.
type task struct {
	done     chan struct{}
	result   *Result
	err      error
	mu       sync.Mutex
	progress []func(float64)
}

func (t *task) addProgress(fn func(float64)) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.progress = append(t.progress, fn)
	t.mu.Unlock()
}

func (t *task) reportProgress(percent float64) {
	t.mu.Lock()
	fns := make([]func(float64), len(t.progress))
	copy(fns, t.progress)
	t.mu.Unlock()
	for _, fn := range fns {
		fn(percent)
	}
}

type Manager struct {
	config   *ddconfig.Config
	factory  Factory
	sem      *semaphore.Weighted
	mu       sync.Mutex
	inflight map[string]*task
	baseCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

var GlobalManager *Manager

func InitManager(config *ddconfig.Config) {
	GlobalManager = NewManager(config, video.NewDownloader)
}

func NewManager(config *ddconfig.Config, factory Factory) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config:   config,
		factory:  factory,
		sem:      semaphore.NewWeighted(int64(config.GetDownloadSettings().MaxConcurrentDownloads)),
		inflight: make(map[string]*task),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Download fetches the media behind rawURL and returns the collected files.
// A request for a URL that is already downloading joins the running task
// instead of starting a second one. The download itself runs detached from
// ctx so other joiners still get the result when one caller gives up.
func (m *Manager) Download(ctx context.Context, rawURL string, progress func(float64)) (*Result, error) {
	normalized, err := m.normalizeURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if t, ok := m.inflight[normalized]; ok {
		t.addProgress(progress)
		m.mu.Unlock()
		logutils.Log.WithField("url", normalized).Debug("Joining in-flight download")
		return m.wait(ctx, t)
	}
	t := &task{done: make(chan struct{})}
	t.addProgress(progress)
	m.inflight[normalized] = t
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		result, err := m.run(normalized, t)

		m.mu.Lock()
		delete(m.inflight, normalized)
		m.mu.Unlock()

		t.result, t.err = result, err
		close(t.done)
	}()

	return m.wait(ctx, t)
}

func (m *Manager) normalizeURL(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !utils.IsValidLink(rawURL) {
		return "", utils.WrapError(utils.ErrInvalidURL, "not a valid link", map[string]any{"url": rawURL})
	}
	if platform.IsShortLink(rawURL) {
		rawURL = platform.ExpandShortURL(ctx, rawURL)
	}
	return platform.Normalize(rawURL)
}

func (m *Manager) wait(ctx context.Context, t *task) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return t.result, t.err
	}
}

func (m *Manager) run(normalized string, t *task) (*Result, error) {
	if !utils.HasEnoughSpace(m.config.DownloadPath, minFreeSpace) {
		return nil, utils.WrapError(utils.ErrInsufficientSpace, "not enough disk space for download", map[string]any{
			"path": m.config.DownloadPath,
		})
	}

	if err := m.sem.Acquire(m.baseCtx, 1); err != nil {
		return nil, err
	}
	defer m.sem.Release(1)

	taskDir := filepath.Join(m.config.DownloadPath, uuid.NewString())
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return nil, utils.WrapError(err, "failed to create task directory", map[string]any{"dir": taskDir})
	}

	ctx, cancel := context.WithTimeout(m.baseCtx, m.config.GetDownloadSettings().DownloadTimeout)
	defer cancel()

	logutils.Log.WithFields(map[string]any{"url": normalized, "dir": taskDir}).Info("Starting download")

	dl := m.factory(normalized, m.config, t.reportProgress)
	result, err := dl.Download(ctx, taskDir)
	if err == nil {
		logutils.Log.WithFields(map[string]any{
			"url":   normalized,
			"title": result.Title,
			"files": len(result.Files),
		}).Info("Download completed")
		return &Result{Title: result.Title, TaskDir: taskDir, Files: result.Files}, nil
	}

	if errors.Is(err, context.DeadlineExceeded) && m.baseCtx.Err() == nil {
		if salvaged := m.salvage(normalized, taskDir); salvaged != nil {
			return salvaged, nil
		}
		os.RemoveAll(taskDir)
		return nil, utils.WrapError(utils.ErrDownloadTimeout, "download timed out", map[string]any{"url": normalized})
	}

	os.RemoveAll(taskDir)
	return nil, err
}

// salvage keeps whatever complete files a timed-out download managed to
// produce. Temp artifacts and small fragments are never kept.
func (m *Manager) salvage(normalized, taskDir string) *Result {
	files, err := downloader.CollectFiles(taskDir, downloader.MinSalvageFileSize)
	if err != nil || len(files) == 0 {
		return nil
	}
	logutils.Log.WithFields(map[string]any{
		"url":   normalized,
		"files": len(files),
	}).Warn("Download timed out, keeping completed partial output")
	return &Result{Title: titleFor(files), TaskDir: taskDir, Files: files}
}

func titleFor(files []downloader.File) string {
	largest := files[0]
	for _, f := range files {
		if f.Size > largest.Size {
			largest = f
		}
	}
	base := filepath.Base(largest.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inflight)
}

// Stop cancels all in-flight downloads and waits for their goroutines.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

var _ Service = (*Manager)(nil)
