package video

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

func TestMain(m *testing.M) {
	if logutils.Log == nil {
		logutils.InitLogger("error")
	}
	os.Exit(m.Run())
}

func TestStartPeriodicUpdaterZeroIntervalReturnsImmediately(t *testing.T) {
	done := make(chan struct{})
	go func() {
		StartPeriodicUpdater(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartPeriodicUpdater(_, 0) did not return immediately")
	}
}

func TestStartPeriodicUpdaterStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		StartPeriodicUpdater(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("StartPeriodicUpdater did not stop after context cancel")
	}
}

func TestRunUpdateWithCanceledContextReturnsWithoutPanic(_ *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	RunUpdate(ctx)
}

func fakeYtdlp(t *testing.T, exitCode string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping fake yt-dlp script test on Windows")
	}
	tmpDir := t.TempDir()
	scriptPath := filepath.Join(tmpDir, "yt-dlp")
	script := "#!/bin/sh\nexit " + exitCode + "\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake yt-dlp: %v", err)
	}
	origPath := os.Getenv("PATH")
	t.Cleanup(func() { os.Setenv("PATH", origPath) })
	os.Setenv("PATH", tmpDir+string(filepath.ListSeparator)+origPath)
}

func TestRunUpdateSuccessWithFakeYtdlp(t *testing.T) {
	fakeYtdlp(t, "0")
	RunUpdate(context.Background())
}

func TestRunUpdateExitFailureWithFakeYtdlp(t *testing.T) {
	fakeYtdlp(t, "1")
	RunUpdate(context.Background())
}
