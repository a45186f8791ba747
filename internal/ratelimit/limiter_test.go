package ratelimit

import (
	"os"
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

func TestAllowWithinBurst(t *testing.T) {
	l := NewLimiter(3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.allowAt(now, 1) {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if l.allowAt(now, 1) {
		t.Error("fourth request in the same instant should be denied")
	}
}

func TestRefillAfterInterval(t *testing.T) {
	l := NewLimiter(2)
	now := time.Now()

	if !l.allowAt(now, 7) || !l.allowAt(now, 7) {
		t.Fatal("burst requests should be allowed")
	}
	if l.allowAt(now, 7) {
		t.Fatal("burst exhausted, request should be denied")
	}

	// Two per minute refills one token every 30 seconds.
	if l.allowAt(now.Add(29*time.Second), 7) {
		t.Error("token should not refill before the interval elapses")
	}
	if !l.allowAt(now.Add(31*time.Second), 7) {
		t.Error("token should refill after the interval")
	}
}

func TestUsersThrottledIndependently(t *testing.T) {
	l := NewLimiter(1)
	now := time.Now()

	if !l.allowAt(now, 1) {
		t.Fatal("first user should be allowed")
	}
	if l.allowAt(now, 1) {
		t.Fatal("first user should be throttled")
	}
	if !l.allowAt(now, 2) {
		t.Error("second user must not share the first user's bucket")
	}
}

func TestDisabledLimiter(t *testing.T) {
	l := NewLimiter(0)
	now := time.Now()

	for i := 0; i < 100; i++ {
		if !l.allowAt(now, 1) {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}

func TestSweepDropsIdleUsers(t *testing.T) {
	l := NewLimiter(5)
	now := time.Now()

	l.allowAt(now, 1)
	l.allowAt(now, 2)
	if len(l.users) != 2 {
		t.Fatalf("expected 2 tracked users, got %d", len(l.users))
	}

	later := now.Add(25 * time.Hour)
	l.allowAt(later, 2)

	if _, ok := l.users[1]; ok {
		t.Error("idle user should be swept")
	}
	if _, ok := l.users[2]; !ok {
		t.Error("active user should survive the sweep")
	}
}
