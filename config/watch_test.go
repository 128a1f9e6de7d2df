package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestWatcherTriggersOnChange(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()

	ch := make(chan AppConfig, 4)
	if err := w.Start(context.Background(), func(cfg AppConfig) { ch <- cfg }); err != nil {
		t.Fatalf("start: %v", err)
	}

	updated := strings.Replace(sampleConfig, "level: debug", "level: warn", 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg := <-ch:
			if cfg.Log.Level == "warn" {
				if w.LastReload().IsZero() {
					t.Fatalf("last reload not recorded")
				}
				return
			}
		case <-deadline:
			t.Fatalf("expected update callback")
		}
	}
}

func TestWatcherIgnoresInvalidConfig(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()

	ch := make(chan AppConfig, 4)
	if err := w.Start(context.Background(), func(cfg AppConfig) { ch <- cfg }); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := os.WriteFile(path, []byte("env: nowhere\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	select {
	case cfg := <-ch:
		t.Fatalf("unexpected update: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w, err := NewWatcher(writeTempConfig(t, sampleConfig), time.Second, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
