package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"intern_hub_backend/internal/config"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	write := func(level string) {
		body := "server:\n  mode: debug\ndatabase:\n  driver: sqlite\njwt:\n  secret: test-secret\nlog:\n  level: " + level + "\n  path: " + filepath.Join(dir, "app.log") + "\nstorage:\n  local_path: " + filepath.Join(dir, "uploads") + "\n"
		if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write("info")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, dir, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// 等待 watcher 注册完成
	time.Sleep(200 * time.Millisecond)
	write("warn")

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "warn" {
			t.Fatalf("reloaded level = %q, want warn", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WatchConfig returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
