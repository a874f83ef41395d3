package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Editors save a file as several write events in quick succession; the
// debounce collapses them into one reload.
const reloadDebounce = 200 * time.Millisecond

// Watch hot-reloads the config file so delay tuning and log-level changes
// take effect without restarting the gateway. Run it in a goroutine; it
// returns when ctx is done, or immediately when the file cannot be read.
// Each reload swaps the in-memory config and runs RegisterOnReload callbacks.
func Watch(ctx context.Context) {
	path := Path()
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		slog.Warn("config watch disabled", "path", path, "error", err)
		return
	}

	var debounce *time.Timer
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		if filepath.Clean(e.Name) != filepath.Clean(path) {
			return
		}
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(reloadDebounce, func() { reloadFromDisk(path) })
	})

	<-ctx.Done()
}

// reloadFromDisk re-parses the file at path and publishes the result. A file
// that fails to parse is skipped so a half-saved edit never clobbers the
// running config.
func reloadFromDisk(path string) {
	cfg, err := Load(path)
	if err != nil {
		slog.Warn("config reload skipped", "path", path, "error", err)
		return
	}
	Set(cfg)
	notifyReload(cfg)
	slog.Info("config reloaded", "path", path, "logLevel", cfg.Log.Level, "replyDelay", cfg.Chat.ReplyDelay.Std())
}
