package configwatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"gabigame_backend/internal/config"
	"gabigame_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader 收到重新加载后的完整配置
type Reloader func(cfg *config.Config)

const debounce = time.Second

// Watch 监听 configDir/config.yaml，写入后防抖再加载，直到 ctx 结束
func Watch(ctx context.Context, configDir string, reloaders ...Reloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	absDir, err := filepath.Abs(configDir)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	// 监听目录，编辑器以 rename 方式保存时文件监听会失效
	if err := watcher.Add(absDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config dir: %w", err)
	}

	go run(ctx, watcher, absDir, reloaders)
	return nil
}

func run(ctx context.Context, watcher *fsnotify.Watcher, dir string, reloaders []Reloader) {
	defer watcher.Close()

	target := filepath.Join(dir, "config.yaml")
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(debounce)
			}
		case <-timer.C:
			cfg, err := config.LoadConfig(dir)
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("config reloaded", zap.String("path", target))
			for _, reload := range reloaders {
				reload(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
