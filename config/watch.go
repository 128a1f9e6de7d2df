package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher 监听配置文件变化并在冷却时间之外重新加载。
// 监听的是所在目录，编辑器"写临时文件再改名"的保存方式也能被感知。
type Watcher struct {
	path     string
	cooldown time.Duration
	log      *zap.Logger
	watcher  *fsnotify.Watcher

	mu         sync.Mutex
	lastReload time.Time
	started    atomic.Bool
	stopOnce   sync.Once
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewWatcher 创建监听器，cooldown 内的重复事件被合并。
func NewWatcher(path string, cooldown time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		cooldown: cooldown,
		log:      log,
		watcher:  w,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

// Start 开始监听，onUpdate 收到重新加载并校验过的配置。
func (w *Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}
	w.started.Store(true)
	go w.watch(ctx, onUpdate)
	return nil
}

// Stop 停止监听并关闭 fsnotify，可重复调用。
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if w.started.Load() {
			<-w.doneChan
		}
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watch(ctx context.Context, onUpdate func(AppConfig)) {
	defer close(w.doneChan)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.reload(onUpdate)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(onUpdate func(AppConfig)) {
	w.mu.Lock()
	if w.cooldown > 0 && time.Since(w.lastReload) < w.cooldown {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cfg, err := LoadWithEnvOverrides(w.path)
	if err != nil {
		// 写入过程中可能读到半个文件，等待下一个事件
		w.log.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.mu.Lock()
	w.lastReload = time.Now()
	w.mu.Unlock()
	w.log.Info("config reloaded", zap.String("path", w.path))
	if onUpdate != nil {
		onUpdate(cfg)
	}
}

// LastReload 返回最后一次成功加载的时间。
func (w *Watcher) LastReload() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastReload
}
