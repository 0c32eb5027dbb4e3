package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/logger"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// deadlineWorker concludes interviews whose time limit elapsed.
type deadlineWorker struct {
	manager      InterviewManager
	pollInterval time.Duration
	now          func() time.Time
	log          *zap.Logger
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(manager InterviewManager, pollInterval time.Duration, log *zap.Logger) Worker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &deadlineWorker{
		manager:      manager,
		pollInterval: pollInterval,
		now:          time.Now,
		log:          logger.OrNop(log),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *deadlineWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.pollDeadlines(ctx)

	w.log.Info("🚀 Deadline worker started", zap.Duration("poll_interval", w.pollInterval))
}

// Stop implements Worker.
func (w *deadlineWorker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("🛑 Stopping deadline worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("✅ Deadline worker stopped")
	})
}

func (w *deadlineWorker) pollDeadlines(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := w.manager.ExpireDue(ctx, w.now())
			if len(expired) > 0 {
				w.log.Info("📋 Concluded expired interviews", zap.Int("count", len(expired)))
			}
		}
	}
}
