// internal/app/system/workers/changelog.go
package workers

import (
	"sync"
	"time"

	"github.com/dalemusser/pmhub/internal/app/workspace"
	"go.uber.org/zap"
)

// ChangeLog is a background worker that logs every committed workspace change and,
// on an interval, a summary of how many changes went by.
type ChangeLog struct {
	c        *workspace.Container
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	mu    sync.Mutex
	total int
	byOp  map[string]int
}

// NewChangeLog creates a change log worker.
//
// Parameters:
//   - c: the workspace container to observe
//   - logger: zap logger for logging
//   - interval: how often to log the summary (e.g., 5 minutes)
func NewChangeLog(c *workspace.Container, logger *zap.Logger, interval time.Duration) *ChangeLog {
	return &ChangeLog{
		c:        c,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		byOp:     make(map[string]int),
	}
}

// Start subscribes to the container and begins the loop.
func (w *ChangeLog) Start() {
	ch := w.c.Subscribe()
	w.wg.Add(1)
	go w.run(ch)
	w.log.Info("change log worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Counts not yet
// summarized are logged on the way out.
func (w *ChangeLog) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("change log worker stopped")
}

// Total reports how many changes have been seen.
func (w *ChangeLog) Total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total
}

func (w *ChangeLog) run(ch chan workspace.Change) {
	defer w.wg.Done()
	defer w.c.Unsubscribe(ch)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			w.flush()
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			w.record(change)
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *ChangeLog) record(change workspace.Change) {
	w.mu.Lock()
	w.total++
	w.byOp[change.Op]++
	w.mu.Unlock()

	w.log.Debug("workspace changed",
		zap.String("op", change.Op),
		zap.Int("users", len(change.State.Users)),
		zap.Int("projects", len(change.State.Projects)))
}

func (w *ChangeLog) flush() {
	w.mu.Lock()
	counts := w.byOp
	w.byOp = make(map[string]int)
	w.mu.Unlock()

	if len(counts) == 0 {
		return
	}
	fields := make([]zap.Field, 0, len(counts))
	for op, n := range counts {
		fields = append(fields, zap.Int(op, n))
	}
	w.log.Info("workspace changes", fields...)
}
