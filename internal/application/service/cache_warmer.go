package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/cache"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

// WarmTask asks for Rate to be cached on every date from RecordDate to
// RequestedDate inclusive
type WarmTask struct {
	Currency      string
	RequestedDate time.Time
	RecordDate    time.Time
	Rate          decimal.Decimal
}

func (t WarmTask) String() string {
	return fmt.Sprintf("%s [%s..%s] %s", t.Currency,
		t.RecordDate.Format(entity.DateLayout), t.RequestedDate.Format(entity.DateLayout), t.Rate.String())
}

// WarmerConfig configures the backfill worker pool
type WarmerConfig struct {
	Workers   int
	QueueSize int
}

// CacheWarmer fills the rate cache for the dates between a provider's record
// date and the requested date, on background workers.
type CacheWarmer struct {
	cache   repository.RateCache
	logger  logger.Logger
	metrics *metrics.Metrics
	cfg     WarmerConfig

	tasks   chan WarmTask
	mu      sync.RWMutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// NewCacheWarmer creates a warmer. Tasks queue up until Start is called.
func NewCacheWarmer(rateCache repository.RateCache, cfg WarmerConfig, log logger.Logger, m *metrics.Metrics) *CacheWarmer {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}

	return &CacheWarmer{
		cache:   rateCache,
		logger:  logger.OrDefault(log).WithField("component", "cache_warmer"),
		metrics: m,
		cfg:     cfg,
		tasks:   make(chan WarmTask, cfg.QueueSize),
	}
}

// Start launches the worker goroutines
func (w *CacheWarmer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true

	for i := 0; i < w.cfg.Workers; i++ {
		w.wg.Add(1)
		go w.worker()
	}
	w.logger.Info("Cache warmer started", map[string]interface{}{
		"workers":    w.cfg.Workers,
		"queue_size": w.cfg.QueueSize,
	})
}

// Stop refuses new tasks, lets the workers drain the queue and waits for them
func (w *CacheWarmer) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.tasks)
	started := w.started
	w.mu.Unlock()

	if !started {
		// Nobody will consume what is queued
		for range w.tasks {
			w.metrics.CacheWarmTaskDropped()
		}
		return
	}

	w.wg.Wait()
	w.logger.Info("Cache warmer stopped", nil)
}

// Warm queues task and returns immediately. When the queue is full or the
// warmer is stopped the task is dropped; the cache simply stays cold.
func (w *CacheWarmer) Warm(task WarmTask) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.metrics.CacheWarmTaskDropped()
		w.logger.Warn("Cache warmer stopped, dropping task", map[string]interface{}{"task": task.String()})
		return
	}

	select {
	case w.tasks <- task:
	default:
		w.metrics.CacheWarmTaskDropped()
		w.logger.Warn("Cache warm queue full, dropping task", map[string]interface{}{"task": task.String()})
	}
}

func (w *CacheWarmer) worker() {
	defer w.wg.Done()
	for task := range w.tasks {
		w.Backfill(context.Background(), task)
	}
}

// Backfill writes task.Rate for every date in [RecordDate, RequestedDate]
// with insert-if-absent semantics. A failed write is logged and the loop moves on.
func (w *CacheWarmer) Backfill(ctx context.Context, task WarmTask) {
	from := entity.TruncateToDate(task.RecordDate)
	to := entity.TruncateToDate(task.RequestedDate)

	w.logger.Debug("Starting cache warming", map[string]interface{}{
		"currency": task.Currency,
		"from":     from.Format(entity.DateLayout),
		"to":       to.Format(entity.DateLayout),
	})

	stored, skipped, failed := 0, 0, 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := cache.BuildKey(task.Currency, day)

		ok, err := w.cache.PutIfAbsent(ctx, key, task.Rate)
		switch {
		case err != nil:
			failed++
			w.metrics.CacheWarmWrite("error")
			w.logger.Error("Failed to warm exchange rate cache entry", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		case ok:
			stored++
			w.metrics.CacheWarmWrite("stored")
		default:
			skipped++
			w.metrics.CacheWarmWrite("skipped")
		}
	}

	w.logger.Debug("Finished cache warming", map[string]interface{}{
		"currency": task.Currency,
		"stored":   stored,
		"skipped":  skipped,
		"failed":   failed,
	})
}
