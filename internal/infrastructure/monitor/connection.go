package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Monitor periodically pings the backing stores and caches the result for
// the health endpoint.
type Monitor struct {
	pool     *pgxpool.Pool
	redis    *redislib.Client
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status

	stopCh chan struct{}
	doneCh chan struct{}
}

func New(pool *pgxpool.Pool, redis *redislib.Client, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pool:     pool,
		redis:    redis,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background check loop. The first check runs
// immediately so /health never reports a zero-value status for long.
func (m *Monitor) Start() {
	go func() {
		defer close(m.doneCh)

		m.check()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.check()
			case <-m.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the check loop and waits for it to exit.
func (m *Monitor) Stop() {
	close(m.stopCh)
	<-m.doneCh
}

// GetStatus returns the latest cached status.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status := Status{LastCheck: time.Now().UTC()}

	if m.pool != nil {
		if err := m.pool.Ping(ctx); err != nil {
			m.logger.Warn("postgres health check failed", zap.Error(err))
		} else {
			status.PostgreSQL = true
		}
	}
	if m.redis != nil {
		if err := m.redis.Ping(ctx).Err(); err != nil {
			m.logger.Warn("redis health check failed", zap.Error(err))
		} else {
			status.Redis = true
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
