package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// QueueSizer exposes the depth of the edge repair queue.
type QueueSizer interface {
	Size() (int, error)
}

// DeadLetterSizer is implemented by queues that park changes they gave up on.
type DeadLetterSizer interface {
	DeadSize() (int, error)
}

// Monitor polls the aggregate store, the session cache and the repair queue.
// Only the aggregate store decides whether the node is online: repairs are
// replayed against it and nothing else.
type Monitor struct {
	store  Pinger
	redis  Pinger
	queue  QueueSizer
	status Status

	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(store, redis Pinger, queue QueueSizer, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		redis:    redis,
		queue:    queue,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh checks every dependency once and publishes the result.
func (m *Monitor) Refresh() Status {
	queueOK, queueSize := m.checkQueue()
	status := Status{
		Store:           m.check(m.store, 3*time.Second),
		Redis:           m.check(m.redis, 2*time.Second),
		RepairQueue:     queueOK,
		RepairQueueSize: queueSize,
		LastCheck:       time.Now(),
	}
	status.RepairDeadLetters = m.checkDeadLetters()

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if !previous.LastCheck.IsZero() && previous.Store != status.Store {
		m.logger.Warn("aggregate store availability changed", zap.Bool("online", status.Store))
	}
	return status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) check(p Pinger, timeout time.Duration) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.Ping(ctx) == nil
}

func (m *Monitor) checkQueue() (bool, int) {
	if m.queue == nil {
		return false, 0
	}
	size, err := m.queue.Size()
	if err != nil {
		m.logger.Warn("repair queue size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}

func (m *Monitor) checkDeadLetters() int {
	dead, ok := m.queue.(DeadLetterSizer)
	if !ok {
		return 0
	}
	size, err := dead.DeadSize()
	if err != nil {
		m.logger.Warn("repair dead-letter size check failed", zap.Error(err))
		return 0
	}
	if size > 0 {
		m.logger.Warn("edge changes parked in repair dead letters", zap.Int("count", size))
	}
	return size
}
