package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedQueue struct {
	size int
	err  error
}

func (q fixedQueue) Size() (int, error) { return q.size, q.err }

type parkingQueue struct {
	fixedQueue
	dead int
}

func (q parkingQueue) DeadSize() (int, error) { return q.dead, nil }

func healthy(context.Context) error { return nil }

func down(context.Context) error { return errors.New("connection refused") }

func TestRefreshReportsEachDependency(t *testing.T) {
	m := New(PingFunc(healthy), PingFunc(down), fixedQueue{size: 3}, 0, nil)
	assert.False(t, m.IsOnline())

	status := m.Refresh()
	assert.True(t, status.Store)
	assert.False(t, status.Redis)
	assert.True(t, status.RepairQueue)
	assert.Equal(t, 3, status.RepairQueueSize)
	assert.False(t, status.LastCheck.IsZero())

	assert.True(t, m.IsOnline(), "redis outage does not take the node offline")
	assert.Equal(t, status, m.GetStatus())
}

func TestRefreshCountsDeadLetters(t *testing.T) {
	m := New(PingFunc(healthy), PingFunc(healthy), parkingQueue{fixedQueue: fixedQueue{size: 1}, dead: 2}, 0, nil)

	status := m.Refresh()
	assert.Equal(t, 1, status.RepairQueueSize)
	assert.Equal(t, 2, status.RepairDeadLetters)
	assert.True(t, status.Ready())
	assert.True(t, status.Degraded())
}

func TestStoreOutageTakesNodeOffline(t *testing.T) {
	m := New(PingFunc(down), PingFunc(healthy), fixedQueue{err: errors.New("closed")}, 0, nil)

	status := m.Refresh()
	assert.False(t, status.Store)
	assert.False(t, status.RepairQueue)
	assert.False(t, m.IsOnline())
}

func TestMissingDependenciesAreUnhealthy(t *testing.T) {
	m := New(nil, nil, nil, 0, nil)
	status := m.Refresh()
	assert.Equal(t, Status{LastCheck: status.LastCheck}, status)

	m.Start()
	m.Stop()
	m.Stop()
}
