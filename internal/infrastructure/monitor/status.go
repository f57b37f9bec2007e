// Package monitor tracks the dependencies the social service needs to accept
// writes and replay edge repairs: the aggregate store, the session cache and the
// repair queue with its dead letters.
package monitor

import "time"

// Status is the last observed health of the service dependencies, served by /health.
type Status struct {
	Store             bool      `json:"store"`
	Redis             bool      `json:"redis"`
	RepairQueue       bool      `json:"repair_queue"`
	RepairQueueSize   int       `json:"repair_queue_size"`
	RepairDeadLetters int       `json:"repair_dead_letters"`
	LastCheck         time.Time `json:"last_check"`
}

// Ready reports whether both the aggregate store and the session cache answer.
func (s Status) Ready() bool {
	return s.Store && s.Redis
}

// Degraded reports whether edge changes are waiting for repair or parked for an operator.
func (s Status) Degraded() bool {
	return s.RepairQueueSize > 0 || s.RepairDeadLetters > 0
}
