package views

import (
	"sync"

	"github.com/dalemusser/pmhub/internal/domain/models"
)

// Memo caches the whole-tree selectors for the most recent state.
//
// Published states are immutable, so pointer equality is a sound cache key. Only
// one state is kept: the container moves forward and old snapshots are not revisited.
type Memo struct {
	mu       sync.Mutex
	state    *models.AppState
	summary  *SummaryCounts
	workload []Workload
}

// Summary returns Summary(s), computing it at most once per state.
func (m *Memo) Summary(s *models.AppState) SummaryCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset(s)
	if m.summary == nil {
		sum := Summary(s)
		m.summary = &sum
	}
	return *m.summary
}

// WorkloadByUser returns WorkloadByUser(s), computing it at most once per state.
func (m *Memo) WorkloadByUser(s *models.AppState) []Workload {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset(s)
	if m.workload == nil {
		m.workload = WorkloadByUser(s)
	}
	return m.workload
}

func (m *Memo) reset(s *models.AppState) {
	if m.state == s {
		return
	}
	m.state = s
	m.summary = nil
	m.workload = nil
}
