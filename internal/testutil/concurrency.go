package testutil

import (
	"sync"
	"time"

	"github.com/vk/fndispatch/internal/registry"
)

// ExecutionRecord holds the start and end times of one Sleep call.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether r and other ran at the same time.
func (r *ExecutionRecord) Overlaps(other *ExecutionRecord) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// SleeperModule is a shared, self-contained module for concurrency tests.
// It registers "Sleep", which records when each call ran and how many calls
// were in flight at once.
type SleeperModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
	inFlight       int
	maxInFlight    int
}

// NewSleeperModule creates a new sleeper module for testing.
func NewSleeperModule(sleep time.Duration) *SleeperModule {
	return &SleeperModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
	}
}

// MaxInFlight reports the highest number of overlapping Sleep calls seen.
func (m *SleeperModule) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// OverlappingPairs counts the pairs of recorded calls whose run times
// intersect.
func (m *SleeperModule) OverlappingPairs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]*ExecutionRecord, 0, len(m.ExecutionTimes))
	for _, r := range m.ExecutionTimes {
		records = append(records, r)
	}
	pairs := 0
	for i := range records {
		for j := i + 1; j < len(records); j++ {
			if records[i].Overlaps(records[j]) {
				pairs++
			}
		}
	}
	return pairs
}

// Register registers the "Sleep" function.
func (m *SleeperModule) Register(r *registry.Registry) error {
	return r.Register("Sleep", func(id string) {
		m.mu.Lock()
		m.inFlight++
		m.maxInFlight = max(m.maxInFlight, m.inFlight)
		m.mu.Unlock()

		startTime := time.Now()
		time.Sleep(m.sleepDuration)
		endTime := time.Now()

		m.mu.Lock()
		m.inFlight--
		m.ExecutionTimes[id] = &ExecutionRecord{Start: startTime, End: endTime}
		m.mu.Unlock()
	})
}
