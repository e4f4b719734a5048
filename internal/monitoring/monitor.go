package monitoring

import (
	"sync"
	"time"
)

// EngineStats summarizes the requests one engine has served
type EngineStats struct {
	Served       int       `json:"served"`
	Failed       int       `json:"failed"`
	AvgLatencyMS float64   `json:"avg_latency_ms"`
	LastServed   time.Time `json:"last_served"`

	totalLatency time.Duration
}

// Snapshot is a point-in-time copy of the monitor
type Snapshot struct {
	UptimeSeconds float64                `json:"uptime_seconds"`
	Engines       map[string]EngineStats `json:"engines"`
}

// Monitor keeps in-process request statistics for the chat service
type Monitor struct {
	mu        sync.RWMutex
	engines   map[string]*EngineStats
	startTime time.Time
	now       func() time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		engines:   make(map[string]*EngineStats),
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Record adds one request served by engine
func (m *Monitor) Record(engine string, ok bool, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, exists := m.engines[engine]
	if !exists {
		stats = &EngineStats{}
		m.engines[engine] = stats
	}
	if !ok {
		stats.Failed++
		return
	}
	stats.Served++
	stats.totalLatency += elapsed
	stats.AvgLatencyMS = float64(stats.totalLatency.Microseconds()) / 1000 / float64(stats.Served)
	stats.LastServed = m.now()
}

// Snapshot returns the current statistics
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	engines := make(map[string]EngineStats, len(m.engines))
	for name, stats := range m.engines {
		engines[name] = *stats
	}
	return Snapshot{
		UptimeSeconds: m.now().Sub(m.startTime).Seconds(),
		Engines:       engines,
	}
}

// Reset clears all statistics
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engines = make(map[string]*EngineStats)
}
