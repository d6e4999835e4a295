package cache

import (
	"net"
	"sync"
	"time"
)

// ConnectivityMonitor exposes current network reachability as a boolean.
// A monitor that cannot determine status must report online, so that
// read-through behavior degrades only on an actual fetch failure.
type ConnectivityMonitor interface {
	IsOnline() bool
}

// ForcedMonitor always reports a fixed status. Used for deterministic
// tests and for deployments where the probe is disabled by config.
type ForcedMonitor struct {
	Online bool
}

func (m ForcedMonitor) IsOnline() bool {
	return m.Online
}

// ProbeMonitor determines reachability by dialing a TCP address. Results
// are cached for a short interval so hot read paths do not dial on every
// fetch.
type ProbeMonitor struct {
	addr     string
	timeout  time.Duration
	interval time.Duration

	mu         sync.Mutex
	lastCheck  time.Time
	lastOnline bool
}

// NewProbeMonitor creates a monitor probing addr ("host:port"). An empty
// addr yields a monitor that always reports online.
func NewProbeMonitor(addr string, timeout, interval time.Duration) *ProbeMonitor {
	return &ProbeMonitor{
		addr:       addr,
		timeout:    timeout,
		interval:   interval,
		lastOnline: true,
	}
}

func (m *ProbeMonitor) IsOnline() bool {
	if m.addr == "" {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lastCheck.IsZero() && time.Since(m.lastCheck) < m.interval {
		return m.lastOnline
	}

	conn, err := net.DialTimeout("tcp", m.addr, m.timeout)
	if err == nil {
		conn.Close()
	}

	m.lastCheck = time.Now()
	m.lastOnline = err == nil
	return m.lastOnline
}
