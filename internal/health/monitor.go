// Package health polls the mediation service's /health endpoint in the
// background so the UI can tell the user when suggestions will be local-only.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/keycare-ai/keycare/internal/redact"
)

// Status of the remote service.
type Status int

const (
	StatusChecking Status = iota // no probe has completed yet
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "checking"
	}
}

// Checker is the probe. The mediation client satisfies it.
type Checker interface {
	CheckHealth(ctx context.Context) bool
}

// Monitor runs a periodic health probe and notifies a listener on changes
// only. Start and Stop are idempotent.
type Monitor struct {
	checker  Checker
	interval time.Duration
	listener func(Status)

	mu      sync.Mutex
	status  Status
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewMonitor(checker Checker, interval time.Duration, listener func(Status)) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		listener: listener,
		status:   StatusChecking,
	}
}

// Status returns the last observed status.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Online reports whether the service answered its last probe.
func (m *Monitor) Online() bool {
	return m.Status() == StatusOnline
}

// Start launches the probe loop. The first check runs immediately.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.loop(ctx)
}

// Stop halts the probe loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done
}

// CheckNow forces an immediate probe outside the periodic schedule.
func (m *Monitor) CheckNow(ctx context.Context) Status {
	return m.probe(ctx)
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) Status {
	online := m.checker.CheckHealth(ctx)
	if ctx.Err() != nil {
		return m.Status()
	}

	next := StatusOffline
	if online {
		next = StatusOnline
	}

	m.mu.Lock()
	changed := next != m.status
	m.status = next
	listener := m.listener
	m.mu.Unlock()

	if changed {
		redact.Logf("mediation service status changed: %s", next)
		if listener != nil {
			listener(next)
		}
	}
	return next
}
