package health

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeChecker struct {
	mu     sync.Mutex
	online bool
}

func (f *fakeChecker) CheckHealth(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *fakeChecker) set(online bool) {
	f.mu.Lock()
	f.online = online
	f.mu.Unlock()
}

func waitStatus(t *testing.T, ch <-chan Status, want Status) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("status = %s, want %s", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no status change, wanted %s", want)
	}
}

func TestMonitorNotifiesOnChangeOnly(t *testing.T) {
	checker := &fakeChecker{online: true}
	changes := make(chan Status, 16)
	m := NewMonitor(checker, 10*time.Millisecond, func(s Status) { changes <- s })

	if m.Status() != StatusChecking {
		t.Fatalf("initial status must be checking, got %s", m.Status())
	}

	m.Start()
	defer m.Stop()

	// First probe resolves checking -> online.
	waitStatus(t, changes, StatusOnline)

	// Several ticks with an unchanged answer: no further notifications.
	time.Sleep(50 * time.Millisecond)
	select {
	case s := <-changes:
		t.Fatalf("unexpected notification %s", s)
	default:
	}

	checker.set(false)
	waitStatus(t, changes, StatusOffline)
	if m.Online() {
		t.Fatalf("monitor still reports online")
	}

	checker.set(true)
	waitStatus(t, changes, StatusOnline)
}

func TestMonitorStartStopIdempotent(t *testing.T) {
	m := NewMonitor(&fakeChecker{online: true}, 10*time.Millisecond, nil)

	m.Start()
	m.Start()
	m.Stop()
	m.Stop()
	// Stop without a prior Start must not block either.
	m2 := NewMonitor(&fakeChecker{}, time.Second, nil)
	m2.Stop()
}

func TestCheckNow(t *testing.T) {
	checker := &fakeChecker{online: true}
	m := NewMonitor(checker, time.Hour, nil)

	if got := m.CheckNow(context.Background()); got != StatusOnline {
		t.Fatalf("CheckNow = %s", got)
	}
	checker.set(false)
	if got := m.CheckNow(context.Background()); got != StatusOffline {
		t.Fatalf("CheckNow = %s", got)
	}
}
