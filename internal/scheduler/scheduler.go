// Package scheduler turns noisy buffer events into at most one in-flight
// mediation request: a single debounce timer with last-scheduled-wins
// semantics, an immediate bypass for trigger points, and monotonic token
// issuance for consumer-side supersession.
package scheduler

import (
	"sync"
	"time"

	"github.com/keycare-ai/keycare/internal/mediation"
)

// Issuer receives each issued request. It is invoked from the debounce
// timer's goroutine (or the caller's for trigger points) and must hand off to
// the owning context itself.
type Issuer func(token mediation.Token, text string, immediate bool)

// Scheduler debounces change notifications into requests. Safe for use from
// the owning context plus its own timer goroutine.
type Scheduler struct {
	delay  time.Duration
	issuer Issuer

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64 // generation of the pending timer; stale firings are ignored
	pending string // buffer captured at the most recent NotifyChanged
	current mediation.Token
	next    mediation.Token
}

func New(delay time.Duration, issuer Issuer) *Scheduler {
	if delay <= 0 {
		delay = 800 * time.Millisecond
	}
	return &Scheduler{delay: delay, issuer: issuer}
}

// Current returns the token a result must carry to be applied.
func (s *Scheduler) Current() mediation.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NotifyChanged restarts the debounce timer. Earlier timers are always
// cancelled; rapid repeated changes collapse to the last scheduled timer only.
func (s *Scheduler) NotifyChanged(buffer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.gen++
	s.pending = buffer

	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(gen)
	})
}

// NotifyTriggerPoint cancels the pending timer and issues immediately. An
// empty buffer falls back to Cleared semantics via CancelAll; the caller is
// expected to reset state itself on Cleared.
func (s *Scheduler) NotifyTriggerPoint(buffer string) {
	s.mu.Lock()
	if buffer == "" {
		s.cancelAllLocked()
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.gen++
	tok := s.issueLocked()
	s.mu.Unlock()

	s.issuer(tok, buffer, true)
}

// CancelAll stops the pending timer and invalidates the current token so any
// in-flight completion is dropped at the consumer boundary.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		// A newer timer or a cancel superseded this firing.
		s.mu.Unlock()
		return
	}
	buffer := s.pending
	if buffer == "" {
		// Empty buffers are handled by Cleared, never by a request.
		s.mu.Unlock()
		return
	}
	tok := s.issueLocked()
	s.mu.Unlock()

	s.issuer(tok, buffer, false)
}

func (s *Scheduler) issueLocked() mediation.Token {
	s.next++
	s.current = s.next
	return s.current
}

func (s *Scheduler) cancelAllLocked() {
	s.stopTimerLocked()
	s.gen++
	s.pending = ""
	// Bump the token without issuing so pending results become stale.
	s.next++
	s.current = s.next
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
