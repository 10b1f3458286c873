package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/keycare-ai/keycare/internal/mediation"
)

type issueRecorder struct {
	mu     sync.Mutex
	issued []issued
	ch     chan issued
}

type issued struct {
	token     mediation.Token
	text      string
	immediate bool
}

func newIssueRecorder() *issueRecorder {
	return &issueRecorder{ch: make(chan issued, 16)}
}

func (r *issueRecorder) issue(token mediation.Token, text string, immediate bool) {
	r.mu.Lock()
	rec := issued{token: token, text: text, immediate: immediate}
	r.issued = append(r.issued, rec)
	r.mu.Unlock()
	r.ch <- rec
}

func (r *issueRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.issued)
}

func (r *issueRecorder) wait(t *testing.T) issued {
	t.Helper()
	select {
	case rec := <-r.ch:
		return rec
	case <-time.After(2 * time.Second):
		t.Fatalf("no request issued")
		return issued{}
	}
}

func TestDebounceCoalescesToLastBuffer(t *testing.T) {
	rec := newIssueRecorder()
	s := New(30*time.Millisecond, rec.issue)

	s.NotifyChanged("h")
	s.NotifyChanged("he")
	s.NotifyChanged("hel")
	s.NotifyChanged("hello")

	got := rec.wait(t)
	if got.text != "hello" {
		t.Fatalf("expected last buffer, got %q", got.text)
	}
	if got.immediate {
		t.Fatalf("debounce expiry must not be immediate")
	}
	if got.token != s.Current() {
		t.Fatalf("issued token %d is not current %d", got.token, s.Current())
	}

	// The earlier timers must never fire.
	time.Sleep(80 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Fatalf("expected exactly 1 request, got %d", n)
	}
}

func TestTriggerPointIssuesImmediately(t *testing.T) {
	rec := newIssueRecorder()
	s := New(time.Hour, rec.issue) // debounce would never fire on its own

	s.NotifyChanged("on my way")
	s.NotifyTriggerPoint("on my way ")

	got := rec.wait(t)
	if !got.immediate {
		t.Fatalf("trigger point must issue immediately")
	}
	if got.text != "on my way " {
		t.Fatalf("unexpected text %q", got.text)
	}
}

func TestTokensAreMonotonic(t *testing.T) {
	rec := newIssueRecorder()
	s := New(time.Hour, rec.issue)

	s.NotifyTriggerPoint("a ")
	first := rec.wait(t)
	s.NotifyTriggerPoint("a b ")
	second := rec.wait(t)

	if second.token <= first.token {
		t.Fatalf("tokens not monotonic: %d then %d", first.token, second.token)
	}
	if s.Current() != second.token {
		t.Fatalf("current token must be the latest issued")
	}
}

func TestEmptyBufferNeverIssues(t *testing.T) {
	rec := newIssueRecorder()
	s := New(20*time.Millisecond, rec.issue)

	s.NotifyChanged("")
	s.NotifyTriggerPoint("")

	time.Sleep(60 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Fatalf("expected no requests for empty buffer, got %d", n)
	}
}

func TestCancelAllStopsTimerAndInvalidatesToken(t *testing.T) {
	rec := newIssueRecorder()
	s := New(30*time.Millisecond, rec.issue)

	s.NotifyTriggerPoint("hello ")
	inflight := rec.wait(t)

	s.NotifyChanged("hello again")
	s.CancelAll()

	time.Sleep(80 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Fatalf("cancelled timer still fired, %d requests", n)
	}
	// The in-flight token is stale now, so its completion would be dropped.
	if s.Current() == inflight.token {
		t.Fatalf("cancel must invalidate the current token")
	}
}

func TestStaleTimerCannotFireAfterNewerSchedule(t *testing.T) {
	rec := newIssueRecorder()
	s := New(25*time.Millisecond, rec.issue)

	s.NotifyChanged("first")
	time.Sleep(10 * time.Millisecond)
	s.NotifyChanged("second")

	got := rec.wait(t)
	if got.text != "second" {
		t.Fatalf("stale timer fired with %q", got.text)
	}
	time.Sleep(60 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
}
