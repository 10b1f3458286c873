package riskstate

import (
	"sync"
	"testing"
	"time"

	"github.com/keycare-ai/keycare/internal/mediation"
)

// recordingPresenter logs presenter calls and completes animations on demand.
type recordingPresenter struct {
	mu      sync.Mutex
	calls   []string
	done    []func() // pending animation completions, oldest first
	instant bool     // complete animations synchronously
}

func (p *recordingPresenter) Show(level Level, explanation string, done func()) {
	p.mu.Lock()
	p.calls = append(p.calls, "show:"+level.String())
	if p.instant {
		p.mu.Unlock()
		done()
		return
	}
	p.done = append(p.done, done)
	p.mu.Unlock()
}

func (p *recordingPresenter) Update(level Level, explanation string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "update:"+level.String())
}

func (p *recordingPresenter) Hide(done func()) {
	p.mu.Lock()
	p.calls = append(p.calls, "hide")
	if p.instant {
		p.mu.Unlock()
		done()
		return
	}
	p.done = append(p.done, done)
	p.mu.Unlock()
}

func (p *recordingPresenter) HideNow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "hidenow")
}

func (p *recordingPresenter) log() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *recordingPresenter) finishOne(t *testing.T) {
	p.mu.Lock()
	if len(p.done) == 0 {
		p.mu.Unlock()
		t.Fatalf("no animation in flight")
	}
	done := p.done[0]
	p.done = p.done[1:]
	p.mu.Unlock()
	done()
}

func harmful(why string) *mediation.Result {
	return &mediation.Result{RiskLevel: mediation.RiskHarmful, Why: why}
}

func dangerous(why string) *mediation.Result {
	return &mediation.Result{RiskLevel: mediation.RiskDangerous, Why: why}
}

func safe() *mediation.Result {
	return &mediation.Result{RiskLevel: mediation.RiskSafe}
}

func TestLevelMapping(t *testing.T) {
	if LevelFromRisk(mediation.RiskDangerous) != LevelDanger ||
		LevelFromRisk(mediation.RiskHarmful) != LevelRisky ||
		LevelFromRisk(mediation.RiskSafe) != LevelSafe {
		t.Fatalf("verdict mapping broken")
	}
}

func TestLevelFromScore(t *testing.T) {
	cases := []struct {
		label string
		score float64
		want  Level
	}{
		{"SAFE", 0.95, LevelSafe}, // safe label always wins
		{"safe", 0.2, LevelSafe},
		{"harmful", 0.69, LevelRisky},
		{"harmful", 0.7, LevelDanger},
		{"dangerous", 0.9, LevelDanger},
		{"dangerous", 0.3, LevelRisky},
	}
	for _, tc := range cases {
		if got := LevelFromScore(tc.label, tc.score); got != tc.want {
			t.Fatalf("LevelFromScore(%q, %v) = %s, want %s", tc.label, tc.score, got, tc.want)
		}
	}
}

func TestApplyImmediateShowsBanner(t *testing.T) {
	p := &recordingPresenter{instant: true}
	r := New(time.Hour, p, nil)

	r.ApplyImmediate(harmful("insult"))

	if st := r.State(); st.Level != LevelRisky || st.Explanation != "insult" {
		t.Fatalf("unexpected state %+v", st)
	}
	if !r.Visible() {
		t.Fatalf("banner should be visible")
	}
	log := p.log()
	if len(log) != 1 || log[0] != "show:RISKY" {
		t.Fatalf("unexpected presenter calls %v", log)
	}
}

func TestIdenticalResultUpdatesInsteadOfReshowing(t *testing.T) {
	p := &recordingPresenter{instant: true}
	r := New(time.Hour, p, nil)

	r.ApplyImmediate(harmful("insult"))
	r.ApplyImmediate(harmful("insult"))
	r.ApplyImmediate(dangerous("threat"))

	log := p.log()
	want := []string{"show:RISKY", "update:RISKY", "update:DANGER"}
	if len(log) != len(want) {
		t.Fatalf("unexpected presenter calls %v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("call %d = %s, want %s (full log %v)", i, log[i], want[i], log)
		}
	}
}

func TestDebouncedApplyLatestWins(t *testing.T) {
	p := &recordingPresenter{instant: true}
	var mu sync.Mutex
	var applied []Level
	r := New(30*time.Millisecond, p, func(st State) {
		mu.Lock()
		applied = append(applied, st.Level)
		mu.Unlock()
	})

	r.Apply(harmful("first"))
	r.Apply(dangerous("second"))

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != LevelDanger {
		t.Fatalf("expected only the latest update, got %v", applied)
	}
	if st := r.State(); st.Explanation != "second" {
		t.Fatalf("stale update applied: %+v", st)
	}
}

func TestApplyScoreDebounced(t *testing.T) {
	p := &recordingPresenter{instant: true}
	r := New(20*time.Millisecond, p, nil)

	r.ApplyScore("harmful", 0.8, "score path")

	time.Sleep(60 * time.Millisecond)
	st := r.State()
	if st.Level != LevelDanger || st.Score != 0.8 || st.Explanation != "score path" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestApplyImmediateCancelsPendingDebounce(t *testing.T) {
	p := &recordingPresenter{instant: true}
	r := New(30*time.Millisecond, p, nil)

	r.Apply(harmful("debounced"))
	r.ApplyImmediate(dangerous("final"))

	time.Sleep(80 * time.Millisecond)
	if st := r.State(); st.Level != LevelDanger || st.Explanation != "final" {
		t.Fatalf("pending debounce overwrote the immediate result: %+v", st)
	}
}

func TestSafeHidesBanner(t *testing.T) {
	p := &recordingPresenter{instant: true}
	r := New(time.Hour, p, nil)

	r.ApplyImmediate(harmful("insult"))
	r.ApplyImmediate(safe())

	if r.Visible() {
		t.Fatalf("banner should be hidden on safe")
	}
	log := p.log()
	if log[len(log)-1] != "hide" {
		t.Fatalf("expected hide, got %v", log)
	}
}

func TestSafeWhileHiddenDoesNothing(t *testing.T) {
	p := &recordingPresenter{instant: true}
	r := New(time.Hour, p, nil)

	r.ApplyImmediate(safe())
	if log := p.log(); len(log) != 0 {
		t.Fatalf("no banner expected, got %v", log)
	}
}

func TestTransitionsQueueWhileAnimatingLatestWins(t *testing.T) {
	p := &recordingPresenter{}
	r := New(time.Hour, p, nil)

	r.ApplyImmediate(harmful("first"))   // show starts, animation held open
	r.ApplyImmediate(safe())             // queued
	r.ApplyImmediate(dangerous("third")) // replaces the queued safe

	p.finishOne(t) // show animation completes, queued transition flushes

	log := p.log()
	want := []string{"show:RISKY", "update:DANGER"}
	if len(log) != len(want) || log[0] != want[0] || log[1] != want[1] {
		t.Fatalf("unexpected presenter calls %v, want %v", log, want)
	}
	if !r.Visible() {
		t.Fatalf("banner should remain visible")
	}
}

func TestHideWaitsForExitAnimation(t *testing.T) {
	p := &recordingPresenter{}
	r := New(time.Hour, p, nil)

	r.ApplyImmediate(harmful("x"))
	p.finishOne(t) // show done
	r.ApplyImmediate(safe())

	// Exit animation in flight: still counts as visible.
	if !r.Visible() {
		t.Fatalf("banner must stay visible until hide completes")
	}
	p.finishOne(t)
	if r.Visible() {
		t.Fatalf("banner must be hidden after exit animation")
	}
}

func TestResetWhileShowAnimatingStaysHidden(t *testing.T) {
	p := &recordingPresenter{}
	r := New(time.Hour, p, nil)

	r.ApplyImmediate(harmful("insult")) // show starts, animation held open
	r.Reset()

	// The show animation finishes after the reset already hid the banner. Its
	// completion must not resurrect visibility.
	p.finishOne(t)
	if r.Visible() {
		t.Fatalf("banner marked visible after reset")
	}

	// The next non-safe result finds a hidden banner and must Show, not Update.
	r.ApplyImmediate(harmful("again"))
	log := p.log()
	want := []string{"show:RISKY", "hidenow", "show:RISKY"}
	if len(log) != len(want) {
		t.Fatalf("unexpected presenter calls %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("call %d = %s, want %s (full log %v)", i, log[i], want[i], log)
		}
	}
}

func TestResetForcesSafeWithoutAnimation(t *testing.T) {
	p := &recordingPresenter{instant: true}
	var mu sync.Mutex
	var applied []Level
	r := New(30*time.Millisecond, p, func(st State) {
		mu.Lock()
		applied = append(applied, st.Level)
		mu.Unlock()
	})

	r.ApplyImmediate(dangerous("threat"))
	r.Apply(harmful("pending"))
	r.Reset()

	time.Sleep(80 * time.Millisecond)

	if st := r.State(); st.Level != LevelSafe {
		t.Fatalf("reset did not go safe: %+v", st)
	}
	if r.Visible() {
		t.Fatalf("reset must hide the banner")
	}
	log := p.log()
	if log[len(log)-1] != "hidenow" {
		t.Fatalf("reset must hide without animation, got %v", log)
	}
	// The pending debounced update must never fire after the reset.
	mu.Lock()
	defer mu.Unlock()
	if applied[len(applied)-1] != LevelSafe {
		t.Fatalf("stale update applied after reset: %v", applied)
	}
}
