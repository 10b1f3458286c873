package riskstate

import (
	"sync"
	"time"

	"github.com/keycare-ai/keycare/internal/mediation"
)

// Presenter renders the single risk banner. Show and Hide animate; done must
// be called when the animation finishes so the reconciler can mark the banner
// visible/invisible and flush the latest queued transition. HideNow skips
// animation entirely (resets).
type Presenter interface {
	Show(level Level, explanation string, done func())
	Update(level Level, explanation string)
	Hide(done func())
	HideNow()
}

// NopPresenter completes every transition synchronously.
type NopPresenter struct{}

func (NopPresenter) Show(_ Level, _ string, done func()) { done() }
func (NopPresenter) Update(Level, string)                {}
func (NopPresenter) Hide(done func())                    { done() }
func (NopPresenter) HideNow()                            {}

// Reconciler owns the displayed risk state. Its API is called from the
// owning context; the mutex only covers the debounce timer and the
// presenter's animation-completion callbacks, which arrive on other
// goroutines.
type Reconciler struct {
	window    time.Duration
	presenter Presenter
	onChange  func(State)

	mu        sync.Mutex
	state     State
	gen       uint64 // generation of the pending debounced update
	anim      uint64 // generation of animation completions; resets orphan older ones
	timer     *time.Timer
	visible   bool
	animating bool
	want      *State // latest transition requested while animating
}

// New creates a reconciler starting at SAFE. onChange observes every applied
// state; it may be nil.
func New(window time.Duration, presenter Presenter, onChange func(State)) *Reconciler {
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Reconciler{window: window, presenter: presenter, onChange: onChange}
}

// State returns the current display state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Visible reports whether the banner is currently shown (or showing).
func (r *Reconciler) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible || (r.animating && r.state.Level != LevelSafe)
}

// Apply coalesces an intermediate result over the debounce window. If another
// update arrives first, only the latest is applied.
func (r *Reconciler) Apply(res *mediation.Result) {
	st := stateFromResult(res)
	r.mu.Lock()
	r.cancelPendingLocked()
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(r.window, func() {
		r.firePending(gen, st)
	})
	r.mu.Unlock()
}

// ApplyImmediate cancels any pending debounced update and applies the result
// synchronously. Used for confirmed/final results.
func (r *Reconciler) ApplyImmediate(res *mediation.Result) {
	r.mu.Lock()
	r.cancelPendingLocked()
	r.gen++
	r.mu.Unlock()
	r.apply(stateFromResult(res))
}

// ApplyScore is the debounced numeric-score variant.
func (r *Reconciler) ApplyScore(label string, score float64, explanation string) {
	st := State{Level: LevelFromScore(label, score), Score: score, Explanation: explanation}
	r.mu.Lock()
	r.cancelPendingLocked()
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(r.window, func() {
		r.firePending(gen, st)
	})
	r.mu.Unlock()
}

// Reset forces SAFE immediately: cancels any pending update and hides any
// visible indicator without animation. Safe always wins immediately.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	r.cancelPendingLocked()
	r.gen++
	// An animation may still be in flight; invalidate its completion so it
	// cannot re-mark the banner visible after HideNow.
	r.anim++
	r.state = State{Level: LevelSafe, Score: 0}
	r.visible = false
	r.animating = false
	r.want = nil
	cb := r.onChange
	st := r.state
	r.mu.Unlock()

	r.presenter.HideNow()
	if cb != nil {
		cb(st)
	}
}

func (r *Reconciler) firePending(gen uint64, st State) {
	r.mu.Lock()
	if gen != r.gen {
		// A newer update or a reset superseded this one.
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.apply(st)
}

// apply installs the state and drives the banner. Presenter calls happen
// outside the lock so synchronous presenters cannot deadlock the reconciler.
func (r *Reconciler) apply(st State) {
	r.mu.Lock()
	r.state = st
	cb := r.onChange
	act := r.transitionLocked(st)
	r.mu.Unlock()

	if cb != nil {
		cb(st)
	}
	if act != nil {
		act()
	}
}

// transitionLocked decides the banner action for the new state. While an
// animation is in flight the request is queued, latest wins, so show/hide
// never overlap and exactly one banner instance exists.
func (r *Reconciler) transitionLocked(st State) func() {
	if r.animating {
		queued := st
		r.want = &queued
		return nil
	}

	if st.Level == LevelSafe {
		if !r.visible {
			return nil
		}
		r.animating = true
		anim := r.anim
		return func() {
			r.presenter.Hide(func() { r.hideDone(anim) })
		}
	}

	level, why := st.Level, st.Explanation
	if r.visible {
		return func() {
			r.presenter.Update(level, why)
		}
	}
	r.animating = true
	anim := r.anim
	return func() {
		r.presenter.Show(level, why, func() { r.showDone(anim) })
	}
}

func (r *Reconciler) showDone(anim uint64) {
	r.mu.Lock()
	if anim != r.anim {
		// A reset already hid the banner; this completion is stale.
		r.mu.Unlock()
		return
	}
	r.animating = false
	r.visible = true
	act := r.flushWantLocked()
	r.mu.Unlock()
	if act != nil {
		act()
	}
}

func (r *Reconciler) hideDone(anim uint64) {
	r.mu.Lock()
	if anim != r.anim {
		r.mu.Unlock()
		return
	}
	r.animating = false
	r.visible = false
	act := r.flushWantLocked()
	r.mu.Unlock()
	if act != nil {
		act()
	}
}

func (r *Reconciler) flushWantLocked() func() {
	if r.want == nil {
		return nil
	}
	st := *r.want
	r.want = nil
	return r.transitionLocked(st)
}

func (r *Reconciler) cancelPendingLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func stateFromResult(res *mediation.Result) State {
	if res == nil {
		return State{Level: LevelSafe, Score: 0}
	}
	return State{
		Level:       LevelFromRisk(res.RiskLevel),
		Score:       res.RiskLevel.Score(),
		Explanation: res.Why,
	}
}
