// Package input owns the live text buffer mirroring the host input field.
package input

// Listener receives buffer events. Callbacks run synchronously on the
// caller's goroutine, which for the coordinator is the owning context.
type Listener interface {
	// TextChanged fires after every buffer mutation that leaves text behind
	// or shrinks it.
	TextChanged(buffer string)
	// Cleared fires when the field resets or the session ends. Consumers
	// must treat it as "go to SAFE, cancel everything"; it bypasses debounce.
	Cleared()
}

// Aggregator is the single owner and mutator of the text buffer. It is not
// safe for concurrent use; the owning context serializes all calls.
type Aggregator struct {
	buf       []rune
	listeners []Listener
}

func New() *Aggregator {
	return &Aggregator{}
}

// Subscribe registers a listener. Must be called before events start flowing.
func (a *Aggregator) Subscribe(l Listener) {
	if l != nil {
		a.listeners = append(a.listeners, l)
	}
}

// Buffer returns the current text.
func (a *Aggregator) Buffer() string { return string(a.buf) }

// Len returns the buffer length in runes.
func (a *Aggregator) Len() int { return len(a.buf) }

// CharacterCommitted appends committed text (a key press may commit more than
// one rune) and emits TextChanged.
func (a *Aggregator) CharacterCommitted(s string) {
	if s == "" {
		return
	}
	a.buf = append(a.buf, []rune(s)...)
	a.emitChanged()
}

// Backspace removes the last rune. A backspace on an empty buffer is a no-op
// event-wise.
func (a *Aggregator) Backspace() {
	if len(a.buf) == 0 {
		return
	}
	a.buf = a.buf[:len(a.buf)-1]
	a.emitChanged()
}

// FieldReset empties the buffer because the input field changed or mediation
// was applied, and emits Cleared.
func (a *Aggregator) FieldReset() {
	a.buf = nil
	a.emitCleared()
}

// SessionEnd empties the buffer at the end of the editing session and emits
// Cleared.
func (a *Aggregator) SessionEnd() {
	a.buf = nil
	a.emitCleared()
}

// Sync replaces the buffer with the actual field content after an operation
// that may have changed it externally. Syncing to empty is a clear.
func (a *Aggregator) Sync(s string) {
	if s == "" {
		a.buf = nil
		a.emitCleared()
		return
	}
	a.buf = []rune(s)
	a.emitChanged()
}

func (a *Aggregator) emitChanged() {
	buf := string(a.buf)
	for _, l := range a.listeners {
		l.TextChanged(buf)
	}
}

func (a *Aggregator) emitCleared() {
	for _, l := range a.listeners {
		l.Cleared()
	}
}
