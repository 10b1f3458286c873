// Package coordinator wires the input aggregator, request scheduler, mediation
// client, fallback generator and risk reconciler together on a single owning
// goroutine. All buffer and state mutation happens inside the event loop;
// network completions are marshalled back into it as messages, which is what
// makes the token supersession check race-free.
package coordinator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/keycare-ai/keycare/internal/config"
	"github.com/keycare-ai/keycare/internal/events"
	"github.com/keycare-ai/keycare/internal/fallback"
	"github.com/keycare-ai/keycare/internal/health"
	"github.com/keycare-ai/keycare/internal/input"
	"github.com/keycare-ai/keycare/internal/mediation"
	"github.com/keycare-ai/keycare/internal/redact"
	"github.com/keycare-ai/keycare/internal/riskstate"
	"github.com/keycare-ai/keycare/internal/scheduler"
	"github.com/keycare-ai/keycare/internal/telemetry"
)

// OfflineNotice accompanies locally generated suggestions so the host can tell
// the user the remote service did not answer.
const OfflineNotice = "offline suggestions"

// MediationAPI is the remote surface the coordinator depends on. The real
// client satisfies it; tests substitute fakes.
type MediationAPI interface {
	Mediate(ctx context.Context, req mediation.Request) (*mediation.Result, error)
	Rewrite(ctx context.Context, req mediation.RewriteRequest) ([]mediation.Suggestion, error)
	CheckHealth(ctx context.Context) bool
}

// Listener receives coordinator outcomes. Callbacks run on the owning
// goroutine; implementations must not call back into the coordinator
// synchronously and must hand off anything slow.
type Listener interface {
	RiskChanged(st riskstate.State)
	SuggestionsReady(sugs []mediation.Suggestion, source, notice string)
	HealthChanged(st health.Status)
}

// Deps collects the coordinator's collaborators. Emitter and Telemetry may be
// nil; Presenter defaults to the no-op presenter.
type Deps struct {
	API       MediationAPI
	Presenter riskstate.Presenter
	Listener  Listener
	Emitter   *events.Emitter
	Telemetry *telemetry.Provider
}

type msg interface{ isMsg() }

type charMsg struct{ text string }
type backspaceMsg struct{}
type fieldResetMsg struct{}
type sessionEndMsg struct{}
type syncMsg struct{ text string }
type rewriteMsg struct{ tone string }
type healthMsg struct{ status health.Status }

// issueMsg hands a scheduler-issued request to the loop, which owns launching
// the network call.
type issueMsg struct {
	token     mediation.Token
	text      string
	immediate bool
}

type resultMsg struct {
	token     mediation.Token
	text      string // buffer the request actually mediated
	immediate bool
	started   time.Time
	res       *mediation.Result
	err       error
}

type rewriteResultMsg struct {
	seq     uint64
	tone    string
	text    string
	lang    string
	started time.Time
	sugs    []mediation.Suggestion
	err     error
}

func (charMsg) isMsg()          {}
func (backspaceMsg) isMsg()     {}
func (fieldResetMsg) isMsg()    {}
func (sessionEndMsg) isMsg()    {}
func (syncMsg) isMsg()          {}
func (rewriteMsg) isMsg()       {}
func (healthMsg) isMsg()        {}
func (issueMsg) isMsg()         {}
func (resultMsg) isMsg()        {}
func (rewriteResultMsg) isMsg() {}

// Coordinator owns the mediation session for one input field.
type Coordinator struct {
	cfg  *config.Config
	deps Deps

	agg     *input.Aggregator
	sched   *scheduler.Scheduler
	recon   *riskstate.Reconciler
	gen     *fallback.Generator
	monitor *health.Monitor

	msgs chan msg
	root context.Context
	stop context.CancelFunc
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once

	// Loop-owned state. Touched only by run().
	trigger        bool // next TextChanged came from a trigger-point commit
	lastResult     *mediation.Result
	lastText       string
	inflightCancel context.CancelFunc
	rewriteSeq     uint64
	rewriteCancel  context.CancelFunc
}

// New assembles a coordinator. Start must be called before events flow.
func New(cfg *config.Config, deps Deps) *Coordinator {
	if deps.Presenter == nil {
		deps.Presenter = riskstate.NopPresenter{}
	}

	c := &Coordinator{
		cfg:  cfg,
		deps: deps,
		agg:  input.New(),
		gen:  fallback.NewGenerator(),
		msgs: make(chan msg, 128),
		done: make(chan struct{}),
	}

	c.recon = riskstate.New(cfg.UI.UpdateDebounce(), deps.Presenter, c.riskChanged)
	c.sched = scheduler.New(cfg.Mediation.DebounceDelay(), c.issue)
	c.monitor = health.NewMonitor(deps.API, cfg.API.HealthCheckInterval(), c.healthChanged)
	c.agg.Subscribe(c)

	return c
}

// Start launches the event loop and the health monitor.
func (c *Coordinator) Start() {
	c.startOnce.Do(func() {
		c.root, c.stop = context.WithCancel(context.Background())
		go c.run()
		c.monitor.Start()
	})
}

// Stop cancels in-flight work and terminates the loop. Idempotent; safe to
// call without Start (it then only marks the coordinator unusable).
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		c.monitor.Stop()
		c.sched.CancelAll()
		if c.stop != nil {
			c.stop()
			<-c.done
		}
	})
}

// State returns the currently displayed risk state.
func (c *Coordinator) State() riskstate.State { return c.recon.State() }

// Health returns the last observed service status.
func (c *Coordinator) Health() health.Status { return c.monitor.Status() }

// Host-facing input surface. Each call marshals onto the owning goroutine.

func (c *Coordinator) Type(s string)           { c.send(charMsg{text: s}) }
func (c *Coordinator) Backspace()              { c.send(backspaceMsg{}) }
func (c *Coordinator) FieldReset()             { c.send(fieldResetMsg{}) }
func (c *Coordinator) SessionEnd()             { c.send(sessionEndMsg{}) }
func (c *Coordinator) SyncField(s string)      { c.send(syncMsg{text: s}) }
func (c *Coordinator) RequestRewrite(t string) { c.send(rewriteMsg{tone: t}) }

func (c *Coordinator) send(m msg) {
	if c.root == nil {
		return
	}
	select {
	case c.msgs <- m:
	case <-c.root.Done():
	}
}

func (c *Coordinator) run() {
	defer close(c.done)
	for {
		select {
		case <-c.root.Done():
			c.cancelInflight()
			c.cancelRewrite()
			return
		case m := <-c.msgs:
			c.handle(m)
		}
	}
}

func (c *Coordinator) handle(m msg) {
	switch m := m.(type) {
	case charMsg:
		c.trigger = endsAtTriggerPoint(m.text)
		c.agg.CharacterCommitted(m.text)
	case backspaceMsg:
		c.trigger = false
		c.agg.Backspace()
	case fieldResetMsg:
		c.agg.FieldReset()
	case sessionEndMsg:
		c.agg.SessionEnd()
	case syncMsg:
		c.trigger = false
		c.agg.Sync(m.text)
	case issueMsg:
		c.launchMediate(m)
	case resultMsg:
		c.applyResult(m)
	case rewriteMsg:
		c.startRewrite(m.tone)
	case rewriteResultMsg:
		c.applyRewriteResult(m)
	case healthMsg:
		if c.deps.Listener != nil {
			c.deps.Listener.HealthChanged(m.status)
		}
	}
}

// TextChanged implements input.Listener on the owning goroutine.
func (c *Coordinator) TextChanged(buffer string) {
	if buffer == "" {
		// Backspacing down to nothing must not leave the last verdict on
		// screen; an empty field is always SAFE.
		c.trigger = false
		c.Cleared()
		return
	}
	if c.trigger {
		c.trigger = false
		c.sched.NotifyTriggerPoint(buffer)
		return
	}
	c.sched.NotifyChanged(buffer)
}

// Cleared implements input.Listener: cancel everything, go SAFE immediately.
func (c *Coordinator) Cleared() {
	c.sched.CancelAll()
	c.cancelInflight()
	c.cancelRewrite()
	c.rewriteSeq++ // any in-flight rewrite completion is now stale
	c.lastResult = nil
	c.lastText = ""
	c.gen.ClearHistory()
	c.recon.Reset()

	ev := events.NewEvent(events.KindReset)
	c.emit(ev)
}

// issue is the scheduler's callback. It may run on the debounce timer's
// goroutine, so it only enqueues; the loop launches the call.
func (c *Coordinator) issue(token mediation.Token, text string, immediate bool) {
	c.send(issueMsg{token: token, text: text, immediate: immediate})
}

func (c *Coordinator) launchMediate(m issueMsg) {
	// A newer request may already have been issued while this message sat in
	// the queue; skip the doomed call outright.
	if m.token != c.sched.Current() {
		return
	}

	c.cancelInflight()
	ctx, cancel := context.WithCancel(c.root)
	c.inflightCancel = cancel

	req := mediation.Request{
		Text:     m.text,
		Tone:     c.cfg.Mediation.Tone,
		LangHint: c.cfg.Mediation.LangHint,
	}
	started := time.Now()

	go func() {
		res, err := c.deps.API.Mediate(ctx, req)
		c.send(resultMsg{token: m.token, text: m.text, immediate: m.immediate, started: started, res: res, err: err})
	}()
}

func (c *Coordinator) applyResult(m resultMsg) {
	latency := time.Since(m.started)

	if mediation.IsCancelled(m.err) {
		// Fully silent by the supersession rule.
		return
	}

	if m.token != c.sched.Current() {
		redact.Logf("dropping superseded result token=%d", m.token)
		c.recordMediation(events.OutcomeSuperseded, m.res, m.err, latency)
		return
	}

	if m.err != nil {
		// The last-known state stays untouched; a failure never regresses or
		// clears what the user already sees.
		redact.Logf("mediation failed, keeping last state: %v", m.err)
		c.recordMediation(events.OutcomeFailed, nil, m.err, latency)
		return
	}

	c.lastResult = m.res
	c.lastText = m.text
	if m.immediate {
		c.recon.ApplyImmediate(m.res)
	} else {
		c.recon.Apply(m.res)
	}
	c.recordMediation(events.OutcomeApplied, m.res, nil, latency)
}

func (c *Coordinator) startRewrite(tone string) {
	if tone == "" {
		tone = c.cfg.Mediation.Tone
	}
	text := c.agg.Buffer()
	if text == "" {
		return
	}

	// A still-valid remote rewrite answers without another round trip.
	if c.lastResult.HasRewrite() && c.lastText == text {
		c.deliver([]mediation.Suggestion{{
			Text:   c.lastResult.Rewrite,
			Reason: "Suggested rephrasing",
			Source: "remote",
		}}, "remote", "")
		return
	}

	c.cancelRewrite()
	ctx, cancel := context.WithCancel(c.root)
	c.rewriteCancel = cancel
	c.rewriteSeq++
	seq := c.rewriteSeq
	lang := c.rewriteLang()

	req := mediation.RewriteRequest{
		Text:      text,
		Lang:      lang,
		Tone:      tone,
		RiskLabel: c.riskLabel(),
		RiskScore: c.riskScore(),
	}
	started := time.Now()

	go func() {
		sugs, err := c.deps.API.Rewrite(ctx, req)
		c.send(rewriteResultMsg{seq: seq, tone: tone, text: text, lang: lang, started: started, sugs: sugs, err: err})
	}()
}

func (c *Coordinator) applyRewriteResult(m rewriteResultMsg) {
	if m.seq != c.rewriteSeq {
		return
	}
	if mediation.IsCancelled(m.err) {
		return
	}

	latency := time.Since(m.started)

	if m.err == nil {
		c.deliver(m.sugs, "remote", "")
		ev := events.NewEvent(events.KindRewrite)
		ev.Outcome = events.OutcomeApplied
		ev.Source = "remote"
		ev.LatencyMs = float64(latency) / float64(time.Millisecond)
		c.emit(ev)
		return
	}

	// The service did not answer after retries; fall back to local templates.
	redact.Logf("rewrite failed, generating local suggestions: %v", m.err)
	sugs := c.gen.Generate(m.text, m.lang).AsList(m.tone)
	c.deliver(sugs, "local", OfflineNotice)

	bucket := fallback.DetectBucket(m.text)
	c.deps.Telemetry.RecordFallback(bucket.String())
	ev := events.NewEvent(events.KindFallback)
	ev.Outcome = events.OutcomeApplied
	ev.Source = "local"
	ev.ErrorKind = mediation.KindOf(m.err).String()
	ev.LatencyMs = float64(latency) / float64(time.Millisecond)
	c.emit(ev)
}

func (c *Coordinator) deliver(sugs []mediation.Suggestion, source, notice string) {
	if c.deps.Listener != nil {
		c.deps.Listener.SuggestionsReady(sugs, source, notice)
	}
}

func (c *Coordinator) riskChanged(st riskstate.State) {
	if c.deps.Listener != nil {
		c.deps.Listener.RiskChanged(st)
	}
}

// healthChanged runs on the monitor's goroutine; marshal into the loop.
func (c *Coordinator) healthChanged(st health.Status) {
	c.send(healthMsg{status: st})
}

func (c *Coordinator) recordMediation(outcome string, res *mediation.Result, err error, latency time.Duration) {
	level := ""
	if res != nil {
		level = string(res.RiskLevel)
	}
	c.deps.Telemetry.RecordMediation(outcome, level, float64(latency)/float64(time.Millisecond))

	ev := events.NewEvent(events.KindRiskResult)
	ev.Outcome = outcome
	ev.RiskLevel = level
	ev.LatencyMs = float64(latency) / float64(time.Millisecond)
	if err != nil {
		ev.ErrorKind = mediation.KindOf(err).String()
		var me *mediation.Error
		if errors.As(err, &me) {
			ev.Attempts = me.Attempts
		}
	}
	c.emit(ev)
}

func (c *Coordinator) emit(ev *events.Event) {
	if c.deps.Emitter != nil {
		c.deps.Emitter.Emit(ev)
	}
}

func (c *Coordinator) cancelInflight() {
	if c.inflightCancel != nil {
		c.inflightCancel()
		c.inflightCancel = nil
	}
}

func (c *Coordinator) cancelRewrite() {
	if c.rewriteCancel != nil {
		c.rewriteCancel()
		c.rewriteCancel = nil
	}
}

// rewriteLang picks the language for local suggestion pools: the last remote
// verdict's detected language when it is one we have templates for, else the
// configured hint, else English.
func (c *Coordinator) rewriteLang() string {
	if c.lastResult != nil {
		switch c.lastResult.Language {
		case mediation.LangEN, mediation.LangFR, mediation.LangAR:
			return c.lastResult.Language
		}
	}
	switch c.cfg.Mediation.LangHint {
	case mediation.LangFR, mediation.LangAR:
		return c.cfg.Mediation.LangHint
	}
	return mediation.LangEN
}

func (c *Coordinator) riskLabel() string {
	if c.lastResult == nil {
		return string(mediation.RiskSafe)
	}
	return string(c.lastResult.RiskLevel)
}

func (c *Coordinator) riskScore() float64 {
	if c.lastResult == nil {
		return mediation.RiskSafe.Score()
	}
	return c.lastResult.RiskLevel.Score()
}

// endsAtTriggerPoint reports whether a commit ended on a word or message
// boundary, which issues the mediation request immediately instead of waiting
// out the debounce.
func endsAtTriggerPoint(committed string) bool {
	return strings.HasSuffix(committed, " ") || strings.HasSuffix(committed, "\n")
}
