// Package capture owns one continuous speech-to-text session over a
// recognition.Engine and exposes a minimal, safe lifecycle to the page layer:
// live transcript, listening flag, and a closed error taxonomy.
//
// The controller is an explicit two-state machine (Idle, Listening). Engine
// events — result snapshots, errors, session end — arrive on the engine's
// event channel and are applied by a single consumer goroutine, so state
// transitions are serialized regardless of how the platform interleaves its
// callbacks. Every failure returns the controller to a restartable Idle
// state; nothing here is fatal.
package capture

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/parlo-app/parlo/pkg/engine/recognition"
)

// State is the capture session state.
type State int

const (
	// StateIdle: no session active. Start is allowed.
	StateIdle State = iota

	// StateListening: a continuous recognition session is running.
	StateListening
)

// Snapshot is a point-in-time view of the controller handed to the OnChange
// listener. Callers never hold engine references, only these values.
type Snapshot struct {
	Transcript string
	Listening  bool
	Err        *Error
}

// Option is a functional option for New.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithOnChange registers a listener invoked after every observable state
// change (transcript revision, listening transition, surfaced error). The
// listener is called without internal locks held and may call back into the
// controller.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller drives one recognition engine. At most one session is Listening
// at a time per instance. Safe for concurrent use.
type Controller struct {
	engine   recognition.Engine
	log      *slog.Logger
	onChange func(Snapshot)

	mu         sync.Mutex
	state      State
	transcript string
	lastErr    *Error

	closeOnce sync.Once
}

// New creates a capture controller over engine. A nil engine models a
// platform without recognition capability: Supported reports false and Start
// fails with Unsupported.
func New(engine recognition.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		log:    slog.Default(),
		state:  StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	if engine != nil {
		go c.consume()
	}
	return c
}

// Supported reports whether a recognition capability is present. A pure
// capability probe, independent of session state.
func (c *Controller) Supported() bool {
	return c.engine != nil
}

// Start clears any previous transcript and error, then engages the engine.
//
// Fails with Unsupported when no engine is present, with AlreadyListening
// when a session is active (the running session and its transcript stream are
// left intact), and with CouldNotStart when the engine refuses synchronously.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.engine == nil {
		c.lastErr = &Error{Kind: Unsupported}
		err := c.lastErr
		c.unlockAndNotify()
		return err
	}
	if c.state == StateListening {
		c.mu.Unlock()
		return &Error{Kind: AlreadyListening}
	}

	c.transcript = ""
	c.lastErr = nil

	if err := c.engine.Start(); err != nil {
		c.log.Warn("recognition engine refused to start", "err", err)
		c.lastErr = &Error{Kind: CouldNotStart}
		surfaced := c.lastErr
		c.unlockAndNotify()
		return surfaced
	}

	c.state = StateListening
	c.unlockAndNotify()
	return nil
}

// Stop ends the active session. Idempotent; a no-op when Idle. The engine's
// aborted acknowledgement is swallowed, never surfaced as an error.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state != StateListening {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	if err := c.engine.Stop(); err != nil {
		c.log.Debug("recognition engine stop", "err", err)
	}
	c.unlockAndNotify()
}

// ResetTranscript clears the exposed transcript without affecting the
// listening state.
func (c *Controller) ResetTranscript() {
	c.mu.Lock()
	c.transcript = ""
	c.unlockAndNotify()
}

// Transcript returns the current transcript: the concatenation of all result
// alternatives' best transcript pieces known so far, continuously revised.
func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// Listening reports whether a session is active.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateListening
}

// Err returns the last surfaced error, or nil. Cleared by the next Start.
func (c *Controller) Err() *Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close forcibly aborts any active session. Safe to call more than once.
// The engine's event channel remains owned by the engine.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = StateIdle
		eng := c.engine
		c.mu.Unlock()
		if eng != nil {
			if err := eng.Abort(); err != nil {
				c.log.Debug("recognition engine abort", "err", err)
			}
		}
	})
	return nil
}

// consume applies engine events one at a time until the engine closes its
// channel.
func (c *Controller) consume() {
	for ev := range c.engine.Events() {
		switch ev.Kind {
		case recognition.KindResult:
			c.handleResults(ev.Results)
		case recognition.KindError:
			c.handleError(ev.Code)
		case recognition.KindEnd:
			c.handleEnd()
		}
	}
}

// handleResults replaces the transcript with the concatenation of the
// snapshot's transcripts. Snapshots are cumulative, so replacement — not
// appending — is what keeps interim revisions from duplicating text.
func (c *Controller) handleResults(results []recognition.Result) {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Transcript)
	}
	c.mu.Lock()
	c.transcript = b.String()
	c.unlockAndNotify()
}

func (c *Controller) handleError(code recognition.ErrorCode) {
	c.mu.Lock()
	if mapped := mapErrorCode(code); mapped != nil {
		c.log.Warn("recognition error", "code", string(code))
		c.lastErr = mapped
	}
	c.state = StateIdle
	c.unlockAndNotify()
}

func (c *Controller) handleEnd() {
	c.mu.Lock()
	c.state = StateIdle
	c.unlockAndNotify()
}

// unlockAndNotify snapshots state, releases the lock, and invokes the
// OnChange listener. Must be called with c.mu held.
func (c *Controller) unlockAndNotify() {
	snap := Snapshot{
		Transcript: c.transcript,
		Listening:  c.state == StateListening,
		Err:        c.lastErr,
	}
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
