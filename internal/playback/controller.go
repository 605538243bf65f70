// Package playback owns one speech-synthesis session over a synthesis.Engine
// and exposes a single contract to the page layer: speak this text under this
// identifier, or stop it.
//
// The controller enforces single-utterance-at-a-time and masks known platform
// instabilities behind that contract:
//
//   - a fixed debounce separates the cancel of the previous utterance from
//     the speak of the next one, because issuing both back to back makes some
//     platforms silently drop the new utterance;
//   - a periodic keep-alive calls Resume while the engine reports itself
//     speaking, countering platforms that stall mid-utterance;
//   - lifecycle events are correlated by utterance id, so a superseded
//     utterance's late completion can never clobber its successor's state.
//
// Playback never raises errors to its caller. Engine-level canceled and
// interrupted codes are expected noise from the controller's own
// cancel-before-speak discipline; anything else is logged and reduced to
// state clearing.
package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/parlo-app/parlo/pkg/engine/synthesis"
)

const (
	// defaultDebounce separates cancel from speak. A platform without the
	// drop-after-cancel bug may set this to zero.
	defaultDebounce = 100 * time.Millisecond

	// defaultKeepAliveInterval paces the anti-stall Resume calls. Zero
	// disables the keep-alive entirely.
	defaultKeepAliveInterval = 10 * time.Second

	defaultLanguage = "en-US"
)

// Snapshot is a point-in-time view of the controller handed to the OnChange
// listener. SpeakingID is empty when nothing is audibly active.
type Snapshot struct {
	SpeakingID string
	Ready      bool
}

// Option is a functional option for New.
type Option func(*Controller)

// WithDebounce sets the cancel-to-speak debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithKeepAliveInterval sets the anti-stall resume interval. Zero disables it.
func WithKeepAliveInterval(d time.Duration) Option {
	return func(c *Controller) { c.keepAlive = d }
}

// WithLanguage sets the BCP-47 tag used for voice selection. Default "en-US".
func WithLanguage(lang string) Option {
	return func(c *Controller) {
		if lang != "" {
			c.lang = lang
		}
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithOnChange registers a listener invoked after every observable state
// change. Called without internal locks held.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller drives one synthesis engine. Safe for concurrent use.
type Controller struct {
	engine    synthesis.Engine
	log       *slog.Logger
	onChange  func(Snapshot)
	debounce  time.Duration
	keepAlive time.Duration
	lang      string

	mu         sync.Mutex
	voices     []synthesis.Voice
	ready      bool
	speakingID string

	// pendingID marks the only utterance allowed to fire after its debounce.
	// Scheduling a successor overwrites it, so a superseded timer finds a
	// mismatch and gives up.
	pendingID    string
	pendingTimer *time.Timer

	// scheduledID correlates the engine's started event with the stored
	// onStart callback.
	scheduledID string
	onStart     func()

	kaStop chan struct{}
	closed bool
}

// New creates a playback controller over engine. A nil engine models a
// platform without synthesis capability: Supported reports false and Speak is
// a no-op. The voice catalog is read immediately and refreshed on every
// voices-changed event.
func New(engine synthesis.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine:    engine,
		log:       slog.Default(),
		debounce:  defaultDebounce,
		keepAlive: defaultKeepAliveInterval,
		lang:      defaultLanguage,
	}
	for _, o := range opts {
		o(c)
	}
	if engine != nil {
		c.voices = engine.Voices()
		c.ready = len(c.voices) > 0
		go c.consume()
	}
	return c
}

// Supported reports whether a synthesis capability is present.
func (c *Controller) Supported() bool {
	return c.engine != nil
}

// Ready reports whether the platform voice catalog has loaded.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// SpeakingID returns the id of the audibly active utterance, or "".
func (c *Controller) SpeakingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speakingID
}

// Speak plays text under the caller-chosen id using a voice picked for the
// gender hint. onStart, when non-nil, fires once the utterance becomes
// audible.
//
// No-op when unsupported, before the voice catalog loads, or for empty text.
// Speaking an id that is currently audible is a stop request instead (toggle
// semantics). Otherwise any in-flight or scheduled utterance is superseded:
// the engine queue is cancelled and the new utterance fires after the
// debounce delay.
func (c *Controller) Speak(text, id string, gender Gender, onStart func()) {
	c.mu.Lock()
	if c.engine == nil || c.closed || !c.ready || text == "" {
		c.mu.Unlock()
		return
	}
	if id != "" && c.speakingID == id {
		c.mu.Unlock()
		c.Cancel()
		return
	}

	c.stopPendingLocked()
	c.engine.Cancel()

	c.pendingID = id
	c.onStart = onStart
	c.pendingTimer = time.AfterFunc(c.debounce, func() {
		c.firePending(id, text, gender)
	})
	c.mu.Unlock()
}

// Cancel stops the keep-alive, clears the active and scheduled utterances,
// and issues an engine cancel. Idempotent and always safe to call.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.engine == nil {
		c.mu.Unlock()
		return
	}
	c.stopPendingLocked()
	c.stopKeepAliveLocked()
	c.speakingID = ""
	c.scheduledID = ""
	c.onStart = nil
	eng := c.engine
	c.unlockAndNotify()
	eng.Cancel()
}

// Close cancels any in-flight utterance and releases the keep-alive timer.
// Safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	c.Cancel()
	return nil
}

// firePending runs when the debounce elapses. A superseded utterance finds
// pendingID pointing at its successor and gives up.
func (c *Controller) firePending(id, text string, gender Gender) {
	c.mu.Lock()
	if c.closed || c.pendingID != id {
		c.mu.Unlock()
		return
	}
	c.pendingID = ""
	c.pendingTimer = nil
	c.scheduledID = id
	u := synthesis.Utterance{
		ID:    id,
		Text:  text,
		Voice: selectVoice(c.voices, c.lang, gender),
	}
	eng := c.engine
	c.mu.Unlock()
	eng.Speak(u)
}

// consume applies engine events one at a time until the engine closes its
// channel.
func (c *Controller) consume() {
	for ev := range c.engine.Events() {
		switch ev.Kind {
		case synthesis.EventStarted:
			c.handleStarted(ev.UtteranceID)
		case synthesis.EventEnded:
			c.handleFinished(ev.UtteranceID, "")
		case synthesis.EventFailed:
			c.handleFinished(ev.UtteranceID, ev.Code)
		case synthesis.EventVoicesChanged:
			c.handleVoicesChanged()
		}
	}
}

func (c *Controller) handleStarted(id string) {
	c.mu.Lock()
	c.speakingID = id
	var onStart func()
	if id == c.scheduledID {
		onStart = c.onStart
		c.onStart = nil
	}
	c.startKeepAliveLocked()
	c.unlockAndNotify()
	if onStart != nil {
		onStart()
	}
}

// handleFinished covers both end and error events. The speaking id is
// cleared only if it still belongs to this utterance: a just-superseded
// utterance's late event must not clobber its successor.
func (c *Controller) handleFinished(id string, code synthesis.ErrorCode) {
	c.mu.Lock()
	c.stopKeepAliveLocked()
	if code != "" && code != synthesis.CodeCanceled && code != synthesis.CodeInterrupted {
		c.log.Warn("synthesis error", "code", string(code), "utterance_id", id)
	}
	if c.speakingID != id {
		c.mu.Unlock()
		return
	}
	c.speakingID = ""
	c.unlockAndNotify()
}

func (c *Controller) handleVoicesChanged() {
	voices := c.engine.Voices()
	c.mu.Lock()
	c.voices = voices
	if len(voices) > 0 {
		c.ready = true
	}
	c.unlockAndNotify()
}

// startKeepAliveLocked launches the anti-stall loop, replacing any previous
// one. Must be called with c.mu held.
func (c *Controller) startKeepAliveLocked() {
	c.stopKeepAliveLocked()
	if c.keepAlive <= 0 {
		return
	}
	stop := make(chan struct{})
	c.kaStop = stop
	interval := c.keepAlive
	eng := c.engine
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if eng.Speaking() {
					eng.Resume()
				}
			}
		}
	}()
}

func (c *Controller) stopKeepAliveLocked() {
	if c.kaStop != nil {
		close(c.kaStop)
		c.kaStop = nil
	}
}

func (c *Controller) stopPendingLocked() {
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
	}
	c.pendingID = ""
}

// unlockAndNotify snapshots state, releases the lock, and invokes the
// OnChange listener. Must be called with c.mu held.
func (c *Controller) unlockAndNotify() {
	snap := Snapshot{SpeakingID: c.speakingID, Ready: c.ready}
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
