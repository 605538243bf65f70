// Package mock provides a test double for the synthesis.Engine interface.
//
// Use Engine to script platform behaviour in controller tests: seed the voice
// catalog, record Speak/Cancel/Resume calls, and emit lifecycle events for
// scheduled utterances — including deliberately stale ones, to exercise
// late-callback guards.
package mock

import (
	"sync"

	"github.com/parlo-app/parlo/pkg/engine/synthesis"
)

// Engine is a mock implementation of synthesis.Engine.
type Engine struct {
	mu sync.Mutex

	// Catalog is the voice list returned by Voices.
	Catalog []synthesis.Voice

	// SpeakingNow is the value returned by Speaking.
	SpeakingNow bool

	spoken  []synthesis.Utterance
	cancels int
	resumes int

	// SpeakCh receives every utterance passed to Speak, letting tests block
	// until the controller's debounce fires.
	SpeakCh chan synthesis.Utterance

	events chan synthesis.Event
	closed bool
}

// NewEngine creates a mock Engine with buffered event and speak channels.
func NewEngine(catalog ...synthesis.Voice) *Engine {
	return &Engine{
		Catalog: catalog,
		SpeakCh: make(chan synthesis.Utterance, 16),
		events:  make(chan synthesis.Event, 16),
	}
}

// Speak records the utterance and forwards it to SpeakCh.
func (e *Engine) Speak(u synthesis.Utterance) {
	e.mu.Lock()
	e.spoken = append(e.spoken, u)
	e.mu.Unlock()
	e.SpeakCh <- u
}

// Cancel records the call.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancels++
}

// Resume records the call.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resumes++
}

// Speaking returns SpeakingNow.
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.SpeakingNow
}

// SetSpeaking updates the value reported by Speaking.
func (e *Engine) SetSpeaking(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.SpeakingNow = v
}

// Voices returns the seeded catalog.
func (e *Engine) Voices() []synthesis.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]synthesis.Voice(nil), e.Catalog...)
}

// Events returns the scripted event channel.
func (e *Engine) Events() <-chan synthesis.Event {
	return e.events
}

// EmitStarted pushes an EventStarted for the given utterance id.
func (e *Engine) EmitStarted(id string) {
	e.events <- synthesis.Event{Kind: synthesis.EventStarted, UtteranceID: id}
}

// EmitEnded pushes an EventEnded for the given utterance id.
func (e *Engine) EmitEnded(id string) {
	e.events <- synthesis.Event{Kind: synthesis.EventEnded, UtteranceID: id}
}

// EmitFailed pushes an EventFailed for the given utterance id and code.
func (e *Engine) EmitFailed(id string, code synthesis.ErrorCode) {
	e.events <- synthesis.Event{Kind: synthesis.EventFailed, UtteranceID: id, Code: code}
}

// EmitVoicesChanged pushes an EventVoicesChanged, optionally replacing the
// catalog first.
func (e *Engine) EmitVoicesChanged(catalog ...synthesis.Voice) {
	if catalog != nil {
		e.mu.Lock()
		e.Catalog = catalog
		e.mu.Unlock()
	}
	e.events <- synthesis.Event{Kind: synthesis.EventVoicesChanged}
}

// Spoken returns a copy of every utterance passed to Speak so far.
func (e *Engine) Spoken() []synthesis.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]synthesis.Utterance(nil), e.spoken...)
}

// Cancels returns the number of Cancel calls.
func (e *Engine) Cancels() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancels
}

// Resumes returns the number of Resume calls.
func (e *Engine) Resumes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resumes
}

// Close closes the event channel. Calling Close more than once is safe.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
}

// Ensure Engine implements synthesis.Engine at compile time.
var _ synthesis.Engine = (*Engine)(nil)
