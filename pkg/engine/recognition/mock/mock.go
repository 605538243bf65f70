// Package mock provides a test double for the recognition.Engine interface.
//
// Use Engine to script platform behaviour in controller tests: record
// Start/Stop/Abort calls, force Start to fail synchronously, and push result,
// error, and end events through the same channel a real engine would use.
//
// Example:
//
//	eng := mock.NewEngine()
//	ctrl := capture.New(eng)
//	_ = ctrl.Start()
//	eng.EmitResults(recognition.Result{Transcript: "hello ", Final: false})
package mock

import (
	"sync"

	"github.com/parlo-app/parlo/pkg/engine/recognition"
)

// Engine is a mock implementation of recognition.Engine.
type Engine struct {
	mu sync.Mutex

	// StartErr, if non-nil, is returned from Start.
	StartErr error

	// StartCalls, StopCalls, AbortCalls count invocations of each operation.
	StartCalls int
	StopCalls  int
	AbortCalls int

	events chan recognition.Event
	closed bool
}

// NewEngine creates a mock Engine with a buffered event channel.
func NewEngine() *Engine {
	return &Engine{events: make(chan recognition.Event, 16)}
}

// Start records the call and returns StartErr.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.StartCalls++
	return e.StartErr
}

// Stop records the call.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.StopCalls++
	return nil
}

// Abort records the call.
func (e *Engine) Abort() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.AbortCalls++
	return nil
}

// Events returns the scripted event channel.
func (e *Engine) Events() <-chan recognition.Event {
	return e.events
}

// EmitResults pushes a KindResult event carrying the given snapshot.
func (e *Engine) EmitResults(results ...recognition.Result) {
	e.events <- recognition.Event{Kind: recognition.KindResult, Results: results}
}

// EmitError pushes a KindError event with the given code.
func (e *Engine) EmitError(code recognition.ErrorCode) {
	e.events <- recognition.Event{Kind: recognition.KindError, Code: code}
}

// EmitEnd pushes a KindEnd event.
func (e *Engine) EmitEnd() {
	e.events <- recognition.Event{Kind: recognition.KindEnd}
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

// Counts returns the recorded call counts for start, stop, and abort.
func (e *Engine) Counts() (starts, stops, aborts int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.StartCalls, e.StopCalls, e.AbortCalls
}

// Ensure Engine implements recognition.Engine at compile time.
var _ recognition.Engine = (*Engine)(nil)
