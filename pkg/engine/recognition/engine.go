// Package recognition defines the Engine interface for continuous
// speech-to-text capability providers.
//
// An Engine wraps whatever actually performs recognition — in production the
// browser's Web Speech API reached over the gateway WebSocket, in tests a
// mock. The central abstraction mirrors the platform contract: three
// imperative operations (Start, Stop, Abort) and an event stream that
// delivers result snapshots, error codes, and session-end notifications.
//
// Engines are stateful platform singletons. Callers must serialize their own
// interactions: never issue a second Start without an intervening Stop or
// Abort. The capture controller enforces this on top of the Engine.
package recognition

// Engine is the abstraction over a continuous speech-recognition capability.
//
// Start may fail synchronously (for example when the microphone is held by
// another process); asynchronous failures arrive as error events. Stop
// requests a graceful end of the session — buffered audio may still produce
// result events before the end event. Abort discards the session immediately;
// the platform acknowledges it with an ErrorAborted event, which callers are
// expected to swallow.
type Engine interface {
	// Start begins a continuous recognition session with interim results
	// enabled. Returns an error if the session cannot be engaged.
	Start() error

	// Stop gracefully ends the session. Safe to call when no session is active.
	Stop() error

	// Abort discards the session immediately. Safe to call when no session is
	// active. The resulting ErrorAborted event is an acknowledgement, not a
	// failure.
	Abort() error

	// Events returns the channel on which the engine delivers recognition
	// events. The engine owns the channel and closes it when the engine is
	// torn down. All events for one engine arrive in platform order.
	Events() <-chan Event
}
