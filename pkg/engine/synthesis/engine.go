// Package synthesis defines the Engine interface for text-to-speech
// capability providers.
//
// An Engine wraps whatever actually produces audio — in production the
// browser's speechSynthesis object reached over the gateway WebSocket, in
// tests a mock. The interface mirrors the platform contract: enqueue an
// utterance, cancel everything, resume a stalled engine, query the voice
// catalog, and observe utterance lifecycle events.
//
// The engine is a platform singleton with global mutable state. Callers must
// serialize their own interactions with it; the playback controller enforces
// single-utterance-at-a-time on top of the Engine.
package synthesis

// Engine is the abstraction over a speech-synthesis capability.
type Engine interface {
	// Speak enqueues an utterance for playback. The call is asynchronous:
	// lifecycle notifications for the utterance arrive as events carrying its ID.
	Speak(u Utterance)

	// Cancel discards the queue and stops any audible playback. In-flight
	// utterances fail with CodeCanceled or CodeInterrupted, which callers treat
	// as expected noise.
	Cancel()

	// Resume nudges a paused or stalled engine back into playback. Used as a
	// keep-alive against platforms that silently stall mid-utterance.
	Resume()

	// Speaking reports whether the engine believes it is audibly speaking.
	Speaking() bool

	// Voices returns the engine's current voice catalog. May be empty until the
	// platform has loaded its voices; an EventVoicesChanged event signals updates.
	Voices() []Voice

	// Events returns the channel on which the engine delivers utterance
	// lifecycle and catalog events. The engine owns the channel and closes it
	// when the engine is torn down.
	Events() <-chan Event
}
