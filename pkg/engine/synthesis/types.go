package synthesis

// Voice describes one entry in the platform voice catalog.
type Voice struct {
	// Name is the platform voice name (e.g., "Google US English",
	// "Microsoft Zira - English (United States)").
	Name string

	// Lang is the BCP-47 language tag of the voice (e.g., "en-US").
	Lang string
}

// Utterance is one playback request handed to the engine.
type Utterance struct {
	// ID is the caller-supplied identifier used to correlate lifecycle events
	// with the request.
	ID string

	// Text is the text to synthesize. Non-empty for a real request.
	Text string

	// Voice is the selected voice. The zero value lets the platform pick its
	// default.
	Voice Voice
}

// EventKind discriminates the variants of [Event].
type EventKind int

const (
	// EventStarted signals that the utterance has become audible.
	EventStarted EventKind = iota

	// EventEnded signals that the utterance finished playing.
	EventEnded

	// EventFailed signals that the utterance ended abnormally; Code carries the
	// platform error identifier.
	EventFailed

	// EventVoicesChanged signals that the platform voice catalog changed and
	// should be re-read via Voices.
	EventVoicesChanged
)

// ErrorCode is a platform synthesis error identifier. The values mirror the
// Web Speech API SpeechSynthesisErrorEvent codes.
type ErrorCode string

const (
	CodeCanceled    ErrorCode = "canceled"
	CodeInterrupted ErrorCode = "interrupted"
	CodeAudioBusy   ErrorCode = "audio-busy"
	CodeNotAllowed  ErrorCode = "not-allowed"
	CodeSynthesis   ErrorCode = "synthesis-failed"
)

// Event is one synthesis engine notification. UtteranceID is set for
// lifecycle events and empty for EventVoicesChanged.
type Event struct {
	Kind        EventKind
	UtteranceID string
	Code        ErrorCode
}
