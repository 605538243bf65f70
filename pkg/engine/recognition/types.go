package recognition

// EventKind discriminates the variants of [Event].
type EventKind int

const (
	// KindResult carries a full snapshot of all results known so far.
	KindResult EventKind = iota

	// KindError carries a platform error code.
	KindError

	// KindEnd signals that the recognition session has ended.
	KindEnd
)

// ErrorCode is a platform recognition error identifier. The values mirror the
// Web Speech API error codes; engines for other platforms map their native
// codes onto these.
type ErrorCode string

const (
	ErrorNoSpeech            ErrorCode = "no-speech"
	ErrorAborted             ErrorCode = "aborted"
	ErrorAudioCapture        ErrorCode = "audio-capture"
	ErrorNetwork             ErrorCode = "network"
	ErrorNotAllowed          ErrorCode = "not-allowed"
	ErrorServiceNotAllowed   ErrorCode = "service-not-allowed"
	ErrorBadGrammar          ErrorCode = "bad-grammar"
	ErrorLanguageUnsupported ErrorCode = "language-not-supported"
)

// Result is the best alternative of one recognition result, either an interim
// guess or a committed (final) piece.
type Result struct {
	// Transcript is the recognised text of this result's top alternative.
	Transcript string

	// Final indicates whether the platform has committed to this result.
	// Interim results may be revised by later snapshots.
	Final bool
}

// Event is one recognition engine notification.
//
// For KindResult, Results holds the complete ordered snapshot of every result
// known to the session so far — not a delta. The session transcript at any
// moment is the concatenation of all snapshot transcripts, so a later
// snapshot replaces anything assembled from an earlier one.
type Event struct {
	Kind    EventKind
	Results []Result
	Code    ErrorCode
}
