package capture

import (
	"fmt"

	"github.com/parlo-app/parlo/pkg/engine/recognition"
)

// ErrorKind is the closed taxonomy of capture errors surfaced to callers.
// The platform's "aborted" code never appears here: it is the expected
// acknowledgement of a caller-initiated stop or teardown and is swallowed.
type ErrorKind string

const (
	// Unsupported: the platform offers no recognition capability.
	Unsupported ErrorKind = "unsupported"

	// AlreadyListening: Start was called while a session is active.
	AlreadyListening ErrorKind = "already-listening"

	// PermissionDenied: microphone access was refused by the user or policy.
	PermissionDenied ErrorKind = "permission-denied"

	// NoSpeechDetected: the session ended without hearing any speech.
	NoSpeechDetected ErrorKind = "no-speech"

	// NetworkError: the recognition service could not be reached.
	NetworkError ErrorKind = "network"

	// CouldNotStart: the engine refused to engage (e.g., hardware busy).
	CouldNotStart ErrorKind = "could-not-start"

	// EngineFailure: any other platform error; Code carries the raw identifier.
	EngineFailure ErrorKind = "engine-error"
)

// Error is a capture failure. It is surfaced both as the return value of
// Start and as the controller's error field for the UI to render.
type Error struct {
	Kind ErrorKind

	// Code is the raw platform error code. Set only for EngineFailure.
	Code recognition.ErrorCode
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == EngineFailure && e.Code != "" {
		return fmt.Sprintf("capture: engine error %q", string(e.Code))
	}
	return "capture: " + string(e.Kind)
}

// mapErrorCode translates a platform error code into the surfaced taxonomy.
// Returns nil for codes that must not be surfaced (aborted).
func mapErrorCode(code recognition.ErrorCode) *Error {
	switch code {
	case recognition.ErrorAborted:
		return nil
	case recognition.ErrorNotAllowed, recognition.ErrorServiceNotAllowed:
		return &Error{Kind: PermissionDenied}
	case recognition.ErrorNoSpeech:
		return &Error{Kind: NoSpeechDetected}
	case recognition.ErrorNetwork:
		return &Error{Kind: NetworkError}
	default:
		return &Error{Kind: EngineFailure, Code: code}
	}
}
