// Package gateway bridges a browser practice page to the server-side speech
// controllers over one WebSocket per session.
//
// The browser plays two roles on the same socket. It is the platform: the
// actual recognition and synthesis engines live in the page (Web Speech API),
// so the gateway forwards engine commands outward and feeds the page's engine
// events into the controllers. It is also the UI: user commands (start
// capture, speak, score) come in, and controller state changes are pushed
// back out for rendering.
package gateway

// MessageType discriminates the frames exchanged on a practice socket.
type MessageType string

// Client → server frame types.
const (
	// TypeHello announces the page's platform capabilities. Must be the first
	// frame; engines and controllers are built from it.
	TypeHello MessageType = "hello"

	TypeCaptureStart MessageType = "capture.start"
	TypeCaptureStop  MessageType = "capture.stop"
	TypeCaptureReset MessageType = "capture.reset"

	TypePlaybackSpeak  MessageType = "playback.speak"
	TypePlaybackCancel MessageType = "playback.cancel"

	TypeScoreSentence MessageType = "score.sentence"
	TypeScoreWord     MessageType = "score.word"

	// Engine events relayed from the page's platform objects.
	TypeRecognitionResult MessageType = "recognition.result"
	TypeRecognitionError  MessageType = "recognition.error"
	TypeRecognitionEnd    MessageType = "recognition.end"
	TypeSynthesisEvent    MessageType = "synthesis.event"
	TypeSynthesisVoices   MessageType = "synthesis.voices"
	TypeSynthesisState    MessageType = "synthesis.state"
)

// Server → client frame types.
const (
	// TypeRecognitionCommand instructs the page to drive its recognition
	// engine: start, stop, or abort.
	TypeRecognitionCommand MessageType = "recognition.command"

	// TypeSynthesisCommand instructs the page to drive its synthesis engine:
	// speak an utterance, cancel, or resume.
	TypeSynthesisCommand MessageType = "synthesis.command"

	TypeCaptureState  MessageType = "capture.state"
	TypePlaybackState MessageType = "playback.state"
	TypeScoreResult   MessageType = "score.result"
	TypeError         MessageType = "error"
)

// Message is the JSON envelope for every frame. Exactly the fields relevant
// to Type are set; the rest stay empty.
type Message struct {
	Type MessageType `json:"type"`

	Hello *Hello `json:"hello,omitempty"`

	// Results carries the cumulative recognition snapshot for
	// TypeRecognitionResult.
	Results []ResultPiece `json:"results,omitempty"`

	// Code carries the engine error code for TypeRecognitionError.
	Code string `json:"code,omitempty"`

	Speak     *SpeakRequest   `json:"speak,omitempty"`
	Synthesis *SynthesisEvent `json:"synthesis,omitempty"`
	Voices    []VoiceInfo     `json:"voices,omitempty"`
	Speaking  *bool           `json:"speaking,omitempty"`
	Score     *ScoreRequest   `json:"score,omitempty"`

	Command  *EngineCommand `json:"command,omitempty"`
	Capture  *CaptureState  `json:"capture,omitempty"`
	Playback *PlaybackState `json:"playback,omitempty"`
	Result   *ScoreResult   `json:"result,omitempty"`

	Error string `json:"error,omitempty"`
}

// Hello announces which platform capabilities the page offers.
type Hello struct {
	Recognition bool `json:"recognition"`
	Synthesis   bool `json:"synthesis"`
}

// ResultPiece mirrors one recognition result's top alternative.
type ResultPiece struct {
	Transcript string `json:"transcript"`
	Final      bool   `json:"final"`
}

// SpeakRequest is the payload of TypePlaybackSpeak.
type SpeakRequest struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Gender string `json:"gender"`
}

// SynthesisEvent relays one utterance lifecycle event from the page.
// Event is "started", "ended", or "failed".
type SynthesisEvent struct {
	Event string `json:"event"`
	ID    string `json:"id"`
	Code  string `json:"code,omitempty"`
}

// VoiceInfo mirrors one platform voice catalog entry.
type VoiceInfo struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// ScoreRequest is the payload of the two scoring frame types.
type ScoreRequest struct {
	Target string `json:"target"`
	Spoken string `json:"spoken"`
}

// EngineCommand instructs the page to drive one of its platform engines.
// Utterance is set only for the synthesis "speak" op.
type EngineCommand struct {
	Op        string         `json:"op"`
	Utterance *UtteranceInfo `json:"utterance,omitempty"`
}

// UtteranceInfo carries a scheduled utterance to the page.
type UtteranceInfo struct {
	ID    string    `json:"id"`
	Text  string    `json:"text"`
	Voice VoiceInfo `json:"voice"`
}

// CaptureState is the pushed view of the capture controller.
type CaptureState struct {
	Transcript string        `json:"transcript"`
	Listening  bool          `json:"listening"`
	Error      *CaptureError `json:"error,omitempty"`
}

// CaptureError is the surfaced capture error taxonomy value.
type CaptureError struct {
	Kind string `json:"kind"`
	Code string `json:"code,omitempty"`
}

// PlaybackState is the pushed view of the playback controller. SpeakingID is
// empty when nothing is audibly active.
type PlaybackState struct {
	SpeakingID string `json:"speaking_id"`
	Ready      bool   `json:"ready"`
}

// ScoreResult carries feedback for one scoring request.
type ScoreResult struct {
	Mode     string            `json:"mode"`
	Sentence *SentenceFeedback `json:"sentence,omitempty"`
	Word     *VocabularyScores `json:"word,omitempty"`
}

// SentenceFeedback mirrors score.SentenceFeedback for the wire.
type SentenceFeedback struct {
	Words    []WordResult `json:"words"`
	Accuracy int          `json:"accuracy"`
}

// WordResult is the verdict for one target word.
type WordResult struct {
	Word    string `json:"word"`
	Correct bool   `json:"correct"`
}

// VocabularyScores mirrors score.VocabularyFeedback for the wire.
type VocabularyScores struct {
	Match         bool `json:"match"`
	Accuracy      int  `json:"accuracy"`
	Pronunciation int  `json:"pronunciation"`
	Stress        int  `json:"stress"`
}
