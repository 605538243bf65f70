package gateway

import (
	"sync"

	"github.com/parlo-app/parlo/pkg/engine/recognition"
	"github.com/parlo-app/parlo/pkg/engine/synthesis"
)

// remoteRecognizer implements recognition.Engine for an engine that lives in
// the browser page. Operations become outbound command frames; the session
// feeds the page's relayed events back in through deliver.
type remoteRecognizer struct {
	send func(Message)

	mu     sync.Mutex
	events chan recognition.Event
	closed bool
}

func newRemoteRecognizer(send func(Message)) *remoteRecognizer {
	return &remoteRecognizer{
		send:   send,
		events: make(chan recognition.Event, 32),
	}
}

func (r *remoteRecognizer) Start() error {
	r.send(Message{Type: TypeRecognitionCommand, Command: &EngineCommand{Op: "start"}})
	return nil
}

func (r *remoteRecognizer) Stop() error {
	r.send(Message{Type: TypeRecognitionCommand, Command: &EngineCommand{Op: "stop"}})
	return nil
}

func (r *remoteRecognizer) Abort() error {
	r.send(Message{Type: TypeRecognitionCommand, Command: &EngineCommand{Op: "abort"}})
	return nil
}

func (r *remoteRecognizer) Events() <-chan recognition.Event {
	return r.events
}

// deliver forwards a relayed engine event to the consuming controller.
// Events arriving faster than the controller drains them are dropped rather
// than blocking the socket read loop.
func (r *remoteRecognizer) deliver(ev recognition.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.events <- ev:
	default:
	}
}

func (r *remoteRecognizer) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
}

var _ recognition.Engine = (*remoteRecognizer)(nil)

// remoteSynthesizer implements synthesis.Engine for the page's
// speechSynthesis object. The voice catalog and the speaking flag are cached
// snapshots refreshed from relayed state frames.
type remoteSynthesizer struct {
	send func(Message)

	mu       sync.Mutex
	voices   []synthesis.Voice
	speaking bool
	events   chan synthesis.Event
	closed   bool
}

func newRemoteSynthesizer(send func(Message)) *remoteSynthesizer {
	return &remoteSynthesizer{
		send:   send,
		events: make(chan synthesis.Event, 32),
	}
}

func (s *remoteSynthesizer) Speak(u synthesis.Utterance) {
	s.send(Message{
		Type: TypeSynthesisCommand,
		Command: &EngineCommand{
			Op: "speak",
			Utterance: &UtteranceInfo{
				ID:    u.ID,
				Text:  u.Text,
				Voice: VoiceInfo{Name: u.Voice.Name, Lang: u.Voice.Lang},
			},
		},
	})
}

func (s *remoteSynthesizer) Cancel() {
	s.send(Message{Type: TypeSynthesisCommand, Command: &EngineCommand{Op: "cancel"}})
}

func (s *remoteSynthesizer) Resume() {
	s.send(Message{Type: TypeSynthesisCommand, Command: &EngineCommand{Op: "resume"}})
}

func (s *remoteSynthesizer) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

func (s *remoteSynthesizer) Voices() []synthesis.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]synthesis.Voice(nil), s.voices...)
}

func (s *remoteSynthesizer) Events() <-chan synthesis.Event {
	return s.events
}

func (s *remoteSynthesizer) setVoices(voices []synthesis.Voice) {
	s.mu.Lock()
	s.voices = voices
	s.mu.Unlock()
	s.deliver(synthesis.Event{Kind: synthesis.EventVoicesChanged})
}

func (s *remoteSynthesizer) setSpeaking(speaking bool) {
	s.mu.Lock()
	s.speaking = speaking
	s.mu.Unlock()
}

func (s *remoteSynthesizer) deliver(ev synthesis.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}

func (s *remoteSynthesizer) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

var _ synthesis.Engine = (*remoteSynthesizer)(nil)
