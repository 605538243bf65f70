package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/parlo-app/parlo/internal/capture"
	"github.com/parlo-app/parlo/internal/observe"
	"github.com/parlo-app/parlo/internal/playback"
	"github.com/parlo-app/parlo/internal/score"
	"github.com/parlo-app/parlo/pkg/engine/recognition"
	"github.com/parlo-app/parlo/pkg/engine/synthesis"
)

// sessionOptions carries the per-session controller tuning derived from
// server configuration.
type sessionOptions struct {
	language          string
	debounce          time.Duration
	keepAliveInterval time.Duration
}

// session is one connected practice page: a socket, the two controllers
// bound to the page's remote engines, and the shared scorer.
type session struct {
	log     *slog.Logger
	metrics *observe.Metrics
	scorer  *score.Scorer
	opts    sessionOptions

	out  chan Message
	done chan struct{}

	mu          sync.Mutex
	captureCtrl *capture.Controller
	playCtrl    *playback.Controller
	recog       *remoteRecognizer
	synth       *remoteSynthesizer

	teardownOnce sync.Once
}

func newSession(log *slog.Logger, metrics *observe.Metrics, scorer *score.Scorer, opts sessionOptions) *session {
	return &session{
		log:     log,
		metrics: metrics,
		scorer:  scorer,
		opts:    opts,
		out:     make(chan Message, 64),
		done:    make(chan struct{}),
	}
}

// run services the socket until the page disconnects or ctx is cancelled,
// then tears down both controllers so no capture session or utterance
// outlives the page.
func (s *session) run(ctx context.Context, conn *websocket.Conn) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.readLoop(ctx, conn)
	})
	g.Go(func() error {
		return s.writeLoop(ctx, conn)
	})

	err := g.Wait()
	s.teardown()
	return err
}

func (s *session) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return fmt.Errorf("gateway: read: %w", err)
		}
		s.handle(ctx, msg)
	}
}

func (s *session) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-s.out:
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				return fmt.Errorf("gateway: write: %w", err)
			}
		}
	}
}

// push enqueues an outbound frame without blocking past session teardown.
func (s *session) push(msg Message) {
	select {
	case s.out <- msg:
	case <-s.done:
	}
}

func (s *session) pushError(text string) {
	s.push(Message{Type: TypeError, Error: text})
}

func (s *session) handle(ctx context.Context, msg Message) {
	switch msg.Type {
	case TypeHello:
		s.handleHello(msg.Hello)

	case TypeCaptureStart:
		s.handleCaptureStart(ctx)
	case TypeCaptureStop:
		if ctrl := s.captureController(); ctrl != nil {
			ctrl.Stop()
		}
	case TypeCaptureReset:
		if ctrl := s.captureController(); ctrl != nil {
			ctrl.ResetTranscript()
		}

	case TypePlaybackSpeak:
		s.handleSpeak(ctx, msg.Speak)
	case TypePlaybackCancel:
		if ctrl := s.playbackController(); ctrl != nil {
			ctrl.Cancel()
		}

	case TypeScoreSentence:
		s.handleScoreSentence(ctx, msg.Score)
	case TypeScoreWord:
		s.handleScoreWord(ctx, msg.Score)

	case TypeRecognitionResult:
		s.deliverRecognition(recognition.Event{
			Kind:    recognition.KindResult,
			Results: toResults(msg.Results),
		})
	case TypeRecognitionError:
		s.deliverRecognition(recognition.Event{
			Kind: recognition.KindError,
			Code: recognition.ErrorCode(msg.Code),
		})
	case TypeRecognitionEnd:
		s.deliverRecognition(recognition.Event{Kind: recognition.KindEnd})

	case TypeSynthesisEvent:
		s.handleSynthesisEvent(msg.Synthesis)
	case TypeSynthesisVoices:
		s.handleSynthesisVoices(msg.Voices)
	case TypeSynthesisState:
		if synth := s.synthesizer(); synth != nil && msg.Speaking != nil {
			synth.setSpeaking(*msg.Speaking)
		}

	default:
		s.pushError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// handleHello builds the remote engines and controllers. Capabilities the
// page does not offer become nil engines, so the controllers report
// unsupported instead of issuing commands nobody answers.
func (s *session) handleHello(h *Hello) {
	if h == nil {
		s.pushError("hello payload missing")
		return
	}

	s.mu.Lock()
	if s.captureCtrl != nil {
		s.mu.Unlock()
		s.pushError("hello already received")
		return
	}

	var recogEngine recognition.Engine
	if h.Recognition {
		s.recog = newRemoteRecognizer(s.push)
		recogEngine = s.recog
	}
	var synthEngine synthesis.Engine
	if h.Synthesis {
		s.synth = newRemoteSynthesizer(s.push)
		synthEngine = s.synth
	}

	s.captureCtrl = capture.New(recogEngine,
		capture.WithLogger(s.log),
		capture.WithOnChange(s.pushCaptureState),
	)
	s.playCtrl = playback.New(synthEngine,
		playback.WithLanguage(s.opts.language),
		playback.WithDebounce(s.opts.debounce),
		playback.WithKeepAliveInterval(s.opts.keepAliveInterval),
		playback.WithLogger(s.log),
		playback.WithOnChange(s.pushPlaybackState),
	)
	s.mu.Unlock()

	s.log.Info("practice session ready",
		"recognition", h.Recognition,
		"synthesis", h.Synthesis,
	)
}

func (s *session) handleCaptureStart(ctx context.Context) {
	ctrl := s.captureController()
	if ctrl == nil {
		s.pushError("hello required before capture.start")
		return
	}
	if err := ctrl.Start(); err != nil {
		var capErr *capture.Error
		if errors.As(err, &capErr) {
			s.metrics.RecordCaptureError(ctx, string(capErr.Kind))
			if capErr.Kind == capture.AlreadyListening {
				// The running session stays intact; the page only gets told off.
				s.pushError(string(capture.AlreadyListening))
			}
		}
		return
	}
	s.metrics.RecordCaptureSession(ctx)
}

func (s *session) handleSpeak(ctx context.Context, req *SpeakRequest) {
	ctrl := s.playbackController()
	if ctrl == nil {
		s.pushError("hello required before playback.speak")
		return
	}
	if req == nil {
		s.pushError("speak payload missing")
		return
	}
	gender := playback.GenderFemale
	if req.Gender == string(playback.GenderMale) {
		gender = playback.GenderMale
	}
	s.metrics.RecordUtterance(ctx, string(gender))
	ctrl.Speak(req.Text, req.ID, gender, nil)
}

func (s *session) handleScoreSentence(ctx context.Context, req *ScoreRequest) {
	if req == nil {
		s.pushError("score payload missing")
		return
	}
	ctx, span := observe.StartSpan(ctx, "score.sentence")
	defer span.End()

	fb := s.scorer.CompareSentence(req.Target, req.Spoken)
	s.metrics.RecordSentenceAccuracy(ctx, fb.Accuracy)

	words := make([]WordResult, len(fb.Words))
	for i, w := range fb.Words {
		words[i] = WordResult{Word: w.Word, Correct: w.Correct}
	}
	s.push(Message{
		Type: TypeScoreResult,
		Result: &ScoreResult{
			Mode:     "sentence",
			Sentence: &SentenceFeedback{Words: words, Accuracy: fb.Accuracy},
		},
	})
}

func (s *session) handleScoreWord(ctx context.Context, req *ScoreRequest) {
	if req == nil {
		s.pushError("score payload missing")
		return
	}
	ctx, span := observe.StartSpan(ctx, "score.word")
	defer span.End()

	fb := s.scorer.CompareWord(req.Target, req.Spoken)
	s.metrics.RecordWordPronunciation(ctx, fb.Pronunciation)

	s.push(Message{
		Type: TypeScoreResult,
		Result: &ScoreResult{
			Mode: "word",
			Word: &VocabularyScores{
				Match:         fb.Match,
				Accuracy:      fb.Accuracy,
				Pronunciation: fb.Pronunciation,
				Stress:        fb.Stress,
			},
		},
	})
}

func (s *session) handleSynthesisEvent(ev *SynthesisEvent) {
	synth := s.synthesizer()
	if synth == nil || ev == nil {
		return
	}
	switch ev.Event {
	case "started":
		synth.setSpeaking(true)
		synth.deliver(synthesis.Event{Kind: synthesis.EventStarted, UtteranceID: ev.ID})
	case "ended":
		synth.setSpeaking(false)
		synth.deliver(synthesis.Event{Kind: synthesis.EventEnded, UtteranceID: ev.ID})
	case "failed":
		synth.setSpeaking(false)
		synth.deliver(synthesis.Event{
			Kind:        synthesis.EventFailed,
			UtteranceID: ev.ID,
			Code:        synthesis.ErrorCode(ev.Code),
		})
	}
}

func (s *session) handleSynthesisVoices(infos []VoiceInfo) {
	synth := s.synthesizer()
	if synth == nil {
		return
	}
	voices := make([]synthesis.Voice, len(infos))
	for i, v := range infos {
		voices[i] = synthesis.Voice{Name: v.Name, Lang: v.Lang}
	}
	synth.setVoices(voices)
}

func (s *session) deliverRecognition(ev recognition.Event) {
	s.mu.Lock()
	recog := s.recog
	s.mu.Unlock()
	if recog != nil {
		recog.deliver(ev)
	}
}

func (s *session) pushCaptureState(snap capture.Snapshot) {
	state := &CaptureState{
		Transcript: snap.Transcript,
		Listening:  snap.Listening,
	}
	if snap.Err != nil {
		state.Error = &CaptureError{
			Kind: string(snap.Err.Kind),
			Code: string(snap.Err.Code),
		}
	}
	s.push(Message{Type: TypeCaptureState, Capture: state})
}

func (s *session) pushPlaybackState(snap playback.Snapshot) {
	s.push(Message{
		Type:     TypePlaybackState,
		Playback: &PlaybackState{SpeakingID: snap.SpeakingID, Ready: snap.Ready},
	})
}

func (s *session) captureController() *capture.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureCtrl
}

func (s *session) playbackController() *playback.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playCtrl
}

func (s *session) synthesizer() *remoteSynthesizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synth
}

// teardown aborts capture, cancels playback, and closes the remote engine
// event channels. Leaving any of these running would leak a keep-alive timer
// or keep speech audibly playing after the page is gone.
func (s *session) teardown() {
	s.teardownOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		captureCtrl, playCtrl := s.captureCtrl, s.playCtrl
		recog, synth := s.recog, s.synth
		s.mu.Unlock()

		if captureCtrl != nil {
			_ = captureCtrl.Close()
		}
		if playCtrl != nil {
			_ = playCtrl.Close()
		}
		if recog != nil {
			recog.close()
		}
		if synth != nil {
			synth.close()
		}
	})
}

func toResults(pieces []ResultPiece) []recognition.Result {
	out := make([]recognition.Result, len(pieces))
	for i, p := range pieces {
		out[i] = recognition.Result{Transcript: p.Transcript, Final: p.Final}
	}
	return out
}
