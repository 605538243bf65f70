package capture_test

import (
	"errors"
	"testing"
	"time"

	"github.com/parlo-app/parlo/internal/capture"
	"github.com/parlo-app/parlo/pkg/engine/recognition"
	"github.com/parlo-app/parlo/pkg/engine/recognition/mock"
)

// newTestController wires a controller to a mock engine and returns a channel
// that receives every state snapshot, so tests can wait for asynchronous
// engine events deterministically.
func newTestController(t *testing.T, eng *mock.Engine) (*capture.Controller, <-chan capture.Snapshot) {
	t.Helper()
	snaps := make(chan capture.Snapshot, 32)
	ctrl := capture.New(eng, capture.WithOnChange(func(s capture.Snapshot) {
		snaps <- s
	}))
	t.Cleanup(func() {
		_ = ctrl.Close()
		eng.Close()
	})
	return ctrl, snaps
}

// waitSnapshot blocks until a snapshot satisfying ok arrives.
func waitSnapshot(t *testing.T, snaps <-chan capture.Snapshot, ok func(capture.Snapshot) bool) capture.Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-snaps:
			if ok(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func TestController_StartStop(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	ctrl, _ := newTestController(t, eng)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() = %v, want nil", err)
	}
	if !ctrl.Listening() {
		t.Error("Listening() = false after Start, want true")
	}

	ctrl.Stop()
	if ctrl.Listening() {
		t.Error("Listening() = true after Stop, want false")
	}
	if _, stops, _ := eng.Counts(); stops != 1 {
		t.Errorf("engine stop calls = %d, want 1", stops)
	}
	if ctrl.Err() != nil {
		t.Errorf("Err() = %v after clean stop, want nil", ctrl.Err())
	}
}

func TestController_TranscriptReplacedNotAppended(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	ctrl, snaps := newTestController(t, eng)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}

	// First snapshot: one interim result.
	eng.EmitResults(recognition.Result{Transcript: "hel"})
	waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return s.Transcript == "hel" })

	// Later snapshot revises the interim piece and adds a final one. The
	// transcript must be rebuilt from the full snapshot, not appended.
	eng.EmitResults(
		recognition.Result{Transcript: "hello ", Final: true},
		recognition.Result{Transcript: "world"},
	)
	got := waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return s.Transcript == "hello world" })
	if got.Transcript != "hello world" {
		t.Errorf("Transcript = %q, want %q", got.Transcript, "hello world")
	}
}

func TestController_StartTwiceReportsAlreadyListening(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	ctrl, snaps := newTestController(t, eng)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("first Start() = %v", err)
	}
	eng.EmitResults(recognition.Result{Transcript: "still here"})
	waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return s.Transcript == "still here" })

	err := ctrl.Start()
	var capErr *capture.Error
	if !errors.As(err, &capErr) || capErr.Kind != capture.AlreadyListening {
		t.Fatalf("second Start() = %v, want AlreadyListening", err)
	}

	// The first session's transcript stream stays intact.
	if got := ctrl.Transcript(); got != "still here" {
		t.Errorf("Transcript = %q after rejected Start, want %q", got, "still here")
	}
	if starts, _, _ := eng.Counts(); starts != 1 {
		t.Errorf("engine start calls = %d, want 1", starts)
	}
}

func TestController_StartClearsPreviousState(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	ctrl, snaps := newTestController(t, eng)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	eng.EmitResults(recognition.Result{Transcript: "old text"})
	eng.EmitError(recognition.ErrorNetwork)
	waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return !s.Listening && s.Err != nil })

	if err := ctrl.Start(); err != nil {
		t.Fatalf("restart Start() = %v", err)
	}
	if got := ctrl.Transcript(); got != "" {
		t.Errorf("Transcript = %q after restart, want empty", got)
	}
	if ctrl.Err() != nil {
		t.Errorf("Err() = %v after restart, want nil", ctrl.Err())
	}
}

func TestController_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code recognition.ErrorCode
		want capture.ErrorKind
	}{
		{recognition.ErrorNotAllowed, capture.PermissionDenied},
		{recognition.ErrorServiceNotAllowed, capture.PermissionDenied},
		{recognition.ErrorNoSpeech, capture.NoSpeechDetected},
		{recognition.ErrorNetwork, capture.NetworkError},
		{recognition.ErrorAudioCapture, capture.EngineFailure},
	}

	for _, c := range cases {
		eng := mock.NewEngine()
		ctrl, snaps := newTestController(t, eng)

		if err := ctrl.Start(); err != nil {
			t.Fatalf("Start() = %v", err)
		}
		eng.EmitError(c.code)
		snap := waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return !s.Listening })

		if snap.Err == nil {
			t.Fatalf("code %q: no error surfaced", c.code)
		}
		if snap.Err.Kind != c.want {
			t.Errorf("code %q: kind = %q, want %q", c.code, snap.Err.Kind, c.want)
		}
		if c.want == capture.EngineFailure && snap.Err.Code != c.code {
			t.Errorf("code %q: raw code = %q, want preserved", c.code, snap.Err.Code)
		}
	}
}

func TestController_AbortedIsSwallowed(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	ctrl, snaps := newTestController(t, eng)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	eng.EmitError(recognition.ErrorAborted)
	snap := waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return !s.Listening })

	if snap.Err != nil {
		t.Errorf("Err = %v after aborted, want nil (aborted is never surfaced)", snap.Err)
	}
}

func TestController_EngineEndReturnsToIdle(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	ctrl, snaps := newTestController(t, eng)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	eng.EmitEnd()
	snap := waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return !s.Listening })

	if snap.Err != nil {
		t.Errorf("Err = %v after engine end, want nil", snap.Err)
	}
	// Restartable.
	if err := ctrl.Start(); err != nil {
		t.Errorf("restart Start() = %v, want nil", err)
	}
}

func TestController_SynchronousStartFailure(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	eng.StartErr = errors.New("microphone busy")
	ctrl, _ := newTestController(t, eng)

	err := ctrl.Start()
	var capErr *capture.Error
	if !errors.As(err, &capErr) || capErr.Kind != capture.CouldNotStart {
		t.Fatalf("Start() = %v, want CouldNotStart", err)
	}
	if ctrl.Listening() {
		t.Error("Listening() = true after failed start, want false")
	}
}

func TestController_Unsupported(t *testing.T) {
	t.Parallel()

	ctrl := capture.New(nil)
	if ctrl.Supported() {
		t.Error("Supported() = true with nil engine, want false")
	}

	err := ctrl.Start()
	var capErr *capture.Error
	if !errors.As(err, &capErr) || capErr.Kind != capture.Unsupported {
		t.Fatalf("Start() = %v, want Unsupported", err)
	}
}

func TestController_ResetTranscriptKeepsListening(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	ctrl, snaps := newTestController(t, eng)

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	eng.EmitResults(recognition.Result{Transcript: "something"})
	waitSnapshot(t, snaps, func(s capture.Snapshot) bool { return s.Transcript == "something" })

	ctrl.ResetTranscript()
	if got := ctrl.Transcript(); got != "" {
		t.Errorf("Transcript = %q after reset, want empty", got)
	}
	if !ctrl.Listening() {
		t.Error("Listening() = false after reset, want true")
	}
}

func TestController_CloseAbortsSession(t *testing.T) {
	t.Parallel()

	eng := mock.NewEngine()
	snaps := make(chan capture.Snapshot, 32)
	ctrl := capture.New(eng, capture.WithOnChange(func(s capture.Snapshot) { snaps <- s }))

	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := ctrl.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if _, _, aborts := eng.Counts(); aborts != 1 {
		t.Errorf("engine abort calls = %d, want 1", aborts)
	}
	// Idempotent.
	if err := ctrl.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	eng.Close()
}
