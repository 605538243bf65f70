package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/parlo-app/parlo/internal/config"
)

func TestPlaybackConfig_Defaults(t *testing.T) {
	t.Parallel()

	var p config.PlaybackConfig
	if got := p.Debounce(); got != 100*time.Millisecond {
		t.Errorf("Debounce() = %v with unset field, want 100ms", got)
	}
	if got := p.KeepAliveInterval(); got != 10*time.Second {
		t.Errorf("KeepAliveInterval() = %v with unset field, want 10s", got)
	}
}

func TestPlaybackConfig_ExplicitZero(t *testing.T) {
	t.Parallel()

	// An explicit 0 is not the same as "unset": zero debounce fires the
	// utterance immediately, zero keep-alive disables the anti-stall loop.
	yaml := `
speech:
  playback:
    debounce_ms: 0
    keep_alive_interval_ms: 0
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if got := cfg.Speech.Playback.Debounce(); got != 0 {
		t.Errorf("Debounce() = %v for explicit 0, want 0", got)
	}
	if got := cfg.Speech.Playback.KeepAliveInterval(); got != 0 {
		t.Errorf("KeepAliveInterval() = %v for explicit 0, want 0", got)
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("LogLevel(%q).IsValid() = false, want true", l)
		}
	}
	for _, l := range []config.LogLevel{"", "verbose", "INFO"} {
		if l.IsValid() {
			t.Errorf("LogLevel(%q).IsValid() = true, want false", l)
		}
	}
}

func TestJitterMode_IsValid(t *testing.T) {
	t.Parallel()

	if !config.JitterNone.IsValid() || !config.JitterRandom.IsValid() {
		t.Error("built-in jitter modes reported invalid")
	}
	if config.JitterMode("maybe").IsValid() {
		t.Error(`JitterMode("maybe").IsValid() = true, want false`)
	}
}
