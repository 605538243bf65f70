package config

// Diff describes what changed between two configs. Only fields that can be
// applied without a restart are tracked: log verbosity takes effect
// immediately, speech settings apply to sessions opened after the reload.
type Diff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	SpeechChanged bool
	NewSpeech     SpeechConfig

	ScoringChanged bool
	NewScoring     ScoringConfig
}

// Any reports whether the diff carries at least one change.
func (d Diff) Any() bool {
	return d.LogLevelChanged || d.SpeechChanged || d.ScoringChanged
}

// Compare returns the hot-reloadable differences between old and new.
// Listen address and telemetry settings are deliberately ignored: changing
// them requires a restart.
func Compare(old, new *Config) Diff {
	d := Diff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if !speechEqual(old.Speech, new.Speech) {
		d.SpeechChanged = true
		d.NewSpeech = new.Speech
	}

	if old.Scoring != new.Scoring {
		d.ScoringChanged = true
		d.NewScoring = new.Scoring
	}

	return d
}

// speechEqual compares speech configs by value, treating an unset delay and
// an explicitly-set default as different (they round-trip differently).
func speechEqual(a, b SpeechConfig) bool {
	if a.Language != b.Language {
		return false
	}
	return intPtrEqual(a.Playback.DebounceMS, b.Playback.DebounceMS) &&
		intPtrEqual(a.Playback.KeepAliveIntervalMS, b.Playback.KeepAliveIntervalMS)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
