// Package config provides the configuration schema and loader for the Parlo
// speech-practice server.
package config

import "time"

// LogLevel controls log verbosity for the Parlo server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// JitterMode selects how vocabulary scores vary inside their bands.
type JitterMode string

const (
	// JitterNone keeps scores at the deterministic band midpoint.
	JitterNone JitterMode = "none"

	// JitterRandom varies scores within their bands using a seeded source.
	JitterRandom JitterMode = "random"
)

// IsValid reports whether j is a recognised jitter mode.
func (j JitterMode) IsValid() bool {
	return j == JitterNone || j == JitterRandom
}

// Config is the root configuration structure for Parlo.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Speech    SpeechConfig    `yaml:"speech"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// SpeechConfig holds settings shared by the capture and playback controllers.
type SpeechConfig struct {
	// Language is the BCP-47 tag used for recognition and voice selection
	// (e.g., "en-US").
	Language string `yaml:"language"`

	Playback PlaybackConfig `yaml:"playback"`
}

// PlaybackConfig tunes the platform-bug workarounds in the playback
// controller. Both delays are configuration constants, not protocol
// requirements: a platform without the corresponding bug may set them to zero.
type PlaybackConfig struct {
	// DebounceMS is the cancel-to-speak delay in milliseconds. Nil means the
	// default (100 ms); an explicit 0 schedules the utterance on the next
	// event-loop turn.
	DebounceMS *int `yaml:"debounce_ms"`

	// KeepAliveIntervalMS paces the anti-stall resume calls in milliseconds.
	// Nil means the default (10 s); an explicit 0 disables the keep-alive.
	KeepAliveIntervalMS *int `yaml:"keep_alive_interval_ms"`
}

// Debounce returns the configured debounce as a duration.
func (p PlaybackConfig) Debounce() time.Duration {
	if p.DebounceMS == nil {
		return 100 * time.Millisecond
	}
	return time.Duration(*p.DebounceMS) * time.Millisecond
}

// KeepAliveInterval returns the configured keep-alive interval as a duration.
func (p PlaybackConfig) KeepAliveInterval() time.Duration {
	if p.KeepAliveIntervalMS == nil {
		return 10 * time.Second
	}
	return time.Duration(*p.KeepAliveIntervalMS) * time.Millisecond
}

// ScoringConfig controls the vocabulary scorer's in-band variation.
type ScoringConfig struct {
	// Jitter selects the variation mode. Default: none.
	Jitter JitterMode `yaml:"jitter"`

	// Seed seeds the random source when Jitter is "random". Zero means seed
	// from the current time.
	Seed int64 `yaml:"seed"`
}

// TelemetryConfig controls the OpenTelemetry metrics pipeline.
type TelemetryConfig struct {
	// Enabled turns on the Prometheus exporter bridge and the /metrics endpoint.
	Enabled bool `yaml:"enabled"`

	// ServiceName is the service name reported in telemetry. Default: "parlo".
	ServiceName string `yaml:"service_name"`
}
