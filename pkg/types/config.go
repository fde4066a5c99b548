package types

import "errors"

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config holds backend selection and engine tuning for Backend.Attach.
type Config struct {
	Backend string       `json:"backend" yaml:"backend"`
	DataDir string       `json:"data_dir" yaml:"data_dir"`
	Engine  EngineConfig `json:"engine" yaml:"engine"`
}

// EngineConfig tunes the scheduling engine.
type EngineConfig struct {
	// LookbackDays bounds the engagement history window for optimal-time
	// recomputes.
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// BestTimesLookbackDays bounds the history window for best-times
	// queries.
	BestTimesLookbackDays int `json:"best_times_lookback_days" yaml:"best_times_lookback_days"`

	// HorizonDays is how far ahead the recommender searches for a slot.
	HorizonDays int `json:"horizon_days" yaml:"horizon_days"`

	// AutoReschedule enables cloning poor performers to a new slot.
	AutoReschedule bool `json:"auto_reschedule" yaml:"auto_reschedule"`

	// PerformanceThreshold is the score below which a poor-rated item is
	// rescheduled.
	PerformanceThreshold float64 `json:"performance_threshold" yaml:"performance_threshold"`

	// ReconcileSpec is the cron spec for the reconcile job.
	ReconcileSpec string `json:"reconcile_spec" yaml:"reconcile_spec"`

	// ABCheckSpec is the cron spec for the A/B expiry check job.
	ABCheckSpec string `json:"ab_check_spec" yaml:"ab_check_spec"`
}

// Engine defaults.
const (
	DefaultLookbackDays          = 90
	DefaultBestTimesLookbackDays = 60
	DefaultHorizonDays           = 7
	DefaultPerformanceThreshold  = 50.0
	DefaultReconcileSpec         = "0 * * * *"
	DefaultABCheckSpec           = "*/5 * * * *"
)

// DefaultEngineConfig returns the engine defaults with auto-reschedule on.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		LookbackDays:          DefaultLookbackDays,
		BestTimesLookbackDays: DefaultBestTimesLookbackDays,
		HorizonDays:           DefaultHorizonDays,
		AutoReschedule:        true,
		PerformanceThreshold:  DefaultPerformanceThreshold,
		ReconcileSpec:         DefaultReconcileSpec,
		ABCheckSpec:           DefaultABCheckSpec,
	}
}

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrLookbackInvalid  = errors.New("lookback days must be positive")
	ErrHorizonInvalid   = errors.New("horizon days must be positive")
	ErrThresholdInvalid = errors.New("performance threshold must be in [0, 100]")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return c.Engine.Validate()
}

// Validate checks the engine tuning values.
func (e EngineConfig) Validate() error {
	if e.LookbackDays <= 0 || e.BestTimesLookbackDays <= 0 {
		return ErrLookbackInvalid
	}
	if e.HorizonDays <= 0 {
		return ErrHorizonInvalid
	}
	if e.PerformanceThreshold < 0 || e.PerformanceThreshold > 100 {
		return ErrThresholdInvalid
	}
	return nil
}
