// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// GitHubToken authenticates against the content store. Intentionally
	// empty by default; without it every store operation fails softly.
	GitHubToken string `koanf:"github_token"`

	// RepoFullName identifies the target repository as "owner/name".
	RepoFullName string `koanf:"repo_full_name"`

	// Branch is the branch submission commits target.
	Branch string `koanf:"branch"`

	// SubmissionsDir is the repository prefix raw submissions live under.
	SubmissionsDir string `koanf:"submissions_dir"`

	// SnapshotPath is the fixed path of the published aggregate snapshot.
	SnapshotPath string `koanf:"snapshot_path"`

	// SampleFile is excluded from aggregation by exact name.
	SampleFile string `koanf:"sample_file"`

	// RateLimitWindowSeconds is the per-source admission window.
	RateLimitWindowSeconds int `koanf:"rate_limit_window_seconds"`

	// StoreTimeoutSeconds bounds each outbound store call.
	StoreTimeoutSeconds int `koanf:"store_timeout_seconds"`

	// PublishRetries is how many times a conflicting snapshot publish is
	// retried with a fresh recompute before giving up.
	PublishRetries int `koanf:"publish_retries"`

	// FetchConcurrency bounds parallel submission fetches during recompute.
	FetchConcurrency int `koanf:"fetch_concurrency"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8000",
		Branch:                 "main",
		SubmissionsDir:         "submissions",
		SnapshotPath:           "data/data.json",
		SampleFile:             "sample.csv",
		RateLimitWindowSeconds: 86400,
		StoreTimeoutSeconds:    15,
		PublishRetries:         1,
		FetchConcurrency:       4,
	}
}
