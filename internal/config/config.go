// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New(); Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Store backend identifiers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Store selects the participant store backend: memory or postgres.
	Store string `koanf:"store"`

	// PostgresDSN is the connection string used when Store is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// HistoryLimit caps the number of history entries returned per read.
	HistoryLimit int `koanf:"history_limit"`

	// ClaimMinPoints and ClaimMaxPoints bound the random award per claim.
	ClaimMinPoints int `koanf:"claim_min_points"`
	ClaimMaxPoints int `koanf:"claim_max_points"`

	// BroadcastQueueSize bounds the in-memory ranking event queue.
	BroadcastQueueSize int `koanf:"broadcast_queue_size"`

	// ObserverBuffer sets the per-observer outbound message buffer.
	ObserverBuffer int `koanf:"observer_buffer"`

	// SeedParticipants are registered on startup when the store is empty.
	SeedParticipants []string `koanf:"seed_participants"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		Store:              StoreMemory,
		PostgresDSN:        "",
		HistoryLimit:       100,
		ClaimMinPoints:     1,
		ClaimMaxPoints:     100,
		BroadcastQueueSize: 1024,
		ObserverBuffer:     256,
		SeedParticipants: []string{
			"Rahul", "Kamal", "Sanak", "Priya", "Amit",
			"Sneha", "Rohit", "Kavya", "Arjun", "Meera",
		},
	}
}
