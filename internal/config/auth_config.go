package config

import "time"

type AuthConfig interface {
	GetSnapshotSigningKey() []byte
	GetDirectoryLatency() time.Duration
}

type Auth struct{}

var _ AuthConfig = Auth{}

// GetSnapshotSigningKey returns the key used to sign the persisted session
// snapshot. The default is fine for the demo catalog; a real deployment sets
// SNAPSHOT_SIGNING_KEY.
func (Auth) GetSnapshotSigningKey() []byte {
	return []byte(GetEnv("SNAPSHOT_SIGNING_KEY", "lrms-demo-snapshot-key"))
}

// GetDirectoryLatency returns the artificial latency of the simulated
// identity directory.
func (Auth) GetDirectoryLatency() time.Duration {
	value := GetEnv("DIRECTORY_LATENCY", "800ms")
	latency, err := time.ParseDuration(value)
	if err != nil {
		return 800 * time.Millisecond
	}
	return latency
}
