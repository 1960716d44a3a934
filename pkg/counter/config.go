// Package counter implements squat repetition counting: pose validation
// and the hysteresis state machine that turns smoothed knee angles into
// counted reps.
package counter

import "time"

// Config holds all tunable parameters for rep counting.
type Config struct {
	// Hysteresis thresholds (degrees). DownThreshold must be below
	// UpThreshold; the gap between them is what keeps a hovering angle
	// from oscillating across a single cutoff.
	DownThreshold float64 // Below this the body is "down"
	UpThreshold   float64 // Above this the body is "up"

	// Cooldown is the minimum time between two counted reps.
	Cooldown time.Duration

	// MinVisibility is the per-landmark visibility floor for the eight
	// joints the validator requires.
	MinVisibility float64

	// UprightMargin is how far (normalized y) the hips must sit below
	// the shoulders for the pose to count as vertical.
	UprightMargin float64

	// HistorySize is the smoothing window length in frames.
	HistorySize int
}

// DefaultConfig returns the recommended counting configuration.
func DefaultConfig() Config {
	return Config{
		DownThreshold: 110, // Knee angle below this = squat bottom
		UpThreshold:   160, // Knee angle above this = standing
		Cooldown:      time.Second,
		MinVisibility: 0.5,
		UprightMargin: 0.1,
		HistorySize:   5,
	}
}
