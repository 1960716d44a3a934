package session

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one run for dashboards and the replay tool.
type Summary struct {
	Reps          int           `json:"reps"`
	Duration      time.Duration `json:"-"`
	DurationSecs  float64       `json:"duration_secs"`
	RepsPerMinute float64       `json:"reps_per_minute"`
	AvgDepth      float64       `json:"avg_depth"`  // mean bottom knee angle, degrees
	BestDepth     float64       `json:"best_depth"` // lowest bottom knee angle, degrees
}

// Stats accumulates per-rep timing and depth for one run. The loop is
// the only writer; Summary may be read concurrently.
type Stats struct {
	mu     sync.Mutex
	start  time.Time
	depths []float64
}

func newStats(start time.Time) *Stats {
	return &Stats{start: start}
}

// Record adds one counted rep with its bottom knee angle.
func (s *Stats) Record(now time.Time, depth float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depths = append(s.depths, depth)
}

// Summary computes the run statistics as of now.
func (s *Stats) Summary(now time.Time) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := now.Sub(s.start)
	out := Summary{
		Reps:         len(s.depths),
		Duration:     elapsed,
		DurationSecs: elapsed.Seconds(),
	}

	if mins := elapsed.Minutes(); mins > 0 {
		out.RepsPerMinute = float64(len(s.depths)) / mins
	}
	if len(s.depths) > 0 {
		out.AvgDepth = stat.Mean(s.depths, nil)
		out.BestDepth = floats.Min(s.depths)
	}
	return out
}
