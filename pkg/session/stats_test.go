package session

import (
	"math"
	"testing"
	"time"
)

func TestStats_Summary(t *testing.T) {
	start := time.Now()
	s := newStats(start)

	s.Record(start.Add(10*time.Second), 95)
	s.Record(start.Add(25*time.Second), 85)
	s.Record(start.Add(40*time.Second), 90)

	sum := s.Summary(start.Add(60 * time.Second))

	if sum.Reps != 3 {
		t.Errorf("expected 3 reps, got %d", sum.Reps)
	}
	if math.Abs(sum.RepsPerMinute-3) > 1e-9 {
		t.Errorf("expected 3 reps/min, got %v", sum.RepsPerMinute)
	}
	if math.Abs(sum.AvgDepth-90) > 1e-9 {
		t.Errorf("expected avg depth 90, got %v", sum.AvgDepth)
	}
	if math.Abs(sum.BestDepth-85) > 1e-9 {
		t.Errorf("expected best depth 85, got %v", sum.BestDepth)
	}
}

func TestStats_EmptySummary(t *testing.T) {
	start := time.Now()
	s := newStats(start)

	sum := s.Summary(start.Add(time.Second))
	if sum.Reps != 0 || sum.AvgDepth != 0 || sum.BestDepth != 0 {
		t.Errorf("unexpected zero-rep summary %+v", sum)
	}
	if sum.RepsPerMinute != 0 {
		t.Errorf("expected 0 reps/min, got %v", sum.RepsPerMinute)
	}
}
