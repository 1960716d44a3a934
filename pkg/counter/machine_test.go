package counter

import (
	"testing"
	"time"
)

func TestMachine_FullCycleCountsOnce(t *testing.T) {
	m := NewMachine(DefaultConfig())
	base := time.Now()

	angles := []float64{170, 170, 100, 100, 170}
	var counted int
	for i, a := range angles {
		// Spaced well past the cooldown.
		r := m.Step(a, base.Add(time.Duration(i)*2*time.Second))
		if r.Counted {
			counted++
		}
	}

	if counted != 1 {
		t.Errorf("expected exactly 1 counted rep, got %d", counted)
	}
	if m.State() != StateUp {
		t.Errorf("expected final state up, got %v", m.State())
	}
	if m.Count() != 1 {
		t.Errorf("expected count 1, got %d", m.Count())
	}
}

func TestMachine_CooldownSuppressesCountButTransitions(t *testing.T) {
	m := NewMachine(DefaultConfig())
	base := time.Now()

	// First full rep, counted.
	m.Step(170, base)
	m.Step(100, base.Add(2*time.Second))
	r := m.Step(170, base.Add(4*time.Second))
	if !r.Counted {
		t.Fatal("first rep should count")
	}

	// Second cycle bounces back up 100ms after the first count.
	m.Step(100, base.Add(4*time.Second).Add(50*time.Millisecond))
	r = m.Step(170, base.Add(4*time.Second).Add(100*time.Millisecond))

	if r.Counted {
		t.Error("rep within cooldown must not count")
	}
	if r.State != StateUp {
		t.Errorf("state must still transition to up, got %v", r.State)
	}
	if m.Count() != 1 {
		t.Errorf("expected count to stay 1, got %d", m.Count())
	}
}

func TestMachine_HysteresisBand(t *testing.T) {
	m := NewMachine(DefaultConfig())
	now := time.Now()

	// Angles inside the band (110..160) must never change state.
	for _, a := range []float64{120, 140, 155, 115} {
		r := m.Step(a, now)
		if r.State != StateUp {
			t.Fatalf("angle %v inside band moved state to %v", a, r.State)
		}
	}

	m.Step(100, now) // go down
	for _, a := range []float64{120, 140, 155, 115} {
		r := m.Step(a, now)
		if r.State != StateDown {
			t.Fatalf("angle %v inside band moved state to %v", a, r.State)
		}
	}
}

func TestMachine_CounterMonotonic(t *testing.T) {
	m := NewMachine(DefaultConfig())
	base := time.Now()

	angles := []float64{170, 90, 170, 150, 100, 175, 130, 95, 165, 180, 85, 170}
	prev := 0
	for i, a := range angles {
		r := m.Step(a, base.Add(time.Duration(i)*1500*time.Millisecond))
		if r.Count < prev {
			t.Fatalf("counter decreased from %d to %d at step %d", prev, r.Count, i)
		}
		prev = r.Count
	}
}

func TestMachine_Reset(t *testing.T) {
	m := NewMachine(DefaultConfig())
	base := time.Now()

	m.Step(170, base)
	m.Step(90, base.Add(2*time.Second))
	m.Step(170, base.Add(4*time.Second))
	if m.Count() != 1 {
		t.Fatalf("setup rep did not count")
	}

	m.Reset()
	if m.Count() != 0 || m.State() != StateUp {
		t.Errorf("reset did not restore initial state: count=%d state=%v", m.Count(), m.State())
	}

	// After reset the cooldown anchor is cleared too: a fresh rep counts.
	m.Step(90, base.Add(5*time.Second))
	r := m.Step(170, base.Add(7*time.Second))
	if !r.Counted {
		t.Error("rep after reset should count")
	}
}
