package session

import (
	"fmt"
	"time"

	"github.com/teslashibe/squatcam/pkg/counter"
	"github.com/teslashibe/squatcam/pkg/geometry"
	"github.com/teslashibe/squatcam/pkg/pose"
	"github.com/teslashibe/squatcam/pkg/smoothing"
)

// Status strings emitted once per processed frame.
const (
	// StatusReady means a usable pose was seen but no smoothed angle
	// exists yet.
	StatusReady = "ready"
	// StatusNoPerson means the detector found nobody in the frame.
	StatusNoPerson = "no_person"
	// StatusInvalidPosition means a person was found but the pose is
	// occluded or not upright.
	StatusInvalidPosition = "invalid_position"
)

// Update is the outcome of pushing one frame's pose through the pipeline.
type Update struct {
	Status   string  // wire status: ready, no_person, invalid_position, angle:<x>,<state>
	Angle    float64 // smoothed knee angle, valid when HasAngle
	HasAngle bool
	State    counter.State
	Counted  bool    // true when this frame counted a rep
	Count    int     // cumulative rep count
	Depth    float64 // bottom angle of the counted rep, valid when Counted
}

// Pipeline is the per-frame conditioning chain: orientation validation,
// per-leg knee angles, median smoothing and the rep state machine. It is
// pure with respect to I/O, so the acquisition loop, the replay tool and
// tests all drive it the same way. Not safe for concurrent use.
type Pipeline struct {
	cfg      counter.Config
	smoother *smoothing.Smoother
	machine  *counter.Machine

	// Bottom-angle tracking for per-rep depth stats.
	inDown bool
	bottom float64
}

// NewPipeline creates a pipeline with the given counting configuration.
func NewPipeline(cfg counter.Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		smoother: smoothing.New(cfg.HistorySize),
		machine:  counter.NewMachine(cfg),
	}
}

// Reset restores the initial state: empty window, up posture, zero count.
func (p *Pipeline) Reset() {
	p.smoother.Reset()
	p.machine.Reset()
	p.inDown = false
}

// Count returns the cumulative rep count.
func (p *Pipeline) Count() int {
	return p.machine.Count()
}

// Process feeds one frame's pose (nil when no person was detected) and
// returns the resulting status and any counted rep. Exactly one Update is
// produced per frame, whatever happened, so consumers can always tell
// "no usable signal" from silence.
func (p *Pipeline) Process(ps *pose.Pose, now time.Time) Update {
	if ps == nil {
		return Update{Status: StatusNoPerson, State: p.machine.State(), Count: p.machine.Count()}
	}

	if counter.ClassifyOrientation(ps, p.cfg) != counter.OrientationVertical {
		return Update{Status: StatusInvalidPosition, State: p.machine.State(), Count: p.machine.Count()}
	}

	angle, ok := p.kneeAngle(ps)
	smoothed, ok := p.smoother.Smooth(angle, ok)
	if !ok {
		// Missing measurement: no transition is evaluated and the
		// window is left untouched.
		return Update{Status: StatusReady, State: p.machine.State(), Count: p.machine.Count()}
	}

	r := p.machine.Step(smoothed, now)

	u := Update{
		Angle:    smoothed,
		HasAngle: true,
		State:    r.State,
		Counted:  r.Counted,
		Count:    r.Count,
	}

	// Track the lowest angle of the current descent for depth stats.
	if r.State == counter.StateDown {
		if !p.inDown || smoothed < p.bottom {
			p.bottom = smoothed
		}
		p.inDown = true
	} else {
		if r.Counted {
			u.Depth = p.bottom
		}
		p.inDown = false
	}

	label := r.State.String()
	if r.Counted {
		label = "counted"
	}
	u.Status = fmt.Sprintf("angle:%.1f,%s", smoothed, label)
	return u
}

// kneeAngle computes the hip-knee-ankle angle for each leg and merges
// them: the average when both are defined, the single defined side during
// partial occlusion, undefined otherwise.
func (p *Pipeline) kneeAngle(ps *pose.Pose) (float64, bool) {
	left, lok := geometry.Angle(
		p.visiblePoint(ps, pose.LeftHip),
		p.visiblePoint(ps, pose.LeftKnee),
		p.visiblePoint(ps, pose.LeftAnkle),
	)
	right, rok := geometry.Angle(
		p.visiblePoint(ps, pose.RightHip),
		p.visiblePoint(ps, pose.RightKnee),
		p.visiblePoint(ps, pose.RightAnkle),
	)

	switch {
	case lok && rok:
		return (left + right) / 2, true
	case lok:
		return left, true
	case rok:
		return right, true
	default:
		return 0, false
	}
}

// visiblePoint returns the landmark position, or nil when the landmark is
// below the visibility floor and must be treated as absent.
func (p *Pipeline) visiblePoint(ps *pose.Pose, j pose.Joint) *geometry.Point {
	lm := ps.At(j)
	if lm.Visibility < p.cfg.MinVisibility {
		return nil
	}
	return lm.Point()
}
