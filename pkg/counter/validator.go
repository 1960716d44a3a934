package counter

import "github.com/teslashibe/squatcam/pkg/pose"

// Orientation classifies whether a pose is usable for angle measurement.
type Orientation int

const (
	// OrientationInvalid means the pose is occluded or not upright.
	OrientationInvalid Orientation = iota
	// OrientationVertical means the torso is upright and all required
	// joints are visible.
	OrientationVertical
)

// requiredJoints are the landmarks that must be visible before any angle
// is trusted: both shoulders, hips, knees and ankles.
var requiredJoints = [8]pose.Joint{
	pose.LeftShoulder, pose.RightShoulder,
	pose.LeftHip, pose.RightHip,
	pose.LeftKnee, pose.RightKnee,
	pose.LeftAnkle, pose.RightAnkle,
}

// ClassifyOrientation reports whether the body is in a usable, upright
// position. Any required joint below the visibility floor invalidates the
// frame. Otherwise the pose is vertical when the average hip sits below
// the average shoulder by more than the margin (image y grows downward).
//
// This is a cheap 2D proxy for "the camera sees a standing or squatting
// person from a usable angle", not a true 3D orientation estimate. A
// person lying toward the camera can fool it; that is an accepted
// limitation of working in image coordinates.
func ClassifyOrientation(p *pose.Pose, cfg Config) Orientation {
	for _, j := range requiredJoints {
		if p.At(j).Visibility < cfg.MinVisibility {
			return OrientationInvalid
		}
	}

	shoulderY := (p.At(pose.LeftShoulder).Y + p.At(pose.RightShoulder).Y) / 2
	hipY := (p.At(pose.LeftHip).Y + p.At(pose.RightHip).Y) / 2

	if hipY-shoulderY > cfg.UprightMargin {
		return OrientationVertical
	}
	return OrientationInvalid
}
