// Package pose defines the skeletal landmark model and the boundary to
// the external pose-estimation model.
package pose

import "github.com/teslashibe/squatcam/pkg/geometry"

// Joint identifies a skeletal keypoint. Indices follow the COCO-17
// keypoint convention used by MoveNet and similar models.
type Joint int

const (
	Nose Joint = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	NumJoints
)

var jointNames = [NumJoints]string{
	"nose", "left_eye", "right_eye", "left_ear", "right_ear",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle",
}

// String returns the joint's snake_case name.
func (j Joint) String() string {
	if j < 0 || j >= NumJoints {
		return "unknown"
	}
	return jointNames[j]
}

// Landmark is a single skeletal keypoint for one frame.
// X and Y are normalized [0,1] image coordinates (y grows downward).
// Visibility is the model's confidence that the joint is in-frame and
// unoccluded.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Point returns the landmark position as a geometry point.
func (l Landmark) Point() *geometry.Point {
	return &geometry.Point{X: l.X, Y: l.Y}
}

// Pose is the full landmark set produced for one frame.
type Pose struct {
	Landmarks [NumJoints]Landmark `json:"landmarks"`
}

// At returns the landmark for the given joint.
func (p *Pose) At(j Joint) Landmark {
	return p.Landmarks[j]
}
