package pose

import "testing"

func TestJointString(t *testing.T) {
	cases := map[Joint]string{
		Nose:       "nose",
		LeftHip:    "left_hip",
		RightAnkle: "right_ankle",
		Joint(99):  "unknown",
		Joint(-1):  "unknown",
	}
	for j, want := range cases {
		if got := j.String(); got != want {
			t.Errorf("Joint(%d).String() = %q, want %q", int(j), got, want)
		}
	}
}

func TestJointCount(t *testing.T) {
	// COCO-17 convention: the required squat joints are all inside the
	// enumeration range.
	if NumJoints != 17 {
		t.Fatalf("expected 17 joints, got %d", NumJoints)
	}
	for _, j := range []Joint{LeftShoulder, RightShoulder, LeftHip, RightHip,
		LeftKnee, RightKnee, LeftAnkle, RightAnkle} {
		if j < 0 || j >= NumJoints {
			t.Errorf("joint %v outside enumeration", j)
		}
	}
}

func TestLandmarkPoint(t *testing.T) {
	lm := Landmark{X: 0.25, Y: 0.75, Visibility: 0.9}
	pt := lm.Point()
	if pt.X != 0.25 || pt.Y != 0.75 {
		t.Errorf("unexpected point %+v", pt)
	}
}
