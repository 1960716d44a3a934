package pose

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// MoveNetDetector runs MoveNet single-pose estimation via OpenCV's DNN
// module. Output layout is [1, 1, 17, 3] with (y, x, score) per keypoint,
// coordinates already normalized to [0,1].
type MoveNetDetector struct {
	net    gocv.Net
	config Config
	mu     sync.Mutex // Protects inference
}

// NewMoveNet creates a MoveNet pose detector from an ONNX model file.
func NewMoveNet(cfg Config) (*MoveNetDetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load MoveNet model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &MoveNetDetector{
		net:    net,
		config: cfg,
	}, nil
}

// Detect runs pose estimation on a JPEG-encoded frame.
func (d *MoveNetDetector) Detect(jpeg []byte) (Pose, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return Pose{}, false, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return Pose{}, false, fmt.Errorf("empty image")
	}

	size := image.Pt(d.config.InputSize, d.config.InputSize)
	blob := gocv.BlobFromImage(img, 1.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return Pose{}, false, fmt.Errorf("read output tensor: %w", err)
	}
	if len(data) < int(NumJoints)*3 {
		return Pose{}, false, fmt.Errorf("unexpected output size %d", len(data))
	}

	var p Pose
	var scoreSum float64
	for j := 0; j < int(NumJoints); j++ {
		y := float64(data[j*3])
		x := float64(data[j*3+1])
		score := float64(data[j*3+2])

		p.Landmarks[j] = Landmark{X: x, Y: y, Visibility: score}
		scoreSum += score
	}

	// MoveNet always emits 17 keypoints; a person is "detected" when the
	// mean keypoint score clears the threshold.
	if scoreSum/float64(NumJoints) < d.config.ScoreThresh {
		return Pose{}, false, nil
	}

	return p, true, nil
}

// Close releases the network resources.
func (d *MoveNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
