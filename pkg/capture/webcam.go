package capture

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Webcam reads frames from a local camera device via OpenCV.
type Webcam struct {
	cap *gocv.VideoCapture
	img gocv.Mat
}

// OpenWebcam opens the camera at the given device ID (0 for the default
// camera) with the requested capture resolution.
func OpenWebcam(deviceID, width, height int) (*Webcam, error) {
	vc, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}
	if width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	return &Webcam{
		cap: vc,
		img: gocv.NewMat(),
	}, nil
}

// Next grabs one frame and returns it JPEG-encoded.
func (w *Webcam) Next() ([]byte, error) {
	if ok := w.cap.Read(&w.img); !ok {
		return nil, fmt.Errorf("camera read failed")
	}
	if w.img.Empty() {
		// Transient dropped frame; the device is still alive.
		return nil, nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// The buffer is native memory; hand back a Go-owned copy.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

// Close releases the camera and scratch buffers.
func (w *Webcam) Close() error {
	w.img.Close()
	return w.cap.Close()
}
