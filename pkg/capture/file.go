package capture

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// File plays back a recorded video file as a frame source. Useful for
// offline analysis of recorded workout sessions.
type File struct {
	cap *gocv.VideoCapture
	img gocv.Mat
}

// OpenFile opens a video file readable by OpenCV.
func OpenFile(path string) (*File, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}

	return &File{
		cap: vc,
		img: gocv.NewMat(),
	}, nil
}

// Next decodes the next frame JPEG-encoded, or io.EOF at end of file.
func (f *File) Next() ([]byte, error) {
	if ok := f.cap.Read(&f.img); !ok {
		// VideoCapture does not distinguish end-of-file from a read
		// failure; for a file source end-of-stream is the sane reading.
		return nil, io.EOF
	}
	if f.img.Empty() {
		return nil, nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, f.img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

// Close releases the file handle and scratch buffers.
func (f *File) Close() error {
	f.img.Close()
	return f.cap.Close()
}
