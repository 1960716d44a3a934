package pose

// Detector is the interface for pose estimation backends.
type Detector interface {
	// Detect runs pose estimation on a JPEG-encoded frame.
	// found is false when no person is in the frame; err reports an
	// inference failure, which callers treat as fatal.
	Detect(jpeg []byte) (p Pose, found bool, err error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath   string  `yaml:"model_path"`   // Path to ONNX model
	ScoreThresh float64 `yaml:"score_thresh"` // Minimum mean keypoint score to report a person
	InputSize   int     `yaml:"input_size"`   // Model input width/height (square)
}

// DefaultConfig returns production defaults for MoveNet Lightning.
func DefaultConfig() Config {
	return Config{
		ModelPath:   "models/movenet_lightning.onnx",
		ScoreThresh: 0.3,
		InputSize:   192,
	}
}
