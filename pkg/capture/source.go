// Package capture provides frame sources for the acquisition loop.
//
// Sources hand frames over as JPEG bytes so the loop and its tests never
// touch OpenCV types directly. An empty slice is a transient hiccup the
// loop skips; io.EOF means the stream ended; any other error is fatal.
package capture

// Source supplies a sequence of JPEG-encoded frames.
type Source interface {
	// Next blocks until a frame is available and returns its JPEG bytes.
	// Returns io.EOF when the stream is exhausted. A nil/empty slice
	// with a nil error is a transient empty frame.
	Next() ([]byte, error)

	// Close releases the underlying device or connection. Safe to call
	// once after the final Next.
	Close() error
}
