// Package session runs the acquisition loop: frames from a capture
// source, through the external pose model and the counting pipeline, out
// to the event sink.
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/squatcam/internal/log"
	"github.com/teslashibe/squatcam/pkg/capture"
	"github.com/teslashibe/squatcam/pkg/counter"
	"github.com/teslashibe/squatcam/pkg/pose"
)

// Event names on the sink, kept compatible with the original SocketIO
// contract.
const (
	EventStatus = "squat_status"
	EventCount  = "squat_count"
)

// StatusPayload accompanies EventStatus, once per processed frame.
type StatusPayload struct {
	Status string `json:"status"`
}

// CountPayload accompanies EventCount on each counted rep.
type CountPayload struct {
	Count int `json:"count"`
}

// Emitter is the event sink capability. Implementations must never
// block; the loop fires and forgets.
type Emitter interface {
	Emit(event string, payload any)
}

// FrameSink optionally receives raw JPEG frames for live preview.
type FrameSink interface {
	Frame(jpeg []byte)
}

// SourceFunc opens the capture source. The session calls it on every
// Start so a stopped session can be restarted against a fresh device
// handle.
type SourceFunc func() (capture.Source, error)

// ErrAlreadyRunning is returned by Start while a previous run is active.
var ErrAlreadyRunning = errors.New("session already running")

// previewEvery decimates preview frames sent to the frame sink.
const previewEvery = 3

// Session owns one acquisition loop and its lifecycle. Start and Stop
// may be called from any goroutine; the loop itself runs alone and is
// the only writer of counting state.
type Session struct {
	cfg        counter.Config
	openSource SourceFunc
	detector   pose.Detector
	emitter    Emitter
	frames     FrameSink

	pipeline *Pipeline
	stats    *Stats

	mu      sync.Mutex
	running bool
	id      string
	cancel  context.CancelFunc
	done    chan struct{}

	count      atomic.Int64
	lastStatus atomic.Value // string
}

// New creates a session. The emitter may be nil when no sink is wired,
// e.g. in offline analysis.
func New(cfg counter.Config, open SourceFunc, detector pose.Detector, emitter Emitter) *Session {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	s := &Session{
		cfg:        cfg,
		openSource: open,
		detector:   detector,
		emitter:    emitter,
		pipeline:   NewPipeline(cfg),
	}
	s.lastStatus.Store(StatusReady)
	return s
}

// SetFrameSink wires an optional preview sink. Must be called before
// Start.
func (s *Session) SetFrameSink(fs FrameSink) {
	s.frames = fs
}

// Start resets all counting state, opens the capture source and launches
// the acquisition loop. It returns without waiting for the loop; use
// Done to join.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	src, err := s.openSource()
	if err != nil {
		return err
	}

	s.pipeline.Reset()
	s.stats = newStats(time.Now())
	s.count.Store(0)
	s.lastStatus.Store(StatusReady)
	s.id = uuid.NewString()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	log.Info("session started", "session", s.id)
	go s.run(ctx, src)
	return nil
}

// Stop requests cancellation. It does not wait for the loop to exit;
// cancellation is cooperative and takes effect within one frame.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && s.cancel != nil {
		s.cancel()
	}
}

// Done returns a channel closed when the current run's loop has exited
// and the source is released. Returns nil before the first Start.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Running reports whether the loop is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ID returns the current run's identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Count returns the rep count of the current run. Safe to call
// concurrently with the loop.
func (s *Session) Count() int {
	return int(s.count.Load())
}

// LastStatus returns the most recent per-frame status string.
func (s *Session) LastStatus() string {
	return s.lastStatus.Load().(string)
}

// Summary returns statistics for the current run. Zero value before the
// first Start.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	st := s.stats
	s.mu.Unlock()
	if st == nil {
		return Summary{}
	}
	return st.Summary(time.Now())
}

// run is the acquisition loop. One frame at a time: capture, infer,
// validate, measure, smooth, step the state machine, emit. The source is
// released exactly once, on every exit path including panics.
func (s *Session) run(ctx context.Context, src capture.Source) {
	id := s.id
	done := s.done
	defer func() {
		if r := recover(); r != nil {
			// Fail closed: an unexpected mid-pipeline failure is
			// not something to resume from.
			log.Error("panic in acquisition loop", "session", id, "panic", r)
		}
		if err := src.Close(); err != nil {
			log.Warn("closing capture source", "error", err)
		}
		log.Info("session stopped", "session", id, "reps", s.Count())
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(done)
	}()

	frameN := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		data, err := src.Next()
		if err != nil {
			// Fatal for this run: a failing camera needs external
			// intervention, not retries.
			if errors.Is(err, io.EOF) {
				log.Info("capture stream ended", "session", id)
			} else {
				log.Error("capture read failed", "session", id, "error", err)
			}
			return
		}
		if len(data) == 0 {
			// Transient dropped frame.
			continue
		}

		if s.frames != nil && frameN%previewEvery == 0 {
			s.frames.Frame(data)
		}
		frameN++

		p, found, err := s.detector.Detect(data)
		if err != nil {
			log.Error("pose inference failed", "session", id, "error", err)
			return
		}

		var u Update
		if found {
			u = s.pipeline.Process(&p, time.Now())
		} else {
			u = s.pipeline.Process(nil, time.Now())
		}

		s.lastStatus.Store(u.Status)
		s.emitter.Emit(EventStatus, StatusPayload{Status: u.Status})

		if u.Counted {
			s.count.Store(int64(u.Count))
			s.stats.Record(time.Now(), u.Depth)
			s.emitter.Emit(EventCount, CountPayload{Count: u.Count})
			log.Info("rep counted", "session", id, "count", u.Count)
		}
	}
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, any) {}
