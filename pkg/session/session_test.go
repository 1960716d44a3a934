package session

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/squatcam/pkg/capture"
	"github.com/teslashibe/squatcam/pkg/counter"
	"github.com/teslashibe/squatcam/pkg/pose"
)

// scriptedSource replays a fixed sequence of Next results.
type scriptedSource struct {
	steps []sourceStep
	pos   int

	mu     sync.Mutex
	closes int
}

type sourceStep struct {
	data []byte
	err  error
}

func (s *scriptedSource) Next() ([]byte, error) {
	if s.pos >= len(s.steps) {
		return nil, io.EOF
	}
	step := s.steps[s.pos]
	s.pos++
	return step.data, step.err
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *scriptedSource) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// noPersonDetector reports an empty frame for every input.
type noPersonDetector struct{}

func (noPersonDetector) Detect([]byte) (pose.Pose, bool, error) { return pose.Pose{}, false, nil }
func (noPersonDetector) Close() error                           { return nil }

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEmitter) Emit(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) byName(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func TestSession_FatalReadStopsLoopAndClosesOnce(t *testing.T) {
	src := &scriptedSource{steps: []sourceStep{
		{data: []byte{1}},
		{data: []byte{2}},
		{err: errors.New("device gone")},
	}}
	sink := &recordingEmitter{}

	s := New(counter.DefaultConfig(),
		func() (capture.Source, error) { return src, nil },
		noPersonDetector{}, sink)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-s.Done()

	if got := sink.byName(EventStatus); got != 2 {
		t.Errorf("expected exactly 2 status events before the failure, got %d", got)
	}
	if got := sink.byName(EventCount); got != 0 {
		t.Errorf("expected no count events, got %d", got)
	}
	if got := src.closeCount(); got != 1 {
		t.Errorf("expected source released exactly once, got %d", got)
	}
	if s.Running() {
		t.Error("session still reports running after loop exit")
	}
}

func TestSession_EmptyFrameSkipped(t *testing.T) {
	src := &scriptedSource{steps: []sourceStep{
		{data: []byte{1}},
		{data: nil}, // transient hiccup
		{data: []byte{2}},
	}}
	sink := &recordingEmitter{}

	s := New(counter.DefaultConfig(),
		func() (capture.Source, error) { return src, nil },
		noPersonDetector{}, sink)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-s.Done()

	// Two real frames, one skipped hiccup, then EOF.
	if got := sink.byName(EventStatus); got != 2 {
		t.Errorf("expected 2 status events, got %d", got)
	}
	if got := src.closeCount(); got != 1 {
		t.Errorf("expected one Close, got %d", got)
	}
}

func TestSession_OpenFailure(t *testing.T) {
	s := New(counter.DefaultConfig(),
		func() (capture.Source, error) { return nil, errors.New("no camera") },
		noPersonDetector{}, &recordingEmitter{})

	if err := s.Start(); err == nil {
		t.Fatal("expected Start to fail when the source cannot be opened")
	}
	if s.Running() {
		t.Error("session must not be running after a failed Start")
	}
}

// endlessSource produces frames until closed.
type endlessSource struct {
	mu     sync.Mutex
	closes int
}

func (s *endlessSource) Next() ([]byte, error) {
	time.Sleep(time.Millisecond)
	return []byte{1}, nil
}

func (s *endlessSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func TestSession_StopCancelsLoop(t *testing.T) {
	src := &endlessSource{}
	s := New(counter.DefaultConfig(),
		func() (capture.Source, error) { return src, nil },
		noPersonDetector{}, &recordingEmitter{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start: expected ErrAlreadyRunning, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	s.Stop()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after Stop")
	}

	src.mu.Lock()
	closes := src.closes
	src.mu.Unlock()
	if closes != 1 {
		t.Errorf("expected one Close, got %d", closes)
	}
}

func TestSession_RestartResetsCount(t *testing.T) {
	opens := 0
	s := New(counter.DefaultConfig(),
		func() (capture.Source, error) {
			opens++
			return &scriptedSource{}, nil // immediate EOF
		},
		noPersonDetector{}, &recordingEmitter{})

	for i := 0; i < 2; i++ {
		if err := s.Start(); err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		<-s.Done()
		if s.Count() != 0 {
			t.Errorf("run %d: expected count 0, got %d", i, s.Count())
		}
	}
	if opens != 2 {
		t.Errorf("expected the source factory to run per Start, got %d", opens)
	}

	if s.ID() == "" {
		t.Error("expected a session id after Start")
	}
}

func TestSession_NoPersonStatus(t *testing.T) {
	src := &scriptedSource{steps: []sourceStep{{data: []byte{1}}}}
	s := New(counter.DefaultConfig(),
		func() (capture.Source, error) { return src, nil },
		noPersonDetector{}, &recordingEmitter{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-s.Done()

	if got := s.LastStatus(); got != StatusNoPerson {
		t.Errorf("expected last status %q, got %q", StatusNoPerson, got)
	}
}
