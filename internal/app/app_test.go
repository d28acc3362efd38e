package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingerbird/internal/capture"
	"github.com/ayusman/fingerbird/internal/detector"
	"github.com/ayusman/fingerbird/internal/game"
	"github.com/ayusman/fingerbird/internal/screen"
	"github.com/ayusman/fingerbird/internal/store"
)

// scriptedWindow answers WaitKey from a fixed list and presses ESC once
// the list runs out.
type scriptedWindow struct {
	keys   []int
	delays []int
	shown  int
	closed bool
}

func (w *scriptedWindow) Show(frame *gocv.Mat) {
	if frame != nil && !frame.Empty() {
		w.shown++
	}
}

func (w *scriptedWindow) WaitKey(delayMs int) int {
	w.delays = append(w.delays, delayMs)
	if len(w.keys) == 0 {
		return screen.KeyEscape
	}
	k := w.keys[0]
	w.keys = w.keys[1:]
	return k
}

func (w *scriptedWindow) Close() error {
	w.closed = true
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	phases []game.Phase
	states []game.State
}

func (p *recordingPublisher) Publish(frame *gocv.Mat, s game.State, phase game.Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phases = append(p.phases, phase)
	p.states = append(p.states, s)
}

func repeat(key, n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = key
	}
	return keys
}

func newCamera(t *testing.T) *capture.MockCamera {
	t.Helper()
	frames := capture.BlankFrames(1)
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return capture.NewMockCamera(frames, true)
}

func countDelays(delays []int, want int) int {
	n := 0
	for _, d := range delays {
		if d == want {
			n++
		}
	}
	return n
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Config{Window: &scriptedWindow{}}); !errors.Is(err, ErrNoCamera) {
		t.Errorf("New without camera error = %v, want ErrNoCamera", err)
	}
	if _, err := New(Config{Camera: capture.NewMockCamera(nil, false)}); !errors.Is(err, ErrNoWindow) {
		t.Errorf("New without window error = %v, want ErrNoWindow", err)
	}
}

func TestApp_FallRestartQuit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV integration test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// With no hand the bird falls from 240 and hits the floor on tick 8.
	keys := repeat(screen.KeyNone, 8)
	keys = append(keys, screen.KeyRestart)
	keys = append(keys, repeat(screen.KeyNone, 8)...)
	keys = append(keys, screen.KeyNone, screen.KeyEscape)

	window := &scriptedWindow{keys: keys}
	live := &recordingPublisher{}
	det := detector.NewMockDetector()
	camera := newCamera(t)

	a, err := New(Config{
		Camera:   camera,
		Detector: det,
		Window:   window,
		Store:    s,
		Random:   game.NewSequenceSource(150),
		Live:     live,
		Mirror:   true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if a.Session().Phase() != game.Terminated {
		t.Errorf("phase = %s, want terminated", a.Session().Phase())
	}
	if camera.IsOpen() {
		t.Error("camera should be closed after Run")
	}

	results := a.Results()
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, r := range results {
		if r.Ticks != 8 || r.Score != 0 || !r.Final.Over {
			t.Errorf("result %d = %+v, want 8 ticks, score 0, over", i, r)
		}
	}

	// 8 frames and one game-over overlay per run
	if window.shown != 18 {
		t.Errorf("frames shown = %d, want 18", window.shown)
	}
	if got := countDelays(window.delays, RestartPoll); got != 3 {
		t.Errorf("restart polls = %d, want 3", got)
	}
	if got := countDelays(window.delays, TickDelay); got != 16 {
		t.Errorf("tick polls = %d, want 16", got)
	}

	if len(live.phases) != 18 {
		t.Fatalf("published = %d, want 18", len(live.phases))
	}
	if live.phases[6] != game.Playing || live.phases[7] != game.GameOver || live.phases[8] != game.AwaitingRestart {
		t.Errorf("phases around the crash = %v", live.phases[6:9])
	}
	if live.states[9].BirdY != 247 {
		t.Errorf("first tick after restart BirdY = %v, want 247", live.states[9].BirdY)
	}

	if det.Calls() != 16 {
		t.Errorf("detector calls = %d, want 16", det.Calls())
	}

	n, err := s.Runs().Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("stored runs = %d, want 2", n)
	}
}

func TestApp_EscapeWhilePlaying(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV integration test")
	}

	window := &scriptedWindow{keys: []int{screen.KeyNone, screen.KeyNone, screen.KeyEscape}}
	a, err := New(Config{Camera: newCamera(t), Window: window})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if window.shown != 3 {
		t.Errorf("frames shown = %d, want 3", window.shown)
	}
	if a.Session().Ticks() != 3 {
		t.Errorf("ticks = %d, want 3", a.Session().Ticks())
	}
	if len(a.Results()) != 0 {
		t.Errorf("quitting mid-run must not record a result")
	}
}

func TestApp_HandKeepsBirdInGap(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV integration test")
	}

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PointingLandmarks(0.5)})

	// The pipe reaches the bird around tick 38 and recycles on tick 51.
	window := &scriptedWindow{keys: repeat(screen.KeyNone, 59)}
	a, err := New(Config{
		Camera:   newCamera(t),
		Detector: det,
		Window:   window,
		Random:   game.NewSequenceSource(170),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	state := a.Session().State()
	if state.Over {
		t.Fatalf("bird should have passed the gap: %v", state)
	}
	if state.Score != 1 {
		t.Errorf("score = %d, want 1", state.Score)
	}
	if state.BirdY != 240 || state.Velocity != 0 {
		t.Errorf("bird = (%v, %v), want held at 240", state.BirdY, state.Velocity)
	}
	if a.Session().Ticks() != 60 {
		t.Errorf("ticks = %d, want 60", a.Session().Ticks())
	}
}

func TestApp_CameraFailureSkipsTick(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV integration test")
	}

	camera := newCamera(t)
	camera.FailRead(1)
	camera.FailRead(2)

	window := &scriptedWindow{keys: repeat(screen.KeyNone, 10)}
	a, err := New(Config{Camera: camera, Window: window})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	results := a.Results()
	if len(results) != 1 || results[0].Ticks != 8 {
		t.Fatalf("results = %+v, want one run of 8 ticks", results)
	}
	if camera.Reads() != 10 {
		t.Errorf("camera reads = %d, want 10", camera.Reads())
	}
	if window.shown != 9 {
		t.Errorf("frames shown = %d, want 9", window.shown)
	}
}

func TestApp_CancelledContext(t *testing.T) {
	window := &scriptedWindow{}
	a, err := New(Config{Camera: capture.NewMockCamera(nil, false), Window: window})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.Session().Phase() != game.Terminated {
		t.Errorf("phase = %s, want terminated", a.Session().Phase())
	}
	if window.shown != 0 || len(window.delays) != 0 {
		t.Error("a cancelled run must not render or poll keys")
	}
}

func TestApp_ClosedCameraIsFatal(t *testing.T) {
	camera := &closingCamera{MockCamera: capture.NewMockCamera(nil, false)}
	a, err := New(Config{Camera: camera, Window: &scriptedWindow{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Run(context.Background()); !errors.Is(err, capture.ErrCameraNotOpen) {
		t.Errorf("Run() error = %v, want ErrCameraNotOpen", err)
	}
}

// closingCamera opens successfully but reports itself closed on read.
type closingCamera struct {
	*capture.MockCamera
}

func (c *closingCamera) ReadFrame() (*gocv.Mat, error) {
	return nil, capture.ErrCameraNotOpen
}
