// Package app runs the Flappy Finger Bird frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/fingerbird/internal/capture"
	"github.com/ayusman/fingerbird/internal/detector"
	"github.com/ayusman/fingerbird/internal/game"
	"github.com/ayusman/fingerbird/internal/input"
	"github.com/ayusman/fingerbird/internal/logger"
	"github.com/ayusman/fingerbird/internal/screen"
	"github.com/ayusman/fingerbird/internal/store"
)

// Key polling delays in milliseconds.
const (
	// TickDelay is the key wait after each rendered frame.
	TickDelay = 1
	// RestartPoll is the key wait while the game-over screen is up.
	RestartPoll = 100
)

var (
	// ErrNoCamera is returned by New without a camera.
	ErrNoCamera = errors.New("app: camera is required")
	// ErrNoWindow is returned by New without a window.
	ErrNoWindow = errors.New("app: window is required")
)

// Publisher receives every rendered frame with the state it shows.
type Publisher interface {
	Publish(frame *gocv.Mat, s game.State, phase game.Phase)
}

// Config holds the collaborators of the game loop. Store, Detector, Live
// and Random are optional.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Window   screen.Window
	Store    *store.Store
	Random   game.RandomSource
	Logger   *zap.Logger
	Live     Publisher
	Mirror   bool
}

// App is the game loop: it reads controls from the camera, steps the
// session, draws the result and reacts to keys.
type App struct {
	config  Config
	log     *zap.Logger
	input   *input.Adapter
	session *game.Session

	mu       sync.Mutex
	results  []game.Result
	runStart time.Time
}

// New creates an App with the given configuration.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, ErrNoCamera
	}
	if config.Window == nil {
		return nil, ErrNoWindow
	}

	log := logger.OrNop(config.Logger)
	a := &App{
		config:  config,
		log:     log,
		input:   input.New(config.Camera, config.Detector, config.Mirror, log),
		session: game.NewSession(game.NewEngine(config.Random, game.Height)),
	}
	a.session.OnGameOver(a.recordRun)
	return a, nil
}

// Session returns the game session driven by the loop.
func (a *App) Session() *game.Session {
	return a.session
}

// Results returns the runs finished so far, oldest first.
func (a *App) Results() []game.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]game.Result(nil), a.results...)
}

// Run opens the camera and plays until ESC is pressed or ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.config.Camera.Close(); err != nil {
			a.log.Warn("close camera", zap.Error(err))
		}
	}()

	a.startRun()
	a.log.Info("game started", zap.Bool("mirror", a.config.Mirror))

	for {
		if ctx.Err() != nil {
			a.session.Quit()
		}

		var err error
		switch a.session.Phase() {
		case game.Playing:
			err = a.tick()
		case game.AwaitingRestart:
			a.awaitRestart(ctx)
		case game.Terminated:
			a.log.Info("game stopped", zap.Int("runs", len(a.Results())))
			return nil
		default:
			err = fmt.Errorf("unexpected phase %s", a.session.Phase())
		}
		if err != nil {
			a.session.Quit()
			return err
		}
	}
}

// tick plays one frame. A failed camera read skips the step but still
// polls the keyboard.
func (a *App) tick() error {
	reading, err := a.input.Next()
	if err != nil {
		if errors.Is(err, capture.ErrCameraNotOpen) {
			return err
		}
		a.log.Debug("skipping tick", zap.Error(err))
		a.handleKey(a.config.Window.WaitKey(TickDelay))
		return nil
	}
	defer reading.Close()

	state, err := a.session.Tick(reading.Control)
	if err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	frame := reading.Frame
	screen.DrawHand(frame, reading.Hand)
	screen.DrawScene(frame, state)
	a.show(frame, state)

	a.handleKey(a.config.Window.WaitKey(TickDelay))

	if a.session.Phase() == game.GameOver {
		screen.DrawGameOver(frame)
		if err := a.session.Acknowledge(); err != nil {
			return err
		}
		a.show(frame, state)
	}
	return nil
}

// awaitRestart blocks until r or ESC is pressed or ctx is done.
func (a *App) awaitRestart(ctx context.Context) {
	for a.session.Phase() == game.AwaitingRestart {
		if ctx.Err() != nil {
			a.session.Quit()
			return
		}
		a.handleKey(a.config.Window.WaitKey(RestartPoll))
	}
}

func (a *App) handleKey(key int) {
	switch screen.ActionFor(key) {
	case screen.ActionQuit:
		a.session.Quit()
	case screen.ActionRestart:
		if a.session.Phase() != game.AwaitingRestart {
			return
		}
		if err := a.session.Restart(); err != nil {
			a.log.Warn("restart", zap.Error(err))
			return
		}
		a.startRun()
		a.log.Info("game restarted")
	}
}

func (a *App) show(frame *gocv.Mat, state game.State) {
	a.config.Window.Show(frame)
	if a.config.Live != nil {
		a.config.Live.Publish(frame, state, a.session.Phase())
	}
}

func (a *App) startRun() {
	a.mu.Lock()
	a.runStart = time.Now()
	a.mu.Unlock()
}

// recordRun keeps the finished run and persists it when a store is set.
func (a *App) recordRun(r game.Result) {
	a.mu.Lock()
	a.results = append(a.results, r)
	started := a.runStart
	a.mu.Unlock()

	a.log.Info("game over",
		zap.Int("score", r.Score),
		zap.Int("ticks", r.Ticks),
		zap.Float64("bird_y", r.Final.BirdY),
	)

	if a.config.Store == nil {
		return
	}

	run := &store.Run{
		Score:     r.Score,
		Ticks:     r.Ticks,
		StartedAt: started,
		EndedAt:   time.Now(),
	}
	if err := a.config.Store.Runs().Create(run); err != nil {
		a.log.Error("save run", zap.Error(err))
		return
	}
	a.log.Debug("run saved", zap.String("id", run.ID))
}
