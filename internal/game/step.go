package game

import (
	"errors"
	"math"
)

// ErrGameOver is returned by Step when called on a finished state.
var ErrGameOver = errors.New("game is over")

// Engine applies the game rules. It owns no state of its own besides the
// random source used for new pipes.
type Engine struct {
	rng         RandomSource
	frameHeight float64
}

// NewEngine creates an Engine drawing gaps from rng. frameHeight is the
// pixel height controls are scaled to; values <= 0 mean Height.
func NewEngine(rng RandomSource, frameHeight float64) *Engine {
	if rng == nil {
		rng = NewRandSource(0)
	}
	if frameHeight <= 0 {
		frameHeight = Height
	}
	return &Engine{
		rng:         rng,
		frameHeight: frameHeight,
	}
}

// Reset returns a fresh state: bird centered, zero velocity and score,
// pipe at the right edge with a random gap.
func (e *Engine) Reset() State {
	return State{
		BirdY:      Height / 2,
		Velocity:   0,
		PipeX:      Width,
		PipeGapTop: float64(e.rng.IntRange(GapTopMin, GapTopMax)),
		Score:      0,
		Over:       false,
	}
}

// Step advances s by one tick and returns the result.
//
// The order is fixed: fingertip follow or gravity, then pipe advance and
// recycle, then collision against the advanced pipe. Positions move in
// whole pixels, truncated toward zero.
//
// Step returns ErrGameOver, and s unchanged, if s is already over.
func (e *Engine) Step(s State, c Control) (State, error) {
	if s.Over {
		return s, ErrGameOver
	}

	if c.Detected() {
		target := math.Trunc(c.Y * e.frameHeight)
		s.BirdY += math.Trunc(FollowFactor * (target - s.BirdY))
		s.Velocity = 0
	} else {
		s.Velocity += Gravity * FallVelocityMultiplier
		s.BirdY += math.Trunc(s.Velocity)
	}

	s.PipeX -= PipeSpeed
	if s.PipeX < -PipeWidth {
		s.PipeX = Width
		s.PipeGapTop = float64(e.rng.IntRange(GapTopMin, GapTopMax))
		s.Score++
	}

	if Collides(s) {
		s.Over = true
	}

	return s, nil
}
