package game

import (
	"errors"
	"fmt"
)

// Phase is the lifecycle stage of a Session.
type Phase int

const (
	Playing Phase = iota
	GameOver
	AwaitingRestart
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	case AwaitingRestart:
		return "awaiting_restart"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrNotPlaying is returned by Tick outside the Playing phase.
	ErrNotPlaying = errors.New("session is not playing")
	// ErrInvalidTransition is returned when a phase change is not allowed
	// from the current phase.
	ErrInvalidTransition = errors.New("invalid phase transition")
)

// Result summarizes a finished run.
type Result struct {
	Score int
	Ticks int
	Final State
}

// Session drives an Engine through Playing, GameOver, AwaitingRestart and
// Terminated. It is not safe for concurrent use.
type Session struct {
	engine     *Engine
	state      State
	phase      Phase
	ticks      int
	onGameOver func(Result)
}

// NewSession starts a session in the Playing phase with a fresh state.
func NewSession(engine *Engine) *Session {
	return &Session{
		engine: engine,
		state:  engine.Reset(),
		phase:  Playing,
	}
}

// OnGameOver registers fn to be called once per run when it ends.
func (s *Session) OnGameOver(fn func(Result)) {
	s.onGameOver = fn
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Ticks returns the number of ticks played in the current run.
func (s *Session) Ticks() int {
	return s.ticks
}

// Tick advances the current run by one step. A collision moves the
// session to GameOver.
func (s *Session) Tick(c Control) (State, error) {
	if s.phase != Playing {
		return s.state, fmt.Errorf("tick in %s: %w", s.phase, ErrNotPlaying)
	}

	next, err := s.engine.Step(s.state, c)
	if err != nil {
		return s.state, err
	}
	s.state = next
	s.ticks++

	if next.Over {
		s.phase = GameOver
		if s.onGameOver != nil {
			s.onGameOver(Result{Score: next.Score, Ticks: s.ticks, Final: next})
		}
	}
	return s.state, nil
}

// Acknowledge moves GameOver to AwaitingRestart once the game-over screen
// has been shown.
func (s *Session) Acknowledge() error {
	if s.phase != GameOver {
		return fmt.Errorf("acknowledge in %s: %w", s.phase, ErrInvalidTransition)
	}
	s.phase = AwaitingRestart
	return nil
}

// Restart replaces the state with a fresh one and resumes play.
func (s *Session) Restart() error {
	if s.phase != AwaitingRestart {
		return fmt.Errorf("restart in %s: %w", s.phase, ErrInvalidTransition)
	}
	s.state = s.engine.Reset()
	s.ticks = 0
	s.phase = Playing
	return nil
}

// Quit terminates the session from any phase.
func (s *Session) Quit() {
	s.phase = Terminated
}
