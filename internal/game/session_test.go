package game

import (
	"errors"
	"testing"
)

func TestSession_Lifecycle(t *testing.T) {
	sess := NewSession(newTestEngine(300))

	if sess.Phase() != Playing {
		t.Fatalf("initial phase = %v, want playing", sess.Phase())
	}

	var results []Result
	sess.OnGameOver(func(r Result) {
		results = append(results, r)
	})

	// No hand: the bird drops to the floor on the eighth tick.
	for sess.Phase() == Playing {
		if _, err := sess.Tick(NoHand); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if sess.Ticks() > 20 {
			t.Fatal("run did not end")
		}
	}

	if sess.Phase() != GameOver {
		t.Fatalf("phase = %v, want game_over", sess.Phase())
	}
	if len(results) != 1 || results[0].Ticks != 8 || results[0].Score != 0 || !results[0].Final.Over {
		t.Errorf("results = %+v", results)
	}

	if _, err := sess.Tick(NoHand); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Tick() after game over error = %v, want ErrNotPlaying", err)
	}
	if err := sess.Restart(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Restart() before acknowledge error = %v, want ErrInvalidTransition", err)
	}

	if err := sess.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	if sess.Phase() != AwaitingRestart {
		t.Fatalf("phase = %v, want awaiting_restart", sess.Phase())
	}
	if err := sess.Acknowledge(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Acknowledge() error = %v, want ErrInvalidTransition", err)
	}

	if err := sess.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if sess.Phase() != Playing || sess.Ticks() != 0 {
		t.Errorf("after restart: phase = %v ticks = %d", sess.Phase(), sess.Ticks())
	}
	if st := sess.State(); st.Over || st.Score != 0 || st.BirdY != Height/2 || st.PipeX != Width {
		t.Errorf("state not reset: %v", st)
	}
}

func TestSession_Quit(t *testing.T) {
	for _, phase := range []Phase{Playing, GameOver, AwaitingRestart} {
		t.Run(phase.String(), func(t *testing.T) {
			sess := NewSession(newTestEngine())
			sess.phase = phase

			sess.Quit()
			if sess.Phase() != Terminated {
				t.Errorf("phase = %v, want terminated", sess.Phase())
			}
			if _, err := sess.Tick(Hand(0.5)); !errors.Is(err, ErrNotPlaying) {
				t.Errorf("Tick() error = %v, want ErrNotPlaying", err)
			}
		})
	}
}

func TestPhase_String(t *testing.T) {
	tests := map[Phase]string{
		Playing:         "playing",
		GameOver:        "game_over",
		AwaitingRestart: "awaiting_restart",
		Terminated:      "terminated",
		Phase(9):        "phase(9)",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}
