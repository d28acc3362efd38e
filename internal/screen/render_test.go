package screen

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingerbird/internal/detector"
	"github.com/ayusman/fingerbird/internal/game"
)

func blankFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), game.Height, game.Width, gocv.MatTypeCV8UC3)
}

// bgr returns the pixel at (x, y).
func bgr(m gocv.Mat, x, y int) [3]uint8 {
	v := m.GetVecbAt(y, x)
	return [3]uint8{v[0], v[1], v[2]}
}

func TestDrawScene(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	s := game.State{BirdY: 240, PipeX: 400, PipeGapTop: 150}
	DrawScene(&frame, s)

	green := [3]uint8{0, 255, 0}
	blue := [3]uint8{255, 0, 0}
	black := [3]uint8{0, 0, 0}

	tests := []struct {
		name string
		x, y int
		want [3]uint8
	}{
		{"top pipe", 430, 100, green},
		{"bottom pipe", 430, 400, green},
		{"gap", 430, 230, black},
		{"bird center", game.BirdX, 240, blue},
		{"outside bird", game.BirdX, 300, black},
	}
	for _, tt := range tests {
		if got := bgr(frame, tt.x, tt.y); got != tt.want {
			t.Errorf("%s at (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawScene_OffscreenPipe(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	// Partly left of the frame right before recycling.
	DrawScene(&frame, game.State{BirdY: 240, PipeX: -60, PipeGapTop: 300})

	if got := bgr(frame, 5, 100); got != [3]uint8{0, 255, 0} {
		t.Errorf("visible part of pipe = %v, want green", got)
	}
}

func TestDrawGameOver(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	DrawGameOver(&frame)

	red := 0
	for y := 150; y <= 205; y++ {
		for x := 180; x < 460; x++ {
			if bgr(frame, x, y) == [3]uint8{0, 0, 255} {
				red++
			}
		}
	}
	if red == 0 {
		t.Error("game over text was not drawn")
	}
	if got := bgr(frame, 5, 5); got != [3]uint8{0, 0, 0} {
		t.Errorf("pixel outside the text = %v, want black", got)
	}
}

func TestDrawHand(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	DrawHand(&frame, nil)

	hand := detector.PointingLandmarks(0.25)
	DrawHand(&frame, &hand)

	tip := hand.Fingertip()
	x, y := int(tip.X*game.Width), int(tip.Y*game.Height)
	if got := bgr(frame, x, y); got != [3]uint8{0, 0, 255} {
		t.Errorf("fingertip pixel = %v, want red", got)
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  int
		want Action
	}{
		{KeyNone, ActionNone},
		{KeyEscape, ActionQuit},
		{'r', ActionRestart},
		{'R', ActionRestart},
		{0x100000 | 'r', ActionRestart},
		{'q', ActionNone},
	}
	for _, tt := range tests {
		if got := ActionFor(tt.key); got != tt.want {
			t.Errorf("ActionFor(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
