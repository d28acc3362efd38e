// Package screen draws game states onto camera frames and reads the
// player's keys from the game window.
package screen

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingerbird/internal/detector"
	"github.com/ayusman/fingerbird/internal/game"
)

// Title is the game window title.
const Title = "Flappy Finger Bird"

// Palette. gocv takes color.RGBA and converts it to OpenCV's BGR order.
var (
	PipeColor     = color.RGBA{G: 255, A: 255}
	BirdColor     = color.RGBA{B: 255, A: 255}
	TextColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	GameOverColor = color.RGBA{R: 255, A: 255}
	LandmarkColor = color.RGBA{R: 255, A: 255}
	BoneColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// DrawScene draws the pipes, the bird and the score over frame.
func DrawScene(frame *gocv.Mat, s game.State) {
	top, bottom := s.Pipes()
	gocv.Rectangle(frame, top, PipeColor, -1)
	gocv.Rectangle(frame, bottom, PipeColor, -1)

	bird := s.Bird()
	gocv.Circle(frame, bird.Center, bird.Radius, BirdColor, -1)

	gocv.PutText(frame, fmt.Sprintf("Score: %d", s.Score), image.Pt(10, 40),
		gocv.FontHersheySimplex, 1.2, TextColor, 2)
}

// DrawGameOver draws the game over banner and the restart hint.
func DrawGameOver(frame *gocv.Mat) {
	gocv.PutText(frame, "Game Over", image.Pt(180, 200),
		gocv.FontHersheySimplex, 2, GameOverColor, 4)
	gocv.PutText(frame, "Press R to Restart or ESC to Quit", image.Pt(50, 250),
		gocv.FontHersheySimplex, 0.8, TextColor, 2)
}

// DrawHand draws the hand skeleton. Landmark coordinates are normalized,
// so they are scaled to the frame size.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	if hand == nil {
		return
	}
	w, h := float64(frame.Cols()), float64(frame.Rows())
	pt := func(i int) image.Point {
		p := hand.Points[i]
		return image.Pt(int(p.X*w), int(p.Y*h))
	}

	for _, c := range detector.Connections {
		gocv.Line(frame, pt(c[0]), pt(c[1]), BoneColor, 2)
	}
	for i := range hand.Points {
		gocv.Circle(frame, pt(i), 4, LandmarkColor, -1)
	}
}
