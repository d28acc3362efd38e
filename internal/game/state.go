// Package game holds the authoritative state of a Flappy Finger Bird run
// and the per-tick rules that advance it.
package game

import (
	"fmt"
	"image"
)

// State is the whole game at one tick. Reset builds it, Step derives the
// next one; nothing else mutates it.
type State struct {
	BirdY      float64 `json:"bird_y"`
	Velocity   float64 `json:"velocity"`
	PipeX      float64 `json:"pipe_x"`
	PipeGapTop float64 `json:"pipe_gap_top"`
	Score      int     `json:"score"`
	Over       bool    `json:"over"`
}

// Circle is the bird as drawn on screen.
type Circle struct {
	Center image.Point
	Radius int
}

// Bird returns the bird's on-screen circle.
func (s State) Bird() Circle {
	return Circle{
		Center: image.Pt(BirdX, int(s.BirdY)),
		Radius: BirdRadius,
	}
}

// Pipes returns the upper and lower pipe rectangles surrounding the gap.
func (s State) Pipes() (top, bottom image.Rectangle) {
	x := int(s.PipeX)
	gapTop := int(s.PipeGapTop)
	top = image.Rect(x, 0, x+PipeWidth, gapTop)
	bottom = image.Rect(x, gapTop+PipeGap, x+PipeWidth, Height)
	return top, bottom
}

func (s State) String() string {
	return fmt.Sprintf("bird_y=%.0f velocity=%.1f pipe_x=%.0f gap_top=%.0f score=%d over=%t",
		s.BirdY, s.Velocity, s.PipeX, s.PipeGapTop, s.Score, s.Over)
}

// Control is the optional vertical fingertip position for one tick,
// normalized to [0,1] of the frame height. The zero value means no hand.
type Control struct {
	Y        float64
	detected bool
}

// NoHand is the control for a tick without a detected fingertip.
var NoHand = Control{}

// Hand returns a control for a fingertip detected at normalized height y.
// y is not validated.
func Hand(y float64) Control {
	return Control{Y: y, detected: true}
}

// Detected reports whether the control carries a fingertip position.
func (c Control) Detected() bool {
	return c.detected
}

func (c Control) String() string {
	if !c.detected {
		return "none"
	}
	return fmt.Sprintf("%.3f", c.Y)
}
