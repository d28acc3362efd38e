// Package input turns camera frames into game controls.
package input

import (
	"fmt"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/fingerbird/internal/capture"
	"github.com/ayusman/fingerbird/internal/detector"
	"github.com/ayusman/fingerbird/internal/game"
	"github.com/ayusman/fingerbird/internal/logger"
)

// Reading is one processed camera frame.
type Reading struct {
	// Frame is the (mirrored) camera image. The receiver must Close it.
	Frame *gocv.Mat
	// Hand is the tracked hand, nil when none was detected.
	Hand *detector.HandLandmarks
	// Control is the game input derived from Hand.
	Control game.Control
}

// Close releases the frame.
func (r Reading) Close() error {
	if r.Frame == nil {
		return nil
	}
	return r.Frame.Close()
}

// Adapter reads frames and maps the first detected index fingertip to a
// control.
type Adapter struct {
	camera   capture.Camera
	detector detector.Detector
	mirror   bool
	log      *zap.Logger
}

// New creates an Adapter. When mirror is set frames are flipped
// horizontally before detection, so the screen acts as a mirror.
func New(camera capture.Camera, det detector.Detector, mirror bool, log *zap.Logger) *Adapter {
	return &Adapter{
		camera:   camera,
		detector: det,
		mirror:   mirror,
		log:      logger.OrNop(log),
	}
}

// Next reads one frame and detects the control for it.
//
// A camera failure is returned as an error and the tick should be
// skipped. A detector failure is logged and yields game.NoHand.
func (a *Adapter) Next() (Reading, error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return Reading{}, fmt.Errorf("read frame: %w", err)
	}

	if a.mirror {
		gocv.Flip(*frame, frame, 1)
	}

	reading := Reading{Frame: frame, Control: game.NoHand}
	if a.detector == nil {
		return reading, nil
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.log.Warn("hand detection failed", zap.Error(err))
		return reading, nil
	}
	if len(hands) == 0 {
		return reading, nil
	}

	hand := hands[0]
	reading.Hand = &hand
	reading.Control = game.Hand(hand.Fingertip().Y)
	return reading, nil
}
