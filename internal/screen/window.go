package screen

import "gocv.io/x/gocv"

// Key codes returned by Window.WaitKey.
const (
	KeyNone    = -1
	KeyEscape  = 27
	KeyRestart = 'r'
)

// Action is what a key press asks the game to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRestart
)

// ActionFor maps a key code to an Action. Modifier bits above the low
// byte are ignored.
func ActionFor(key int) Action {
	if key < 0 {
		return ActionNone
	}
	switch key & 0xFF {
	case KeyEscape:
		return ActionQuit
	case KeyRestart, 'R':
		return ActionRestart
	default:
		return ActionNone
	}
}

// Window shows frames and reports key presses.
type Window interface {
	Show(frame *gocv.Mat)
	// WaitKey waits up to delayMs for a key, 0 meaning forever, and
	// returns its code or KeyNone.
	WaitKey(delayMs int) int
	Close() error
}

type gocvWindow struct {
	w *gocv.Window
}

// NewWindow opens a native window titled title.
func NewWindow(title string) Window {
	return &gocvWindow{w: gocv.NewWindow(title)}
}

func (g *gocvWindow) Show(frame *gocv.Mat) {
	g.w.IMShow(*frame)
}

func (g *gocvWindow) WaitKey(delayMs int) int {
	return g.w.WaitKey(delayMs)
}

func (g *gocvWindow) Close() error {
	return g.w.Close()
}
