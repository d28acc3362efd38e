// Package tray provides a system tray menu for the Flappy Finger Bird launcher.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the launcher's system tray menu.
type Tray struct {
	onLaunch func()
	onQuit   func()
	best     int
	hasBest  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuBest *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnLaunch sets the callback function to be called when the launch menu item is clicked.
func (t *Tray) OnLaunch(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLaunch = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Finger Bird")
	systray.SetTooltip("Flappy Finger Bird launcher")

	menuLaunch := systray.AddMenuItem("Launch Flappy Finger Bird", "Start a new game window")
	systray.AddSeparator()

	t.mu.Lock()
	t.menuBest = systray.AddMenuItem(bestTitle(t.best, t.hasBest), "Best recorded score")
	t.menuBest.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit the launcher")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuLaunch.ClickedCh:
				t.handleLaunch()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleLaunch handles the launch menu item click.
func (t *Tray) handleLaunch() {
	t.mu.RLock()
	callback := t.onLaunch
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetBest updates the best score shown in the menu.
func (t *Tray) SetBest(score int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.best, t.hasBest = score, true
	if t.menuBest != nil {
		t.menuBest.SetTitle(bestTitle(score, true))
	}
}

// Best returns the best score last set, and whether one was set.
func (t *Tray) Best() (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.best, t.hasBest
}

func bestTitle(score int, ok bool) string {
	if !ok {
		return "Best: none"
	}
	return fmt.Sprintf("Best: %d", score)
}
