// Package launcher starts the game binary as a detached child process.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/fingerbird/internal/logger"
)

// ErrNoCommand is returned when no game command is configured.
var ErrNoCommand = errors.New("no game command configured")

// Config describes the command that starts a game.
type Config struct {
	Command string
	Args    []string
	Dir     string
}

// Launcher spawns game processes. Spawns are serialized and every child is
// reaped in its own goroutine.
type Launcher struct {
	config Config
	log    *zap.Logger

	mu       sync.Mutex
	running  int
	launches int
	wg       sync.WaitGroup
}

// New creates a Launcher for the given command.
func New(config Config, log *zap.Logger) *Launcher {
	return &Launcher{config: config, log: logger.OrNop(log)}
}

// Launch starts a new game process and returns its pid without waiting for it.
func (l *Launcher) Launch() (int, error) {
	if l.config.Command == "" {
		return 0, ErrNoCommand
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cmd := exec.Command(l.config.Command, l.config.Args...)
	cmd.Dir = l.config.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", l.config.Command, err)
	}

	pid := cmd.Process.Pid
	l.running++
	l.launches++
	l.wg.Add(1)

	l.log.Info("game launched",
		zap.String("command", l.config.Command),
		zap.Int("pid", pid),
	)

	started := time.Now()
	go func() {
		defer l.wg.Done()
		err := cmd.Wait()

		l.mu.Lock()
		l.running--
		l.mu.Unlock()

		fields := []zap.Field{zap.Int("pid", pid), zap.Duration("elapsed", time.Since(started))}
		if err != nil {
			l.log.Warn("game exited with error", append(fields, zap.Error(err))...)
			return
		}
		l.log.Info("game exited", fields...)
	}()

	return pid, nil
}

// Running returns the number of game processes that have not exited yet.
func (l *Launcher) Running() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Launches returns the number of successful launches.
func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

// Wait blocks until every launched process has exited.
func (l *Launcher) Wait() {
	l.wg.Wait()
}
