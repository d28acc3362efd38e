package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestLauncher_NoCommand(t *testing.T) {
	l := New(Config{}, nil)

	if _, err := l.Launch(); !errors.Is(err, ErrNoCommand) {
		t.Errorf("Launch() error = %v, want ErrNoCommand", err)
	}
	if l.Launches() != 0 {
		t.Errorf("Launches() = %d, want 0", l.Launches())
	}
}

func TestLauncher_MissingExecutable(t *testing.T) {
	l := New(Config{Command: filepath.Join(t.TempDir(), "nope")}, nil)

	if _, err := l.Launch(); err == nil {
		t.Error("expected error for missing executable")
	}
	if l.Running() != 0 {
		t.Errorf("Running() = %d, want 0", l.Running())
	}
}

func TestLauncher_LaunchAndReap(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	script := writeScript(t, `touch "$1"`)

	core, logs := observer.New(zapcore.InfoLevel)
	l := New(Config{Command: script, Args: []string{marker}}, zap.New(core))

	pid, err := l.Launch()
	if err != nil {
		t.Fatalf("Launch() failed: %v", err)
	}
	if pid <= 0 {
		t.Errorf("pid = %d, want > 0", pid)
	}

	l.Wait()

	if _, err := os.Stat(marker); err != nil {
		t.Errorf("game process did not run: %v", err)
	}
	if l.Running() != 0 {
		t.Errorf("Running() = %d after Wait, want 0", l.Running())
	}
	if l.Launches() != 1 {
		t.Errorf("Launches() = %d, want 1", l.Launches())
	}
	if logs.FilterMessage("game launched").Len() != 1 {
		t.Error("expected a launch log entry")
	}
	if logs.FilterMessage("game exited").Len() != 1 {
		t.Error("expected an exit log entry")
	}
}

func TestLauncher_NonZeroExitIsLogged(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	l := New(Config{Command: writeScript(t, "exit 3")}, zap.New(core))

	if _, err := l.Launch(); err != nil {
		t.Fatalf("Launch() failed: %v", err)
	}
	l.Wait()

	if logs.FilterMessage("game exited with error").Len() != 1 {
		t.Error("expected a warning for the failed game")
	}
}

func TestLauncher_WorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	l := New(Config{Command: writeScript(t, "touch here"), Dir: dir}, nil)

	if _, err := l.Launch(); err != nil {
		t.Fatalf("Launch() failed: %v", err)
	}
	l.Wait()

	if _, err := os.Stat(filepath.Join(dir, "here")); err != nil {
		t.Errorf("expected file in working directory: %v", err)
	}
}
