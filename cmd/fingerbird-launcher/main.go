package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/fingerbird/internal/config"
	"github.com/ayusman/fingerbird/internal/launcher"
	"github.com/ayusman/fingerbird/internal/logger"
	"github.com/ayusman/fingerbird/internal/server"
	"github.com/ayusman/fingerbird/internal/store"
	"github.com/ayusman/fingerbird/internal/tray"
)

// gameBinary is the game executable looked up next to the launcher.
const gameBinary = "fingerbird"

func main() {
	configPath := flag.String("config", filepath.Join(config.DefaultDataDir(), config.FileName), "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fingerbird-launcher: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	command := cfg.Launcher.Command
	if command == "" {
		command = findGameBinary()
	}
	l := launcher.New(launcher.Config{Command: command, Args: gameArgs(cfg, configPath)}, log)

	srv := server.New(server.Config{
		StaticDir: cfg.Launcher.Static,
		Store:     st,
		Launcher:  l,
		Logger:    log,
	}).HTTPServer(cfg.Launcher.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("launcher listening", zap.String("addr", cfg.Launcher.Addr), zap.String("command", command))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if cfg.Launcher.Tray {
		runTray(ctx, st, l, log)
		stop()
	} else {
		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runTray blocks in the tray menu until Quit is chosen or ctx is done.
func runTray(ctx context.Context, st *store.Store, l *launcher.Launcher, log *zap.Logger) {
	t := tray.New()
	t.OnLaunch(func() {
		if _, err := l.Launch(); err != nil {
			log.Error("launch failed", zap.Error(err))
		}
	})

	refreshBest := func() {
		if best, err := st.Runs().Best(); err == nil {
			t.SetBest(best.Score)
		}
	}
	refreshBest()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.Quit()
				return
			case <-ticker.C:
				refreshBest()
			}
		}
	}()

	t.Run()
}

// gameArgs passes the launcher's config file on to the game unless the
// config names explicit arguments.
func gameArgs(cfg config.Config, configPath string) []string {
	if len(cfg.Launcher.Args) > 0 {
		return cfg.Launcher.Args
	}
	return []string{"-config", configPath}
}

// findGameBinary returns the game executable next to the launcher, or the
// bare name to be resolved through PATH.
func findGameBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return gameBinary
	}
	candidate := filepath.Join(filepath.Dir(exe), gameBinary)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return gameBinary
}
