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

	"github.com/ayusman/fingerbird/internal/app"
	"github.com/ayusman/fingerbird/internal/capture"
	"github.com/ayusman/fingerbird/internal/config"
	"github.com/ayusman/fingerbird/internal/detector"
	"github.com/ayusman/fingerbird/internal/game"
	"github.com/ayusman/fingerbird/internal/logger"
	"github.com/ayusman/fingerbird/internal/screen"
	"github.com/ayusman/fingerbird/internal/server"
	"github.com/ayusman/fingerbird/internal/store"
)

func main() {
	configPath := flag.String("config", filepath.Join(config.DefaultDataDir(), config.FileName), "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fingerbird: %v\n", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStore(cfg, log)
	if st != nil {
		defer st.Close()
	}

	det := openDetector(cfg.Detector, log)
	defer det.Close()

	window := screen.NewWindow(screen.Title)
	defer window.Close()

	appCfg := app.Config{
		Camera: capture.NewCamera(capture.Config{
			DeviceID: cfg.CameraID,
			Width:    game.Width,
			Height:   game.Height,
		}),
		Detector: det,
		Window:   window,
		Store:    st,
		Random:   game.NewRandSource(cfg.Seed),
		Logger:   log,
		Mirror:   cfg.Mirror,
	}

	if cfg.SpectatorAddr != "" {
		hub := server.NewHub(log)
		appCfg.Live = hub

		srv := server.New(server.Config{Store: st, Hub: hub, Logger: log}).HTTPServer(cfg.SpectatorAddr)
		go func() {
			log.Info("spectator feed listening", zap.String("addr", cfg.SpectatorAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("spectator server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// openStore opens the run history. The game still runs without it.
func openStore(cfg config.Config, log *zap.Logger) *store.Store {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Warn("run history disabled", zap.Error(err))
		return nil
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Warn("run history disabled", zap.Error(err))
		return nil
	}
	return st
}

// openDetector prefers MediaPipe and falls back to a detector that never
// sees a hand, which leaves the bird to gravity.
func openDetector(cfg detector.Config, log *zap.Logger) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg)
	if err == nil {
		log.Info("using MediaPipe hand detection")
		return mp
	}
	log.Warn("MediaPipe not available, using mock detector", zap.Error(err))
	return detector.NewMockDetector()
}
