package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dev0b1/selah-sub001/internal/audio"
	"github.com/dev0b1/selah-sub001/internal/config"
	"github.com/dev0b1/selah-sub001/internal/http/middleware"
	"github.com/dev0b1/selah-sub001/internal/http/routes"
	"github.com/dev0b1/selah-sub001/internal/jobs"
	"github.com/dev0b1/selah-sub001/internal/pipeline"
	"github.com/dev0b1/selah-sub001/internal/script"
	"github.com/dev0b1/selah-sub001/internal/synthesis"
	"github.com/dev0b1/selah-sub001/internal/tracks"
)

// App wires the pipeline and the HTTP server together.
type App struct {
	server *Server
	cfg    *config.Config
}

// NewApp builds the pipeline stages from config and mounts the routes.
func NewApp(cfg *config.Config) (*App, error) {
	var textGen script.TextGenerator
	textGen, err := script.NewGeminiGenerator(
		context.Background(),
		cfg.Gemini.ApiKey,
		cfg.Gemini.Model,
		time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize script generation: %w", err)
	}

	if cfg.Cache.Enabled {
		logrus.Info("Enabling script response cache")
		textGen = script.NewCachingTextGenerator(
			textGen,
			time.Duration(cfg.Cache.ExpirationMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
		)
	}

	registry := tracks.NewRegistry(nil)
	generator := script.NewGenerator(textGen, registry)

	synth := synthesis.NewElevenLabsClient(&cfg.Voice)

	mixer := audio.NewFFmpegMixer(
		cfg.Audio.FFmpegPath,
		time.Duration(cfg.Audio.MixTimeoutSeconds)*time.Second,
		middleware.RequestLogger(),
	)

	composer := pipeline.NewComposer(generator, synth, mixer, cfg.Audio.TrackDir)
	jobStore := jobs.NewJobStore(30*time.Minute, 5*time.Minute)

	router := routes.SetupRoutes(cfg, composer, registry, jobStore)
	srv := New(cfg, router)

	return &App{
		server: srv,
		cfg:    cfg,
	}, nil
}

// Start runs the application until a shutdown signal arrives.
func (a *App) Start() error {
	errChan := make(chan error, 1)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.Infof("Starting composition service on port %d...", a.cfg.Server.Port)
		errChan <- a.server.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(ctx); err != nil {
			logrus.Errorf("Server shutdown error: %v", err)
		}

		logrus.Info("Server stopped gracefully")
		return nil
	}
}
