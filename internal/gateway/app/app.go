package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	cachearch "merngen/internal/cache/architecture"
	"merngen/internal/gateway/config"
	"merngen/internal/gateway/handler"
	"merngen/internal/gateway/server"
	"merngen/internal/generate"
	"merngen/internal/llm"
)

type App struct {
	server  *server.Server
	limiter *llm.Limiter
}

func New(ctx context.Context, args []string) (*App, error) {
	cfg, err := config.Load(args)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(os.Stderr, cfg.Env)

	// Dependencies
	backend, err := cfg.Generate.NewBackend(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend: %w", err)
	}
	limiter := llm.NewLimiter(cfg.RPM/60, 1)
	backend = llm.Wrap(backend, llm.WithRateLimit(limiter))
	architect := generate.NewArchitect(backend, cfg.Generate)
	cache := cachearch.New(cfg.Cache.Size, cfg.Cache.TTL)
	generateHandler := handler.NewGenerateHandler(architect, cache, logger)

	// Routing & Server
	mux := server.NewMux(generateHandler, logger, cfg.CORSOrigins)
	srv := server.New(cfg.Port, mux, logger)
	logger.Printf("backend=%s models=%v rpm=%g cache=%d/%s", backend.Name(), cfg.Generate.Models, cfg.RPM, cfg.Cache.Size, cfg.Cache.TTL)

	return &App{
		server:  srv,
		limiter: limiter,
	}, nil
}

// newLogger tags every gateway line with the deployment environment.
func newLogger(w io.Writer, env string) *log.Logger {
	return log.New(w, "[merngen "+env+"] ", log.LstdFlags|log.Lmsgprefix)
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	defer a.limiter.Stop()
	return a.server.Shutdown(ctx)
}
