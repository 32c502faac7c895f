// Councild is the MBTI council daemon: a persona debate engine with an
// HTTP/SSE transport.
//
// The binary starts the councild HTTP server with full service
// initialization: the Anthropic model client, persona store, council
// orchestrator, session store, and the balance/horoscope side features.
//
// Configuration is loaded from an optional YAML file and environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	ANTHROPIC_API_KEY=sk-... councild
//
//	# Configure via flags and environment
//	SERVER_PORT=9090 councild -config councild.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/balance"
	"github.com/councilhq/councild/internal/cache"
	"github.com/councilhq/councild/internal/config"
	"github.com/councilhq/councild/internal/council"
	"github.com/councilhq/councild/internal/horoscope"
	"github.com/councilhq/councild/internal/httpapi"
	"github.com/councilhq/councild/internal/logging"
	"github.com/councilhq/councild/internal/model"
	"github.com/councilhq/councild/internal/persona"
	"github.com/councilhq/councild/internal/ratelimit"
	"github.com/councilhq/councild/internal/session"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  councild           Start the council daemon\n")
			fmt.Fprintf(os.Stderr, "  councild version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("councild\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the councild server and blocks until the context is
// cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize the structured logger
//  3. Create the Anthropic client (fails fast on a missing API key)
//  4. Wire the persona store, orchestrator, session store, and side
//     features
//  5. Start the HTTP server and shut it down on cancellation
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting councild",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	client, err := model.NewAnthropicClient(cfg.Anthropic)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	sessions, closeStore, err := initSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer closeStore()

	personas := persona.NewStore(cfg.Personas.Dir, logger)
	orchestrator := council.New(client, personas, logger, council.Options{
		MinTurns: cfg.Council.MinTurns,
		MaxTurns: cfg.Council.MaxTurns,
	})

	horoscopes := horoscope.NewGenerator(client,
		cache.New[string, horoscope.Horoscope](cfg.Horoscope.CacheTTL, cfg.Horoscope.CacheMaxEntries),
		logger)

	srv, err := httpapi.NewServer(httpapi.Options{
		Runner:       orchestrator,
		Sessions:     sessions,
		Votes:        balance.NewMemoryVoteStore(),
		Horoscopes:   horoscopes,
		Limiter:      ratelimit.NewDailyLimiter(cfg.RateLimit.DailyCouncils),
		Logger:       logger,
		Config:       &httpapi.Config{Host: cfg.Server.Host, Port: cfg.Server.Port},
		ModelID:      client.Model(),
		ModelDisplay: model.ModelDisplay,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)),
		zap.String("api_prefix", "/api"),
		zap.String("metrics_endpoint", "/metrics"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initSessionStore creates the configured session backend and returns a
// close func that is a no-op for the memory store.
func initSessionStore(cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Store.Driver {
	case "sqlite":
		store, err := session.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}
