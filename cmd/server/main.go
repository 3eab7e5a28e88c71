// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/playdeck/internal/api/connect"
	"github.com/osa030/playdeck/internal/app/intent"
	"github.com/osa030/playdeck/internal/app/media"
	"github.com/osa030/playdeck/internal/app/notification"
	"github.com/osa030/playdeck/internal/app/player"
	"github.com/osa030/playdeck/internal/domain/catalog"
	"github.com/osa030/playdeck/internal/infra/config"
	"github.com/osa030/playdeck/internal/infra/logger"
	"github.com/osa030/playdeck/internal/infra/prefs"
	"github.com/osa030/playdeck/internal/infra/simmedia"
)

var (
	app        = kingpin.New("playdeck-server", "playdeck playlist player server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-intents command
	listIntentsCmd = app.Command("list-intents", "List accepted intents and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-intents command
	if command == listIntentsCmd.FullCommand() {
		printIntents()
		return
	}

	// Initialize logger from flags until the config is read
	closer, err := logger.Init(withFlags(logger.Config{}))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	// Re-initialize logger with the configured output; flags still win
	_ = closer.Close()
	closer, err = logger.Init(withFlags(cfg.Logging))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	// Run server (defer ensures shutdown hook is called)
	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		_ = closer.Close()
		os.Exit(1)
	}
}

// withFlags applies the command-line logging flags over cfg.
func withFlags(cfg logger.Config) logger.Config {
	if *verbose {
		cfg.Level = "debug"
	}
	if *logfile != "" {
		cfg.Output = *logfile
	}
	return cfg
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	instanceID := uuid.New().String()

	// Build catalog
	cat, err := catalog.New(cfg.Tracks())
	if err != nil {
		return errors.Wrap(err, "invalid catalog")
	}
	zlog.Info().Msgf("Catalog loaded: tracks=%d total=%.0fs", cat.Len(), cat.TotalDuration())

	// Create media provider
	provider, err := newMediaProvider(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create media provider")
	}

	// Restore preferences
	store := prefs.NewStore(cfg.Prefs.Path)
	restored, ok := store.Load()
	playerCfg := player.Config{
		InitialVolume: cfg.Player.DefaultVolume,
		Theme:         player.ParseTheme(cfg.Player.DefaultTheme),
		VolumeStep:    cfg.Player.VolumeStep,
	}
	if ok {
		playerCfg.InitialVolume = restored.Volume
		playerCfg.Theme = player.ParseTheme(restored.Theme)
		zlog.Info().Msgf("Preferences restored: volume=%d theme=%s", restored.Volume, restored.Theme)
	}

	// Create player and notification fan-out
	p := player.New(cat, provider, store, playerCfg)
	notifManager := notification.NewManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)
	go notifManager.Forward(ctx, p.Events())

	// Create RPC service
	done := make(chan struct{})
	playerService := apiconnect.NewPlayerService(p, intent.NewDispatcher(p), notifManager, done)

	// Create HTTP mux
	mux := http.NewServeMux()

	// Create control auth interceptor
	controlAuthInterceptor := apiconnect.NewControlAuthInterceptor(cfg.Control.Token)
	playerPath, playerHandler := apiconnect.NewPlayerServiceHandler(
		playerService,
		connect.WithInterceptors(controlAuthInterceptor),
	)
	mux.Handle(playerPath, playerHandler)

	if cfg.Control.Token == "" {
		zlog.Warn().Msg("Control token not configured, Dispatch is open to any client")
	}

	// Determine server address
	serverAddr := cfg.Server.Addr
	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    serverAddr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	// Channel to capture server startup errors
	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	// Start server
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s instance=%s", serverAddr, instanceID)
		// Signal that we're about to start listening
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for server to start listening
	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	// Execute startup hook if configured (after server is running)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// End subscription streams first so Shutdown does not wait on them
	close(done)
	notifManager.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	cancel()
	closeProvider(provider)
	p.Close()

	zlog.Info().Msg("Server stopped")

	// Execute shutdown hook if configured
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// newMediaProvider creates the media provider selected by media.type.
func newMediaProvider(cfg *config.Config) (media.Provider, error) {
	switch cfg.Media.Type {
	case config.MediaTypeSimulated:
		provider, err := simmedia.NewFromSettings(cfg.Media.Settings, cfg.Durations())
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.Newf("unknown media type: %s", cfg.Media.Type)
	}
}

func closeProvider(provider media.Provider) {
	switch c := provider.(type) {
	case io.Closer:
		_ = c.Close()
	case interface{ Close() }:
		c.Close()
	}
}

// printIntents prints accepted intent names and key bindings.
func printIntents() {
	d := intent.NewDispatcher(nil)
	names := d.Names()
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	fmt.Println("Available Intents:")
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
	fmt.Println("Key Bindings:")
	for _, b := range d.KeyBindings() {
		fmt.Printf("  %-12s - %s\n", b.Code, b.Action)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
