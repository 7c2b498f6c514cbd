package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"serena-mcp/internal/api"
	"serena-mcp/internal/auth"
	"serena-mcp/internal/config"
	"serena-mcp/internal/credentials"
	"serena-mcp/internal/handlers"
	"serena-mcp/internal/integrations"
	"serena-mcp/internal/integrations/upstream"
	"serena-mcp/internal/metrics"
	"serena-mcp/internal/services"
	"serena-mcp/internal/store/memory"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "serena-mcp",
		Short: "Function-call dispatcher for conversations, GitHub and Fly.io",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the /mcp endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.AuthSecret == "" {
				return errors.New("no auth secret: set MCP_AUTH_SECRET or pass --auth-secret")
			}
			client := viper.GetString("client")
			if client == "" {
				return errors.New("--client is required")
			}
			token, err := auth.NewAccessToken(client, cfg.AuthSecret, viper.GetDuration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().String("port", "", "port to listen on (overrides PORT)")
	rootCmd.PersistentFlags().String("auth-secret", "", "HMAC secret for bearer tokens (overrides MCP_AUTH_SECRET)")
	rootCmd.PersistentFlags().Bool("log-params", false, "log redacted call parameters (overrides LOG_PARAMS)")

	tokenCmd.Flags().String("client", "", "client id to embed in the token")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	for _, name := range []string{"port", "auth-secret", "log-params"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	for _, name := range []string{"client", "ttl"} {
		if err := viper.BindPFlag(name, tokenCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies any flags given on the command line.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if viper.IsSet("port") {
		cfg.HTTPPort = viper.GetString("port")
	}
	if viper.IsSet("auth-secret") {
		cfg.AuthSecret = viper.GetString("auth-secret")
	}
	if viper.IsSet("log-params") {
		cfg.LogParams = viper.GetBool("log-params")
	}
	return cfg, nil
}

func serve() error {
	log.Printf("Starting serena-mcp %s...", version)

	// 1. Load Configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Metrics and Upstream Client
	exporter := metrics.New(metrics.DefaultConfig())
	upstreamClient := upstream.NewClient(cfg.UpstreamTimeout, exporter)
	log.Println("Upstream client initialized.")

	// 3. Initialize Store, Credentials and Integrations
	conversationStore := memory.NewStore()
	log.Println("In-memory conversation store initialized.")

	creds := credentials.NewEnvProvider()

	github := integrations.NewGithubIntegration(upstreamClient, creds, cfg.GithubAPIURL, cfg.GithubTokenEnv)
	fly := integrations.NewFlyIntegration(upstreamClient, creds, cfg.FlyAPIURL, cfg.FlyTokenEnv)

	intRegistry := integrations.NewRegistry()
	intRegistry.Register("github", github)
	intRegistry.Register("fly", fly)
	for name, status := range intRegistry.Status(context.Background(), creds) {
		if !status.Configured {
			log.Printf("WARN: %s is not set, %s functions will report a missing credential.", status.Credential, name)
		}
	}
	log.Println("IntegrationRegistry initialized and populated.")

	// --- Initialize Services ---
	dispatcher := services.NewDispatcher(services.DispatcherDeps{
		Store:     conversationStore,
		Github:    github,
		Fly:       fly,
		Observer:  exporter,
		LogParams: cfg.LogParams,
	})
	log.Printf("Dispatcher initialized with %d functions.", len(dispatcher.Functions()))

	// --- Initialize Handlers ---
	mcpHandler := handlers.NewMCPHandler(dispatcher)
	systemHandler := handlers.NewSystemHandler(dispatcher, intRegistry, creds, version)

	// 4. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		MCPHandler:    mcpHandler,
		SystemHandler: systemHandler,
		Metrics:       exporter,
		Config:        cfg,
	})
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		log.Println("Server listener routine stopped.")
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("could not listen on %s: %w", cfg.HTTPPort, err)
	case <-stopChan:
		log.Println("Shutdown signal received, initiating graceful shutdown...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
		return err
	}

	log.Println("Server shutdown complete.")
	return nil
}
