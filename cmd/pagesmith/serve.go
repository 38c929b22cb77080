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

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/pagesmith/internal/config"
	"github.com/ShayCichocki/pagesmith/internal/generator"
	"github.com/ShayCichocki/pagesmith/internal/githost"
	"github.com/ShayCichocki/pagesmith/internal/notify"
	"github.com/ShayCichocki/pagesmith/internal/pipeline"
	"github.com/ShayCichocki/pagesmith/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deployment service",
	Long: `Start the HTTP service that accepts deployment jobs.

The service listens for POST /api-endpoint requests, authenticates them
against the shared secret, and processes each job in the background:
synthesize the document, commit it to GitHub, enable Pages, and notify
the evaluation endpoint.

Required configuration (config file or environment):
  server.shared_secret  (SHARED_SECRET)
  github.token          (GITHUB_PAT)
  github.owner          (GITHUB_USERNAME)
  anthropic.api_key     (ANTHROPIC_API_KEY, unless Bedrock is enabled)`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override the configured listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	gen, err := generator.New(generator.Config{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	host := githost.NewGitHubHost(cfg.GitHub.Token, cfg.GitHub.Owner)
	engine := githost.NewEngine(host, cfg.GitHub.Owner, cfg.GitHub.DefaultBranch)

	notifier := notify.New(notify.Config{
		MaxRetries: cfg.Notify.MaxRetries,
		BaseDelay:  cfg.Notify.BaseDelay,
		Timeout:    cfg.Notify.Timeout,
	})

	debug, err := pipeline.NewDebugLogger(cfg.Logging.DebugLog)
	if err != nil {
		return fmt.Errorf("creating debug logger: %w", err)
	}
	defer debug.Close()

	dispatcher := pipeline.NewDispatcher(pipeline.New(gen, engine, notifier, debug))
	srv := server.New(cfg.Server.SharedSecret, dispatcher)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[serve] pagesmith %s listening on port %d (owner %s)",
			Version(), cfg.Server.Port, cfg.GitHub.Owner)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-sigCh:
		log.Printf("[serve] received %s, shutting down", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[serve] shutdown: %v", err)
		}

		// Let in-flight jobs finish before exiting.
		dispatcher.Stop()
	}

	return nil
}
