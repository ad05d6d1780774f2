package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"thumbgenius/internal/app"
	"thumbgenius/internal/config"
	"thumbgenius/internal/server"
)

var (
	addrFlag        string
	modelFlag       string
	validateKeyFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "thumbgenius-web",
	Short: "Web UI for building YouTube thumbnail prompts",
	Long: `thumbgenius-web serves a local form that turns a video topic and a few
visual choices into a Midjourney prompt. Gemini writes the hook, reads the
reference image and drafts the prompt; without GEMINI_API_KEY the server runs
offline and assembles prompts from local templates.

Examples:
  thumbgenius-web
  thumbgenius-web --addr :9090
  thumbgenius-web --model gemini-2.5-pro --validate-key`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides WEB_ADDR)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Gemini model (overrides GEMINI_MODEL)")
	rootCmd.Flags().BoolVar(&validateKeyFlag, "validate-key", false, "check the API key with one request before serving")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(addrFlag); v != "" {
		cfg.WebAddr = v
	}
	if v := strings.TrimSpace(modelFlag); v != "" {
		cfg.GeminiModel = v
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if validateKeyFlag {
		vctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := a.ValidateKey(vctx)
		cancel()
		if err != nil {
			return fmt.Errorf("api key validation: %w", err)
		}
		logger.Info("api key validated", "model", a.ModelName())
	}

	srv, err := server.New(server.Options{
		Generator:         a.Generator,
		History:           a.History,
		Drafts:            a.Drafts,
		Logger:            logger,
		ModelName:         a.ModelName(),
		MaxUploadBytes:    cfg.MaxUploadBytes,
		ImageMaxDimension: cfg.ImageMaxDimension,
		RequestTimeout:    cfg.RequestTimeout,
	})
	if err != nil {
		return err
	}

	httpSrv := srv.HTTPServer(cfg.WebAddr)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("web started", "addr", cfg.WebAddr, "model", a.ModelName(), "offline", cfg.Offline())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
