package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"students-api-go/config"
	"students-api-go/db"
	"students-api-go/handlers"
)

var (
	configPath string
	sourcePath string
	addr       string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "students-api",
	Short:        "Serve the student list over HTTP, filterable by class.",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and start the HTTP server (default command).",
	RunE:  runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "err", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&sourcePath, "source", "s", "", "Dataset location (file, s3://bucket/key or redis://host:port/db?key=name)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address")
	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("source") {
		cfg.Source.Location = sourcePath
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Server.Addr = addr
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// setupLogging installs a JSON slog handler on stderr and routes the
// standard logger and gin's writers through it.
func setupLogging(level slog.Level) {
	programLevel := new(slog.LevelVar)
	programLevel.Set(level)
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel})
	slog.SetDefault(slog.New(handler))

	w := slog.NewLogLogger(handler, slog.LevelInfo).Writer()
	log.SetOutput(w)
	gin.DefaultWriter = w
	gin.DefaultErrorWriter = slog.NewLogLogger(handler, slog.LevelError).Writer()
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.SlogLevel())

	slog.Info("students-api starting",
		"addr", cfg.Server.Addr,
		"source", cfg.Source.Location,
		"watch", cfg.Source.Watch,
		"reload_interval", cfg.Source.ReloadInterval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dataset, err := db.NewDataset(ctx, cfg.Source.Location)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	if cfg.Source.Watch {
		go func() {
			if err := dataset.Watch(ctx); err != nil {
				slog.Error("dataset watch stopped", "err", err)
			}
		}()
	}
	if cfg.Source.ReloadInterval > 0 {
		go dataset.Refresh(ctx, cfg.Source.ReloadInterval)
	}

	apiHandler := handlers.NewAPIHandler(dataset, cfg.Server.Message)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.NewRouter(apiHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
