package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/inference"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/pipeline"
	"github.com/nguyentantai21042004/segment-flow/internal/processor"
	"github.com/nguyentantai21042004/segment-flow/internal/store"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "segmenter",
		Short:         "Classify, filter, group and summarize transcript segments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the YAML config file")

	root.AddCommand(newRunCmd(), newWatchCmd(), newRunsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if pipeline.IsFatal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// app holds the dependencies shared by every command.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	client inference.Client
	store  store.Store
	proc   processor.Processor
}

// loadConfig reads the config file. A missing default file falls back to
// built-in defaults; a missing explicit file is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if !cmd.Flags().Changed("config") && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	client, err := inference.New(cfg.Inference)
	if err != nil {
		return nil, fmt.Errorf("create inference client: %w", err)
	}

	var st store.Store
	if cfg.Store.Path != "" {
		if st, err = store.New(cfg.Store.Path); err != nil {
			return nil, fmt.Errorf("open run store: %w", err)
		}
	}

	pipe := pipeline.New(cfg, client, log)
	return &app{
		cfg:    cfg,
		log:    log,
		client: client,
		store:  st,
		proc:   processor.New(cfg, pipe, st, log),
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) banner(ctx context.Context, title string) {
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "%s", title)
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	a.log.Info(ctx, "Inference: %s %s (%s)", a.client.Name(), a.cfg.Inference.Model, a.cfg.Inference.BaseURL)
	a.log.Info(ctx, "Classifier: batch %d, %d concurrent", a.cfg.Classifier.BatchSize, a.cfg.Classifier.MaxConcurrent)
	a.log.Info(ctx, "Summarizer: %d concurrent", a.cfg.Summarizer.MaxConcurrent)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
