package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dgallion1/docsite/internal/api"
	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/pipeline"
)

var CLI struct {
	Config  string `short:"c" help:"YAML configuration file, overlaid on environment defaults" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Files         []string `arg:"" name:"file" help:"Input documents" type:"existingfile"`
		HTMLDir       string   `short:"o" name:"html-dir" help:"Output directory for generated pages"`
		ApidocDir     string   `name:"apidoc-dir" help:"Directory containing api-objects.txt" type:"path"`
		Symbols       string   `help:"Symbol index file, one name<TAB>url per line" type:"path"`
		Depth         int      `short:"d" help:"Split sections into pages down to this depth (-1 keeps the configured value)" default:"-1"`
		AddNavigation bool     `short:"n" name:"add-navigation" help:"Add previous/next links and breadcrumbs"`
		Stylesheet    string   `help:"Stylesheet linked from every page"`
		APIPrefix     string   `name:"api-prefix" help:"Path prefix of symbol links"`
	} `cmd:"" help:"Generate HTML pages from input documents"`

	Serve struct {
		Port string `short:"p" help:"Listen port"`
	} `cmd:"" help:"Run the HTTP generation service"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("docsite"),
		kong.Description("Split documents into cross-linked HTML pages."),
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}

	cfg, err := config.LoadFile(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "build <file>":
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
		slog.SetDefault(log)
		if err := runBuild(buildConfig(cfg), CLI.Build.Files, log); err != nil {
			log.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
		slog.SetDefault(log)
		if CLI.Serve.Port != "" {
			cfg.Port = CLI.Serve.Port
		}
		if err := runServe(cfg, log); err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

// buildConfig applies the build flags that were set on top of cfg.
func buildConfig(cfg config.Config) config.Config {
	b := CLI.Build
	if b.HTMLDir != "" {
		cfg.OutputDir = b.HTMLDir
	}
	if b.ApidocDir != "" {
		cfg.ApidocDir = b.ApidocDir
	}
	if b.Symbols != "" {
		cfg.SymbolsFile = b.Symbols
	}
	if b.Depth >= 0 {
		cfg.Depth = b.Depth
	}
	if b.AddNavigation {
		cfg.AddNavigation = true
	}
	if b.Stylesheet != "" {
		cfg.Stylesheet = b.Stylesheet
	}
	if b.APIPrefix != "" {
		cfg.APIPrefix = b.APIPrefix
	}
	return cfg
}

func runBuild(cfg config.Config, files []string, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	index, err := pipeline.LoadSymbols(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting site generation",
		"files", len(files), "output", cfg.OutputDir, "depth", cfg.Depth, "navigation", cfg.AddNavigation)

	w := pipeline.NewWorker(cfg, index, log)
	jobs, err := w.RunBatch(ctx, files, pipeline.BatchOptions{
		OutputDir:     cfg.OutputDir,
		Depth:         cfg.Depth,
		AddNavigation: cfg.AddNavigation,
	})
	pages := 0
	for _, job := range jobs {
		pages += job.Snapshot().Progress.PagesRendered
	}
	log.Info("Site generation finished", "files", len(jobs), "pages", pages)
	return err
}

func runServe(cfg config.Config, log *slog.Logger) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	index, err := pipeline.LoadSymbols(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, index, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting uploads before the queue closes.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docsite", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
