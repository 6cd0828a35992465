package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/uehara-kazuya/leadlens/config"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
	"github.com/uehara-kazuya/leadlens/internal/registry"
	"github.com/uehara-kazuya/leadlens/internal/runtime"
	"github.com/uehara-kazuya/leadlens/internal/security"
	"github.com/uehara-kazuya/leadlens/internal/targets"
	"github.com/uehara-kazuya/leadlens/internal/telemetry"
	"github.com/uehara-kazuya/leadlens/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var (
		useStdio        bool
		configPath      string
		csvURL          string
		targetsDB       string
		shutdownTimeout time.Duration
	)

	flag.BoolVar(&useStdio, "stdio", false, "Run server over stdio transport")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&csvURL, "csv-url", "", "Override the CSV export URL")
	flag.StringVar(&targetsDB, "targets-db", "", "Override the KPI targets database path")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.Parse()

	logger := zlog.With().Str("service", "leadlens-server").Logger()
	ctx := logger.WithContext(context.Background())

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("config: failed to load")
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if csvURL != "" {
		cfg.Source.CSVURL = csvURL
	}
	if targetsDB != "" {
		cfg.Storage.TargetsDB = targetsDB
	}

	// Security: workbook loading stays disabled unless an allow-list is set.
	secMgr, err := security.NewManagerFromEnv()
	if err != nil {
		logger.Error().Err(err).Msg("security: failed to initialize manager from env")
		fmt.Fprintln(os.Stderr, "invalid security configuration; check "+security.EnvAllowedDirs)
		os.Exit(1)
	}
	if secMgr.Enabled() {
		logger.Info().Strs("allowed_dirs", secMgr.AllowedDirectories()).Msg("workbook allow-list configured")
	} else {
		logger.Info().Msg("no workbook allow-list configured; load_workbook is disabled")
	}

	targetStore, err := targets.Open(cfg.Storage.TargetsDB)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.Storage.TargetsDB).Msg("targets: failed to open store")
		fmt.Fprintf(os.Stderr, "failed to open targets store: %v\n", err)
		os.Exit(1)
	}
	defer targetStore.Close()

	limits := runtime.FromConfig(cfg.Limits)
	runtimeController := runtime.NewController(limits)
	runtimeMW := runtime.NewMiddleware(runtimeController)

	fetcher := dataset.NewCSVFetcher(cfg.Source.CSVURL, cfg.Source.FetchTimeout.Std())
	store := dataset.NewStore(fetcher, nil, logger)

	toolRegistry := registry.New()
	readOnlyFilter := registry.NewReadOnlyToolFilterFromEnv()

	srv := server.NewMCPServer(
		"LeadLens CRM Analytics Server",
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(telemetry.BuildHooks(logger)),
		server.WithToolHandlerMiddleware(runtimeMW.ToolMiddleware),
		server.WithToolFilter(func(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
			return readOnlyFilter.FilterTools(ctx, tools)
		}),
	)

	deps := registry.Deps{
		Store:    store,
		Targets:  targetStore,
		Security: secMgr,
		Ctrl:     runtimeController,
		Limits:   limits,
		Source:   cfg.Source,
		Log:      logger,
	}
	registry.RegisterDatasetTools(srv, toolRegistry, deps)
	registry.RegisterInsightTools(srv, toolRegistry, deps)
	registry.RegisterKPITools(srv, toolRegistry, deps)

	logger.Info().
		Ctx(ctx).
		Str("version", version.Version()).
		Str("csv_url", cfg.Source.CSVURL).
		Str("targets_db", cfg.Storage.TargetsDB).
		Int("max_concurrent_requests", limits.MaxConcurrentRequests).
		Int("max_concurrent_fetches", limits.MaxConcurrentFetches).
		Bool("stdio", useStdio).
		Msg("server bootstrap configured")

	if useStdio {
		if err := server.ServeStdio(srv); err != nil {
			// Use stderr for transport errors so clients don't misinterpret output
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintln(os.Stderr, "no transport selected; use --stdio to run over stdio")
	os.Exit(2)
}
