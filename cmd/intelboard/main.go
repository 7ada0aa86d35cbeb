package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/veldspar/intelboard/internal/cache"
	"github.com/veldspar/intelboard/internal/config"
	"github.com/veldspar/intelboard/internal/handlers"
	"github.com/veldspar/intelboard/internal/ingest"
	"github.com/veldspar/intelboard/internal/metrics"
	"github.com/veldspar/intelboard/internal/server"
	"github.com/veldspar/intelboard/internal/services"
	"github.com/veldspar/intelboard/internal/store"
	"github.com/veldspar/intelboard/internal/store/migrations"
	"github.com/veldspar/intelboard/internal/websocket"
	"github.com/veldspar/intelboard/pkg/pool"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "intelboard",
	Short: "Killboard intel dashboard",
	Long: `intelboard ingests the public killmail feed, scores pilot threat on a
bounded analysis worker pool, and serves the killboard dashboard API.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./intelboard.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer zap.L().Sync() //nolint:errcheck

	log := zap.S().Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.NewStore(db)
	defer st.Close()

	resultCache := cache.New(cfg.Cache.JanitorInterval)
	defer resultCache.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p, err := pool.New(cfg.PoolConfig(),
		pool.WithCache(resultCache),
		pool.WithSink(metrics.NewPoolMetrics(registry)),
	)
	if err != nil {
		return fmt.Errorf("starting worker pool: %w", err)
	}
	defer p.Close()
	metrics.RegisterPoolGauges(registry, p.Stats)

	analyzer := services.NewAnalyzer(p, st)
	statsSrv := services.NewStatsService(p, st)

	hub := websocket.NewHub(statsSrv, cfg.Server.StatsInterval)
	go hub.Run(ctx)

	if cfg.Ingest.Enabled {
		poller := ingest.New(cfg.Ingest.FeedURL, cfg.Ingest.PollInterval, st, analyzer,
			ingest.WithNotify(hub.Notify))
		go poller.Run(ctx)
	} else {
		log.Info("feed ingestion disabled")
	}

	h := handlers.New(services.NewKillmailService(st), analyzer, statsSrv, p)
	srv := server.NewServer(cfg, registry, func(router *gin.RouterGroup) {
		h.Register(router)
		router.GET("/stats/ws", hub.Handle)
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warnw("graceful shutdown failed", "error", err)
	}
	return nil
}

func setupLogging(cfg *config.Configuration) error {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	if cfg.LogFormat == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
