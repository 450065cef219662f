package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/servicehub/servicehub/internal/config/monitor"
	"github.com/servicehub/servicehub/internal/health"
	"github.com/servicehub/servicehub/internal/obs"
	"github.com/servicehub/servicehub/internal/probe"
	"github.com/servicehub/servicehub/internal/repository/kafka"
	pg "github.com/servicehub/servicehub/internal/repository/postgres"
	"github.com/servicehub/servicehub/internal/services/monitor"
)

func main() {
	cfgPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
	if err != nil {
		log.Fatal(err)
	}

	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	db, err := pg.New(root, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	ms := obs.BootstrapMetricsServer(cfg.Sched.MetricsAddr, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}, l)

	prod := kafka.NewProducer(cfg.Out.Brokers, cfg.Out.Topic).WithLogger(l)
	defer func() { _ = prod.Close() }()

	runner := health.NewRunner(l,
		pg.NewServiceRepo(db),
		pg.NewStatusRepo(db),
		probe.New(cfg.Probe),
		health.WithEvents(kafka.NewStatusEventsKafka(prod)),
		health.WithMaxConcurrency(cfg.Sched.MaxConcurrency),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- monitor.New(l, runner, cfg.Sched.Interval).Run(root) }()

	select {
	case <-root.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("monitor loop", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
