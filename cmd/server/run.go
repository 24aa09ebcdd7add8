package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	attendancehandler "welcome/internal/attendance/handler"
	attendance "welcome/internal/attendance/service"
	"welcome/internal/hooks"
	hookshandler "welcome/internal/hooks/handler"
	"welcome/internal/platform/config"
	"welcome/internal/platform/database"
	"welcome/internal/platform/health"
	"welcome/internal/platform/httpserver"
	"welcome/internal/platform/kafka/producer"
	"welcome/internal/platform/logger"
	"welcome/internal/platform/metrics"
	redisclient "welcome/internal/platform/redis"
	"welcome/internal/platform/tracer"
	printinghandler "welcome/internal/printing/handler"
	"welcome/internal/printing/printer"
	printing "welcome/internal/printing/service"
	"welcome/internal/profile/store"
	httptransport "welcome/internal/transport/http"
	"welcome/migrations"
	"welcome/pkg/domain"
	"welcome/pkg/platform/circuit"
	request "welcome/pkg/platform/middleware/request"
)

const (
	closeTimeout       = 15 * time.Second
	redisStatsInterval = 15 * time.Second
	kafkaPartitions    = 3
	kafkaReplication   = 1
)

// closer releases one infrastructure resource at shutdown.
type closer func(ctx context.Context) error

type infra struct {
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
	health   *health.Handler
	logger   *slog.Logger
	closers  []closer
}

func (i *infra) onClose(c closer) {
	i.closers = append(i.closers, c)
}

// close runs closers in reverse order of registration.
func (i *infra) close(ctx context.Context) error {
	var errs []error
	for idx := len(i.closers) - 1; idx >= 0; idx-- {
		if err := i.closers[idx](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func run(ctx context.Context, cfg config.Config) error {
	eventKey, err := domain.ParseEventKey(cfg.EventKey)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Server.LogLevel)
	log.Info("initializing welcome",
		"addr", cfg.Server.Addr,
		"event_key", eventKey.String(),
		"backend", cfg.Store.Backend,
		"environment", cfg.Server.Environment,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	inf := &infra{
		registry: reg,
		metrics:  metrics.New(reg),
		tracer:   tracer.NewOTel(),
		health:   health.New(cfg.Server.Environment, eventKey.String()),
		logger:   log,
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := inf.close(closeCtx); err != nil {
			log.Error("shutdown incomplete", "error", err)
		}
		log.Info("server stopped")
	}()

	profiles, err := openStore(ctx, cfg.Store, inf)
	if err != nil {
		return err
	}

	jobs, err := buildJobs(cfg.Printing, eventKey, buildPrinter(cfg.Printing, inf), inf)
	if err != nil {
		return err
	}

	dispatcher, err := buildDispatcher(ctx, cfg.Hooks, inf)
	if err != nil {
		return err
	}

	coordinator := attendance.New(profiles, jobs, eventKey,
		attendance.DispatchArrivals(dispatcher),
		attendance.WithLogger(log),
		attendance.WithMetrics(inf.metrics),
		attendance.WithTracer(inf.tracer),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Attendance:     attendancehandler.New(coordinator, log),
		Printing:       printinghandler.New(jobs, log),
		Health:         inf.health,
		Hooks:          hookshandler.New(dispatcher, log),
		AdminTokenHash: cfg.Server.AdminTokenHash,
		StaticDir:      cfg.Server.StaticDir,
		Metrics:        request.NewMetrics(reg),
		Gatherer:       reg,
	})
	if cfg.Server.AdminTokenHash == "" {
		log.Warn("ADMIN_TOKEN_HASH not set, admin routes disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv := httpserver.New(cfg.Server.Addr, router)
		tls := httpserver.TLS{CertFile: cfg.Server.TLSCertFile, KeyFile: cfg.Server.TLSKeyFile}
		return httpserver.ListenAndServe(gctx, srv, tls, log)
	})
	if bootstrap := bootstrapServer(cfg.Server, log); bootstrap != nil {
		g.Go(func() error {
			return httpserver.ListenAndServe(gctx, bootstrap, httpserver.TLS{}, log)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// bootstrapServer builds the plain HTTP server for the bootstrap directory.
// It returns nil when no directory is configured or it does not exist.
func bootstrapServer(cfg config.Server, log *slog.Logger) *http.Server {
	if cfg.BootstrapDir == "" {
		return nil
	}
	info, err := os.Stat(cfg.BootstrapDir)
	if err != nil || !info.IsDir() {
		log.Warn("bootstrap directory not found, bootstrap listener disabled", "dir", cfg.BootstrapDir)
		return nil
	}
	return httpserver.New(cfg.BootstrapAddr, httptransport.NewBootstrapRouter(cfg.BootstrapDir, log))
}

// openStore builds the configured profile store backend and registers its
// readiness check.
func openStore(ctx context.Context, cfg config.Store, inf *infra) (store.Store, error) {
	var (
		backend store.Store
		check   health.CheckFunc
	)

	switch cfg.Backend {
	case "postgres":
		dbCfg := database.DefaultConfig(cfg.DatabaseURL)
		dbCfg.Migrations = migrations.FS
		pool, err := database.Open(ctx, dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		inf.onClose(func(context.Context) error { return pool.Close() })
		backend, check = store.NewPostgres(pool.DB), pool.Health

	case "redis":
		redisCfg := redisclient.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		client, err := redisclient.New(ctx, redisCfg, inf.registry)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		inf.onClose(func(context.Context) error { return client.Close() })
		go client.RunPoolStats(ctx, redisStatsInterval)
		backend, check = store.NewRedis(client.Client), client.Health

	default:
		fileStore, err := store.NewFile(cfg.CardsFile)
		if err != nil {
			return nil, fmt.Errorf("load cards file: %w", err)
		}
		inf.logger.Info("cards loaded", "path", cfg.CardsFile, "cards", fileStore.Len())
		backend, check = fileStore, fileStore.Health
	}

	inf.health.RegisterCheck("profile_store", check)
	return store.Instrument(backend, cfg.Backend, inf.metrics), nil
}

// buildJobs starts the print job manager. The event key fields are applied
// over the configured template.
func buildJobs(cfg config.Printing, eventKey domain.EventKey, p printing.Printer, inf *infra) (*printing.Service, error) {
	jobs := printing.New(p, inf.logger,
		printing.WithMetrics(inf.metrics),
		printing.WithTracer(inf.tracer),
		printing.WithTimeout(cfg.Timeout),
		printing.WithWorkers(cfg.Workers),
		printing.WithRetention(cfg.Retention),
		printing.WithTemplate(cfg.Template),
	)
	inf.onClose(jobs.Close)
	if err := jobs.UpdateTemplate(eventKey.PrintTemplate()); err != nil {
		return nil, err
	}
	return jobs, nil
}

// buildPrinter picks the command, spooler or log printer and wraps it in
// the breaker that feeds the printer readiness check.
func buildPrinter(cfg config.Printing, inf *infra) printing.Printer {
	var p printing.Printer
	switch {
	case cfg.Command != "":
		cmdPrinter, err := printer.NewCommand(cfg.Command)
		if err != nil {
			inf.logger.Warn("invalid printer command, logging cards instead", "error", err)
			p = printer.NewLog(inf.logger)
			break
		}
		p = cmdPrinter
	case cfg.URL != "":
		p = printer.NewHTTP(cfg.URL, &http.Client{Timeout: cfg.Timeout})
	default:
		inf.logger.Info("no printer configured, logging cards instead")
		p = printer.NewLog(inf.logger)
	}

	breaker := printer.NewBreaker(p, circuit.New("printer"), inf.metrics, inf.logger)
	inf.health.RegisterCheck("printer", breaker.Health)
	return breaker
}

// buildDispatcher configures delivery, registers the startup recipients and
// the optional signer and Kafka mirror.
func buildDispatcher(ctx context.Context, cfg config.Hooks, inf *infra) (*hooks.Dispatcher, error) {
	opts := []hooks.Option{
		hooks.WithClient(&http.Client{}),
		hooks.WithTimeout(cfg.Timeout),
		hooks.WithMetrics(inf.metrics),
		hooks.WithTracer(inf.tracer),
	}

	if cfg.SigningKey != "" {
		signer, err := hooks.NewSigner(cfg.SigningKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, hooks.WithSigner(signer))
	}

	if cfg.KafkaBrokers != "" {
		prod, err := producer.New(producer.DefaultConfig(cfg.KafkaBrokers), inf.logger)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		inf.onClose(prod.Close)
		if err := prod.EnsureTopic(ctx, cfg.KafkaTopic, kafkaPartitions, kafkaReplication); err != nil {
			inf.logger.Warn("ensure kafka topic failed", "topic", cfg.KafkaTopic, "error", err)
		}
		inf.health.RegisterCheck("kafka", prod.Health)
		opts = append(opts, hooks.WithMirror(prod, cfg.KafkaTopic))
	}

	dispatcher := hooks.New(inf.logger, opts...)
	inf.onClose(dispatcher.Close)

	recipients := cfg.Recipients
	if cfg.File != "" {
		fromFile, err := hooks.LoadRecipients(cfg.File)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, fromFile...)
	}
	if err := dispatcher.Register(recipients...); err != nil {
		return nil, err
	}
	inf.logger.Info("hook recipients registered", "count", len(dispatcher.Recipients()))
	return dispatcher, nil
}
