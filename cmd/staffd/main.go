// Command staffd runs the personnel and authorization server.
package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hospital-rp/staffd/pkg/api"
	"github.com/hospital-rp/staffd/pkg/audit"
	"github.com/hospital-rp/staffd/pkg/config"
	"github.com/hospital-rp/staffd/pkg/observability"
	"github.com/hospital-rp/staffd/pkg/promotions"
	"github.com/hospital-rp/staffd/pkg/resources"
	"github.com/hospital-rp/staffd/pkg/roster"
	"github.com/hospital-rp/staffd/pkg/storage"
	"github.com/hospital-rp/staffd/pkg/storage/memory"
	"github.com/hospital-rp/staffd/pkg/storage/postgres"
	"github.com/hospital-rp/staffd/pkg/warnings"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.SetLevel(cfg.LogrusLevel())

	metrics := observability.NewMetrics(prometheus.NewRegistry())

	store, auditLog, err := buildBackend(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}
	auditLog = &meteredAuditLog{Logger: auditLog, metrics: metrics}

	health := observability.NewHealthChecker("1.0.0")
	health.AddCheck("storage", observability.MeteredCheck(metrics, "health_check", store.HealthCheck))

	server := api.NewServer(api.Deps{
		Store:      store,
		Roster:     roster.NewService(store, auditLog, cfg.Auth.MasterPassword, log),
		Promotions: promotions.NewService(store, auditLog, log),
		Warnings:   warnings.NewService(store, auditLog, cfg.WarningThreshold, log),
		Resources:  resources.NewService(store, auditLog, log),
		AuditLog:   auditLog,
		Metrics:    metrics,
		Health:     health,
		Log:        log,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	scheduler := startRetentionJob(cfg, auditLog, metrics, log)

	shutdown := observability.NewShutdownManager(log, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		if scheduler != nil {
			scheduler.Stop()
		}
		return nil
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return auditLog.Close()
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return store.Close()
	})

	var g errgroup.Group
	g.Go(func() error {
		log.WithField("addr", httpServer.Addr).Info("staffd listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(shutdown.WaitForShutdown)

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server exited with error")
	}
}

// buildBackend wires the store and audit logger for the configured
// storage profile. The postgres audit logger shares the store's
// connection pool.
func buildBackend(cfg *config.Config, log *logrus.Logger) (storage.Store, audit.Logger, error) {
	if cfg.Storage.Type == "memory" {
		log.Warn("using in-memory storage; all data is lost on restart")
		return memory.NewStore(), audit.NewMemoryLogger(), nil
	}

	pgStore, err := postgres.NewStore(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	auditLog, err := audit.NewDBLogger(pgStore.DB())
	if err != nil {
		pgStore.Close()
		return nil, nil, err
	}

	var store storage.Store = pgStore
	if cfg.Storage.CacheEnabled {
		cached, err := postgres.NewCachedStore(pgStore, cfg.Storage)
		if err != nil {
			pgStore.Close()
			return nil, nil, err
		}
		store = cached
		log.WithField("redis_addr", cfg.Storage.RedisAddr).Info("redis cache enabled")
	}

	return store, auditLog, nil
}

// startRetentionJob schedules audit log cleanup for database-backed
// deployments. Memory deployments have nothing to prune.
func startRetentionJob(cfg *config.Config, auditLog audit.Logger, metrics *observability.Metrics, log *logrus.Logger) *cron.Cron {
	metered, ok := auditLog.(*meteredAuditLog)
	if !ok {
		return nil
	}
	dbLogger, ok := metered.Logger.(*audit.DBLogger)
	if !ok || cfg.Audit.RetentionDays == 0 {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Audit.CleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		pruned, err := dbLogger.Cleanup(ctx, cfg.Audit.RetentionDays)
		if err != nil {
			metrics.StorageErrorsTotal.WithLabelValues("audit_cleanup").Inc()
			log.WithError(err).Error("audit retention cleanup failed")
			return
		}
		metrics.AuditPrunedEntries.Add(float64(pruned))
		log.WithField("pruned", pruned).Info("audit retention cleanup complete")
	})
	if err != nil {
		log.WithError(err).Fatal("invalid audit cleanup schedule")
	}

	c.Start()
	log.WithFields(logrus.Fields{
		"schedule":       cfg.Audit.CleanupSchedule,
		"retention_days": cfg.Audit.RetentionDays,
	}).Info("audit retention job scheduled")
	return c
}

// meteredAuditLog counts appended entries per action.
type meteredAuditLog struct {
	audit.Logger
	metrics *observability.Metrics
}

func (m *meteredAuditLog) Append(ctx context.Context, entry audit.Entry) (*audit.Entry, error) {
	stored, err := m.Logger.Append(ctx, entry)
	if err == nil {
		m.metrics.AuditEntriesTotal.WithLabelValues(string(stored.Action)).Inc()
	}
	return stored, err
}
