// Command graphconsole serves the graph console API: Cypher queries projected
// into visualization graphs, per-session history and shared graphs.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/graphconsole/internal/api"
	"github.com/persistorai/graphconsole/internal/config"
	"github.com/persistorai/graphconsole/internal/db"
	"github.com/persistorai/graphconsole/internal/db/migrations"
	"github.com/persistorai/graphconsole/internal/dbpool"
	"github.com/persistorai/graphconsole/internal/middleware"
	"github.com/persistorai/graphconsole/internal/neo4jdb"
	"github.com/persistorai/graphconsole/internal/service"
	"github.com/persistorai/graphconsole/internal/session"
	"github.com/persistorai/graphconsole/internal/store"
	"github.com/persistorai/graphconsole/internal/ws"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("graph console exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	if level != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, dbpool.Options{
		URL:              cfg.DatabaseURL.Value(),
		MaxConns:         cfg.DBMaxConns,
		StatementTimeout: cfg.QueryTimeout,
		ApplicationName:  "graphconsole",
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	neo, err := neo4jdb.Open(ctx, neo4jdb.Options{
		URI:          cfg.Neo4jURI,
		User:         cfg.Neo4jUser,
		Password:     cfg.Neo4jPassword.Value(),
		Database:     cfg.Neo4jDatabase,
		QueryTimeout: cfg.QueryTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connecting to neo4j: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := neo.Close(closeCtx); err != nil {
			log.WithError(err).Warn("closing neo4j driver")
		}
	}()

	graphs := store.NewGraphStore(store.Base{Pool: pool, Log: log})

	hub := ws.NewHub(log)
	sessions := session.NewManager(cfg.SessionTTL, log)
	sessions.OnEvict = hub.ForgetSession

	if err := db.NewNotifyBridge(log, pool, hub).Start(ctx); err != nil {
		return err
	}

	console := service.NewConsoleService(neo, neo, graphs, sessions, hub, service.Options{
		RootNodeID: cfg.RootNodeID,
		Version:    config.Version,
	}, log)

	handler := api.NewRouter(ctx, &api.RouterDeps{
		Log:     log,
		Hub:     hub,
		Console: console,
		Shares:  console,
		Health: api.HealthDeps{
			Pool:     pool,
			Neo4j:    neo,
			Graphs:   graphs,
			Sessions: sessions,
			Hub:      hub,
		},
		CORSOrigins:  cfg.CORSOrigins,
		Version:      config.Version,
		SecureCookie: cfg.SecureCookie,
		Limits: api.Limits{
			MaxBodyBytes: cfg.MaxBodyBytes,
			Address:      middleware.Limit{PerSecond: cfg.RateLimit, Burst: cfg.RateBurst},
			Session:      middleware.Limit{PerSecond: cfg.SessionRateLimit, Burst: cfg.SessionRateBurst},
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		sessions.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"version": config.Version,
			"root":    cfg.RootNodeID,
		}).Info("graph console listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		log.WithField("addr", metricsSrv.Addr).Info("metrics listening")

		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		hub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("api server shutdown")
		}

		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}

		return nil
	})

	return g.Wait()
}
