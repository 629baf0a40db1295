// Command server runs the appointment backend: it wires configuration,
// stores, services, and the HTTP router, then serves until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"mediconnect/internal/account"
	accountmemory "mediconnect/internal/account/store/memory"
	accountpg "mediconnect/internal/account/store/postgres"
	"mediconnect/internal/account/store/revocation"
	"mediconnect/internal/appointment"
	appointmentmemory "mediconnect/internal/appointment/store/memory"
	appointmentpg "mediconnect/internal/appointment/store/postgres"
	"mediconnect/internal/note"
	notememory "mediconnect/internal/note/store/memory"
	notepg "mediconnect/internal/note/store/postgres"
	"mediconnect/internal/platform/config"
	"mediconnect/internal/platform/httpserver"
	"mediconnect/internal/platform/logger"
	"mediconnect/internal/platform/metrics"
	"mediconnect/internal/platform/postgres"
	"mediconnect/internal/platform/redis"
	"mediconnect/internal/token"
	httptransport "mediconnect/internal/transport/http"
	"mediconnect/pkg/platform/audit"
	auditkafka "mediconnect/pkg/platform/audit/kafka"
	auditmemory "mediconnect/pkg/platform/audit/store/memory"
	auditpg "mediconnect/pkg/platform/audit/store/postgres"
	"mediconnect/pkg/platform/tx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		accountStore     account.Store
		appointmentStore appointment.Store
		noteStore        note.Store
		auditStore       audit.Store
		runner           tx.Runner = tx.NopRunner{}
	)
	if db != nil {
		accountStore = accountpg.New(db)
		appointmentStore = appointmentpg.New(db)
		noteStore = notepg.New(db)
		auditStore = auditpg.New(db)
		runner = tx.NewSQLRunner(db)
		log.Info("using postgres stores")
	} else {
		accountStore = accountmemory.New()
		appointmentStore = appointmentmemory.New()
		noteStore = notememory.New()
		auditStore = auditmemory.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var revocations account.RevocationList
	if redisClient != nil {
		revocations = revocation.NewRedisList(redisClient.Client)
		log.Info("using redis token revocation list")
	} else {
		revocations = revocation.NewMemoryList()
		log.Warn("REDIS_URL not set, token revocation is per-instance")
	}

	failureMode := audit.FailOpen
	if cfg.AuditFailClosed {
		failureMode = audit.FailClosed
	}

	recorderOpts := []audit.Option{
		audit.WithFailureMode(failureMode),
		audit.WithMetrics(appMetrics),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	var mirror *auditkafka.Mirror
	if len(cfg.KafkaBrokers) > 0 {
		inbox := make(chan audit.Entry, 256)
		mirror, err = auditkafka.NewMirror(cfg.KafkaBrokers, cfg.AuditTopic, inbox, log)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		recorderOpts = append(recorderOpts, audit.WithMirror(inbox))
		group.Go(func() error { return mirror.Run(ctx) })
		log.Info("audit mirror enabled", "topic", cfg.AuditTopic)
	}

	recorder := audit.NewRecorder(auditStore, log, recorderOpts...)

	tokens := token.NewService(cfg.JWTSigningKey, cfg.TokenIssuer, cfg.TokenTTL)
	accounts := account.NewService(accountStore, revocations, tokens, recorder, appMetrics, log)
	appointments := appointment.NewService(appointmentStore, accounts, recorder, log,
		appointment.WithTxRunner(runner))
	notes := note.NewService(noteStore, appointments, recorder, log,
		note.WithTxRunner(runner))

	router := httptransport.NewRouter(httptransport.Deps{
		Accounts:     accounts,
		Appointments: appointments,
		Notes:        notes,
		Recorder:     recorder,
		Verifier:     tokens,
		Revocations:  revocations,
		Metrics:      appMetrics,
		AdminToken:   cfg.AdminToken,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
