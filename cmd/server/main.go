package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/bug_tracker/internal/config"
	"github.com/Skotchmaster/bug_tracker/internal/db"
	"github.com/Skotchmaster/bug_tracker/internal/httpserver"
	"github.com/Skotchmaster/bug_tracker/internal/logging"
	authmw "github.com/Skotchmaster/bug_tracker/internal/middleware/auth"
	"github.com/Skotchmaster/bug_tracker/internal/mykafka"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
	"github.com/Skotchmaster/bug_tracker/internal/search"
	"github.com/Skotchmaster/bug_tracker/internal/service"
	"github.com/Skotchmaster/bug_tracker/internal/tokens"
)

type ledger interface {
	service.RevocationLedger
	authmw.RevocationChecker
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("dotenv", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	base := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(base)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		base.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		base.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}
	r := repo.New(gdb)

	var revoked ledger = r
	var redisLedger *repo.RedisLedger
	if cfg.RevocationBackend == config.RevocationRedis {
		redisLedger, err = repo.NewRedisLedger(cfg.RedisURL)
		if err != nil {
			base.Error("redis_open_failed", "error", err)
			os.Exit(1)
		}
		if err := redisLedger.Ping(ctx); err != nil {
			base.Error("redis_ping_failed", "error", err)
			os.Exit(1)
		}
		revoked = redisLedger
	}
	base.Info("revocation_ledger", "backend", cfg.RevocationBackend)

	var events service.EventPublisher
	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			base.Error("kafka_producer_failed", "error", err)
			os.Exit(1)
		}
		events = prod
	}

	var index service.BugIndexer
	if cfg.ESURL != "" {
		client, err := search.NewClient(ctx, search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, base)
		if err != nil {
			base.Warn("search_disabled", "error", err)
		} else {
			index = search.NewBugIndex(client, cfg.ESIndex)
		}
	}

	codec := tokens.NewCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	deps := &httpserver.Deps{
		DB:     gdb,
		Authn:  &authmw.Authenticator{Codec: codec, Ledger: revoked, Users: r},
		Policy: authmw.NewPolicy(),
		Auth: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Users:                 r,
			Ledger:                revoked,
			Codec:                 codec,
			Events:                events,
			CheckRevokedOnRefresh: cfg.RefreshChecksRevocation,
		}},
		Users:         &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Events: events}},
		Projects:      &httpserver.ProjectHTTP{Svc: &service.ProjectService{Repo: r}},
		Bugs:          &httpserver.BugHTTP{Svc: &service.BugService{Repo: r, Events: events, Index: index}},
		Notifications: &httpserver.NotificationHTTP{Svc: &service.NotificationService{Repo: r}},
		Qualities:     &httpserver.QualityHTTP{Svc: &service.QualityService{Repo: r}},
		Reports:       &httpserver.ReportHTTP{Svc: &service.ReportService{Repo: r}},
	}
	e := httpserver.New(base, deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		base.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			base.Error("http_server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	base.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		base.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		base.Error("db_close_error", "error", err)
	}
	if prod != nil {
		if err := prod.Close(); err != nil {
			base.Error("kafka_close_error", "error", err)
		}
	}
	if redisLedger != nil {
		if err := redisLedger.Close(); err != nil {
			base.Error("redis_close_error", "error", err)
		}
	}

	base.Info("shutdown_complete")
}
