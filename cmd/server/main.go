package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"samajsetu/internal/admin"
	"samajsetu/internal/audit"
	"samajsetu/internal/auth"
	"samajsetu/internal/conversation"
	"samajsetu/internal/conversation/session"
	"samajsetu/internal/member"
	"samajsetu/internal/platform/config"
	"samajsetu/internal/platform/httpserver"
	"samajsetu/internal/platform/logger"
	"samajsetu/internal/platform/metrics"
	redisplatform "samajsetu/internal/platform/redis"
	httptransport "samajsetu/internal/transport/http"
	"samajsetu/internal/transport/whatsapp"
)

// main wires dependencies and runs the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Persistence: Postgres when configured, in-process otherwise.
	var memberStore member.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := member.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		memberStore = member.NewPostgres(db)
		log.Info("using postgres member store")
	} else {
		memberStore = member.NewInMemory()
		log.Info("using in-memory member store")
	}

	// Sessions: Redis when configured, in-process otherwise.
	var sessionStore session.Store
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = session.NewRedisStore(redisClient.Client, cfg.Redis.SessionTTL)
		log.Info("using redis session store", "ttl", cfg.Redis.SessionTTL)
	} else {
		sessionStore = session.NewInMemoryStore()
		log.Info("using in-memory session store")
	}

	trail := audit.NewTrail(audit.NewInMemoryStore(1024), log, 256)

	memberService := member.NewService(memberStore,
		member.WithLogger(log),
		member.WithMetrics(m),
		member.WithAuditTrail(trail),
	)

	engine := conversation.NewEngine(sessionStore, memberService,
		conversation.WithLogger(log),
		conversation.WithMetrics(m),
	)

	var sender whatsapp.Sender
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		sender = whatsapp.NewTwilioSender(cfg.Twilio, whatsapp.WithLogger(log))
		log.Info("using twilio sender", "from", cfg.Twilio.PhoneNumber)
	} else {
		sender = whatsapp.NewLogSender(log)
		log.Warn("twilio credentials missing, outbound messages are logged only")
	}

	jwtService := auth.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
	authService, err := auth.NewService(cfg.Admin, jwtService, auth.WithLogger(log))
	if err != nil {
		log.Error("failed to initialize auth service", "error", err)
		os.Exit(1)
	}

	adminService := admin.NewService(memberStore, admin.WithLogger(log))

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:       log,
		Metrics:      m,
		Engine:       engine,
		Sender:       sender,
		SystemNumber: cfg.Twilio.PhoneNumber,
		Auth:         authService,
		Validator:    auth.NewJWTServiceAdapter(jwtService),
		Admin:        adminService,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := trail.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
