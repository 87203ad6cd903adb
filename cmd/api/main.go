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

	"github.com/joho/godotenv"

	"github.com/vivaahaverse/vivaah/internal/auth"
	"github.com/vivaahaverse/vivaah/internal/booking"
	bookingStore "github.com/vivaahaverse/vivaah/internal/booking/store"
	"github.com/vivaahaverse/vivaah/internal/budget"
	"github.com/vivaahaverse/vivaah/internal/catalog"
	catalogStore "github.com/vivaahaverse/vivaah/internal/catalog/store"
	"github.com/vivaahaverse/vivaah/internal/config"
	"github.com/vivaahaverse/vivaah/internal/database"
	"github.com/vivaahaverse/vivaah/internal/expense"
	expenseStore "github.com/vivaahaverse/vivaah/internal/expense/store"
	vivaahHttp "github.com/vivaahaverse/vivaah/internal/http"
	bookingHandler "github.com/vivaahaverse/vivaah/internal/http/booking"
	catalogHandler "github.com/vivaahaverse/vivaah/internal/http/catalog"
	expenseHandler "github.com/vivaahaverse/vivaah/internal/http/expense"
	healthHandler "github.com/vivaahaverse/vivaah/internal/http/health"
	userHandler "github.com/vivaahaverse/vivaah/internal/http/user"
	"github.com/vivaahaverse/vivaah/internal/importer"
	"github.com/vivaahaverse/vivaah/internal/notify"
	"github.com/vivaahaverse/vivaah/internal/obs"
	"github.com/vivaahaverse/vivaah/internal/user"
	userStore "github.com/vivaahaverse/vivaah/internal/user/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		slog.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	notifier, closeNotifier := newNotifier(cfg)
	defer closeNotifier()

	var (
		catalogService = catalog.NewService(catalogStore.New(db))
		bookingService = booking.NewService(bookingStore.New(db), notifier)
		expenseService = expense.NewService(expenseStore.New(db))
		userService    = user.NewService(userStore.New(db), auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
		budgetService  = budget.NewService(userService, expenseService, bookingService)
		importService  = importer.NewService()
	)

	var (
		bookingH = bookingHandler.NewHandler(bookingService, catalogService)
		catalogH = catalogHandler.NewHandler(catalogService)
		expenseH = expenseHandler.NewHandler(expenseService, importService)
		userH    = userHandler.NewHandler(userService, budgetService)
		healthH  = healthHandler.NewHandler(db)
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      vivaahHttp.New(bookingH, catalogH, expenseH, userH, healthH),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("tracer shutdown failed", "error", err)
	}
}

// newNotifier publishes to RabbitMQ when a broker is configured and falls
// back to logging events otherwise.
func newNotifier(cfg *config.Config) (booking.Notifier, func()) {
	if cfg.Broker.URL == "" {
		slog.Info("no broker configured, booking events will be logged")
		return notify.NewLogNotifier(), func() {}
	}

	p, err := notify.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
	if err != nil {
		slog.Warn("broker unavailable, booking events will be logged", "error", err)
		return notify.NewLogNotifier(), func() {}
	}

	return p, func() {
		if err := p.Close(); err != nil {
			slog.Warn("closing publisher", "error", err)
		}
	}
}
