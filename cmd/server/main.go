package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/optivue/scheduling/internal/config"
	"github.com/optivue/scheduling/internal/domain/appointment"
	"github.com/optivue/scheduling/internal/domain/audit"
	v1 "github.com/optivue/scheduling/internal/handler/v1"
	"github.com/optivue/scheduling/internal/schedule"
	"github.com/optivue/scheduling/internal/service"
	"github.com/optivue/scheduling/internal/store/memory"
	"github.com/optivue/scheduling/internal/store/postgres"
	"github.com/optivue/scheduling/pkg/auth"
	"github.com/optivue/scheduling/pkg/logger"
	"github.com/optivue/scheduling/pkg/metrics"
	"github.com/optivue/scheduling/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("starting scheduling engine",
		zap.String("env", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("tracer init error", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("tracer shutdown error", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("scheduling")

	var (
		repo      appointment.Repository
		auditRepo audit.Repository
	)
	if cfg.Database.Enabled() {
		db, err := postgres.Connect(cfg.Database)
		if err != nil {
			zlog.Fatal("database connection error", zap.Error(err))
		}
		if err := postgres.Migrate(db, zlog); err != nil {
			zlog.Fatal("database migration error", zap.Error(err))
		}
		repo = postgres.NewStore(db)
		auditRepo = postgres.NewAuditStore(db)
		zlog.Info("using postgres appointment store")
	} else {
		repo = memory.NewStore()
		auditRepo = memory.NewAuditStore()
		zlog.Warn("using in-memory appointment store; data will not survive restarts")
	}

	auditSvc := service.NewAuditService(auditRepo, zlog, collector)
	defer auditSvc.Shutdown()

	hours := schedule.WorkingHours{
		Start:        cfg.Clinic.OpenTime,
		End:          cfg.Clinic.CloseTime,
		SlotDuration: cfg.Clinic.SlotDurationMins,
	}
	if err := hours.Validate(); err != nil {
		zlog.Fatal("invalid working hours configuration", zap.Error(err))
	}

	booking := service.NewBookingService(repo, hours, auditSvc, zlog, collector)
	query := service.NewQueryService(repo)

	router := v1.NewRouter(v1.RouterConfig{
		Booking:    booking,
		Query:      query,
		JWTManager: auth.NewJWTManager(cfg.JWT),
		Log:        zlog,
		Metrics:    collector,
		Env:        cfg.App.Environment,
		Version:    cfg.App.Version,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown error", zap.Error(err))
	}
}
