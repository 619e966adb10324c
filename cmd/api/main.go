package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"academy-manager/backend/internal/config"
	"academy-manager/backend/internal/domain/analytics"
	"academy-manager/backend/internal/domain/attendance"
	"academy-manager/backend/internal/domain/booking"
	"academy-manager/backend/internal/domain/member"
	"academy-manager/backend/internal/domain/session"
	"academy-manager/backend/internal/domain/template"
	"academy-manager/backend/internal/firebase"
	apihttp "academy-manager/backend/internal/http"
	"academy-manager/backend/internal/logger"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	zlog, err := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, logger.ServiceName)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		zlog.Fatal("firebase app init failed", zap.Error(err))
	}

	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		zlog.Fatal("firebase auth client init failed", zap.Error(err))
	}

	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		zlog.Fatal("firestore init failed", zap.Error(err))
	}
	defer fs.Close()

	// Repositories
	templateRepo := template.NewRepo(fs.Client)
	sessionRepo := session.NewRepo(fs.Client)
	bookingRepo := booking.NewRepo(fs.Client)
	attendanceRepo := attendance.NewRepo(fs.Client)
	memberRepo := member.NewRepo(fs.Client)

	// Services
	sessionSvc := session.NewService(sessionRepo, templateRepo, bookingRepo)
	sessionSvc.SetMaxWindowDays(cfg.MaxGenerateDays)
	bookingSvc := booking.NewService(bookingRepo)
	analyticsSvc := analytics.NewService(attendanceRepo, memberRepo)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:            cfg,
		Log:            zlog,
		AuthClient:     authClient,
		SessionSvc:     sessionSvc,
		BookingSvc:     bookingSvc,
		AnalyticsSvc:   analyticsSvc,
		TemplateRepo:   templateRepo,
		AttendanceRepo: attendanceRepo,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		zlog.Info("API listening",
			zap.String("port", cfg.Port),
			zap.String("project", cfg.ProjectID),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	zlog.Info("shutting down")
	_ = srv.Shutdown(ctxShutdown)
}
