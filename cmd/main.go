package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/config"
	"clinic-booking/internal/db"
	"clinic-booking/internal/model"
	"clinic-booking/internal/ratelimit"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/server"
	"clinic-booking/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("init db")
	}

	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal().Err(err).Msg("auto migrate")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("sql DB")
	}
	defer sqlDB.Close()

	userRepo := repository.NewGormUserRepository(gormDB)
	specialtyRepo := repository.NewGormSpecialtyRepository(gormDB)
	doctorRepo := repository.NewGormDoctorRepository(gormDB)
	patientRepo := repository.NewGormPatientRepository(gormDB)
	slotRepo := repository.NewGormSlotRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	reportRepo := repository.NewGormReportRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	hasher := auth.NewBcryptHasher()
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)

	authSvc := service.NewAuthService(userRepo, doctorRepo, patientRepo, eventRepo, hasher, tokens)
	regSvc := service.NewRegistrationService(gormDB, userRepo, doctorRepo, patientRepo, specialtyRepo, eventRepo, hasher, authSvc)
	slotSvc := service.NewSlotService(gormDB, slotRepo, doctorRepo, eventRepo)
	bookingSvc := service.NewBookingService(gormDB, bookingRepo, slotRepo, patientRepo, doctorRepo, eventRepo)
	reportSvc := service.NewReportService(reportRepo, doctorRepo, patientRepo)

	loginLimiter := ratelimit.NewAttemptLimiter(cfg.LoginMaxAttempts, time.Duration(cfg.LoginWindowSecs)*time.Second)

	srv := server.New(logger, authSvc, regSvc, slotSvc, bookingSvc, reportSvc, loginLimiter)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http serve")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
