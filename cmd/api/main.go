package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clinicore/portal-api/internal/config"
	"github.com/clinicore/portal-api/internal/email"
	"github.com/clinicore/portal-api/internal/handler"
	appointmentHandler "github.com/clinicore/portal-api/internal/handler/appointment"
	authHandler "github.com/clinicore/portal-api/internal/handler/auth"
	dashboardHandler "github.com/clinicore/portal-api/internal/handler/dashboard"
	doctorHandler "github.com/clinicore/portal-api/internal/handler/doctor"
	patientHandler "github.com/clinicore/portal-api/internal/handler/patient"
	"github.com/clinicore/portal-api/internal/middleware"
	"github.com/clinicore/portal-api/internal/repository/postgres"
	"github.com/clinicore/portal-api/internal/router"
	appointmentService "github.com/clinicore/portal-api/internal/service/appointment"
	authService "github.com/clinicore/portal-api/internal/service/auth"
	doctorService "github.com/clinicore/portal-api/internal/service/doctor"
	identityService "github.com/clinicore/portal-api/internal/service/identity"
	patientService "github.com/clinicore/portal-api/internal/service/patient"
	"github.com/clinicore/portal-api/pkg/auth"
	"github.com/clinicore/portal-api/pkg/logger"
	"github.com/clinicore/portal-api/pkg/messaging/redis"
	"github.com/clinicore/portal-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	authUserRepo := postgres.NewAuthUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	// Message broker
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	appMetrics := metrics.NewMetrics("portal", "api")

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})

	emailSvc := email.Noop()
	if cfg.SMTP.Enabled {
		emailSvc = email.NewSMTPService(cfg.SMTP)
	}

	readCache := gocache.New(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupSeconds)*time.Second,
	)

	// Services
	identitySvc := identityService.NewService(profileRepo, roleRepo, broker, appLogger, appMetrics)
	authSvc := authService.NewService(authUserRepo, profileRepo, roleRepo, jwtSvc, broker, emailSvc, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, profileRepo, appMetrics)
	patientSvc := patientService.NewService(patientRepo, profileRepo, appMetrics)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, doctorRepo, patientRepo, profileRepo,
		readCache, emailSvc, appLogger, appMetrics,
	)

	// Settle the shared identity slot and follow session events
	if err := identitySvc.Watch(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to session events")
	}

	authMiddleware := middleware.NewAuthMiddleware(authSvc, identitySvc)

	// Handlers
	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	doctorH := doctorHandler.NewHandler(doctorSvc, authMiddleware)
	patientH := patientHandler.NewHandler(patientSvc, authMiddleware)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, authMiddleware)
	dashboardH := dashboardHandler.NewHandler(appointmentSvc, authMiddleware)

	r := router.NewRouter(
		authMiddleware,
		authH,
		doctorH,
		patientH,
		appointmentH,
		dashboardH,
		h,
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RPS),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "portal_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
