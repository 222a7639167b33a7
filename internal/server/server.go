// Package server owns process startup and shutdown: it connects the stores,
// builds the channels, services and worker pool, and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/productr/catalog-system/internal/api"
	"github.com/productr/catalog-system/internal/api/handler"
	"github.com/productr/catalog-system/internal/core/service"
	mongodb "github.com/productr/catalog-system/internal/infrastructure/db/mongo"
	redisdb "github.com/productr/catalog-system/internal/infrastructure/db/redis"
	"github.com/productr/catalog-system/internal/infrastructure/notify/email"
	"github.com/productr/catalog-system/internal/infrastructure/notify/sms"
	"github.com/productr/catalog-system/internal/infrastructure/queue"
	"github.com/productr/catalog-system/internal/pkg/config"
	"github.com/productr/catalog-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	cfg     *config.Config
	log     zerolog.Logger
	mongo   *mongo.Client
	redis   *goredis.Client
	welcome *queue.Dispatcher
	echo    *echo.Echo
}

// New connects to MongoDB and Redis, ensures indexes and wires every
// component. Nothing is served until Start.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	log := logger.Component("server")

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	emailChannel := email.NewSender(email.Config{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	})
	smsChannel := sms.NewTwilioClient(sms.Config{
		AccountSID:  cfg.Twilio.AccountSID,
		AuthToken:   cfg.Twilio.AuthToken,
		PhoneNumber: cfg.Twilio.PhoneNumber,
		BaseURL:     cfg.Twilio.BaseURL,
		Timeout:     cfg.Notify.Timeout,
	})
	if !emailChannel.Configured() {
		log.Warn().Msg("SMTP is not configured; email OTP delivery will fail")
	}
	if !smsChannel.Configured() {
		log.Warn().Bool("dev_fallback", cfg.Notify.SMSDevFallback).Msg("Twilio is not configured")
	}

	notifier := service.NewNotificationService(emailChannel, smsChannel, service.NotificationConfig{
		Timeout:        cfg.Notify.Timeout,
		CountryCode:    cfg.Notify.DefaultCountryCode,
		SMSDevFallback: cfg.Notify.SMSDevFallback,
	}, logger.Component("notify"))

	welcome := queue.NewDispatcher(cfg.Notify.WelcomeWorkers, notifier, logger.Component("welcome"))

	authService := service.NewAuthService(
		mongodb.NewAuthRepository(db),
		notifier,
		welcome,
		service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		service.AuthConfig{
			OTPTTL:   cfg.OTP.TTL,
			Attempts: redisdb.NewAttemptGuard(rdb, cfg.OTP.MaxAttempts, cfg.OTP.TTL),
		},
		logger.Component("auth"),
	)
	productService := service.NewProductService(mongodb.NewProductRepository(db), logger.Component("products"))

	e := api.NewRouter(api.RouterConfig{
		BodyLimit:       cfg.HTTP.BodyLimit,
		RateLimitMax:    cfg.HTTP.RateLimitMax,
		RateLimitWindow: cfg.HTTP.RateLimitWindow,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
	}, api.Deps{
		Auth:     authService,
		Products: productService,
		Health: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(rdb),
		},
		Log: logger.Component("http"),
	})

	return &Server{
		cfg:     cfg,
		log:     log,
		mongo:   client,
		redis:   rdb,
		welcome: welcome,
		echo:    e,
	}, nil
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully: the
// listener stops accepting, in-flight requests finish, queued welcome emails
// drain, and the store connections close.
func (s *Server) Start(ctx context.Context) error {
	s.welcome.Start(ctx)

	addr := net.JoinHostPort("", s.cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("env", s.cfg.Env).Msg("http server listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("http shutdown")
	}
	s.welcome.Stop()
	if err := s.redis.Close(); err != nil {
		s.log.Error().Err(err).Msg("redis close")
	}
	if err := s.mongo.Disconnect(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("mongo disconnect")
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}
