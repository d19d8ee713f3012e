package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/signora/eventwall/internal/config"
	"github.com/signora/eventwall/internal/database"
	"github.com/signora/eventwall/internal/handler"
	"github.com/signora/eventwall/internal/middleware"
	"github.com/signora/eventwall/internal/queue"
	"github.com/signora/eventwall/internal/repository"
	"github.com/signora/eventwall/internal/router"
	"github.com/signora/eventwall/internal/service"
	"github.com/signora/eventwall/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := config.NewLogger(cfg)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.CreateSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("create schema")
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.WithField("addr", cfg.Redis.Address()).Warn("redis unreachable, rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	officers := repository.NewOfficerRepo(db)
	notifications := repository.NewNotificationRepo(db)
	events := repository.NewEventRepo(db)

	tokens := utils.NewTokenIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	publisher := service.NewQueuePublisher(cfg.RabbitURL, log)

	sessions := service.NewSessionService(users, officers, utils.NewPasswordHasher(cfg.BcryptCost), tokens, publisher, log)
	posts := service.NewPostService(repository.NewPostRepo(db), repository.NewCommentRepo(db), events, publisher, log)
	reactions := service.NewReactionService(repository.NewReactionRepo(db), log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if uid, ok := c.Get(middleware.ContextUserID).(string); ok {
				entry = entry.WithField("user_id", uid)
			}
			if v.Error != nil {
				entry.WithError(v.Error).Info("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	requireAuth := middleware.JWTAuth(tokens)
	router.RegisterRoutes(e, handler.Health{DB: db, Redis: rdb})
	router.RegisterAuth(e,
		handler.NewAuthHandler(sessions, log, cfg.IsProd()),
		middleware.CredentialGuard(sessions),
		requireAuth,
		middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
	)
	cache := middleware.NewRedisCache(cfg.Cache, rdb, log)
	router.RegisterEvents(e, handler.NewEventHandler(service.NewEventService(events, publisher, log), log),
		requireAuth, cache)
	router.RegisterPosts(e, handler.NewPostHandler(posts, reactions, log), requireAuth, cache)
	router.RegisterUsers(e, handler.NewUserHandler(service.NewUserService(users), log), requireAuth)
	router.RegisterNotifications(e,
		handler.NewNotificationHandler(service.NewNotificationService(notifications), log), requireAuth)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithField("env", cfg.Env).Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := queue.StartNotificationConsumer(gctx, cfg.RabbitURL, notifications, log)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped")
		return
	}
	log.Info("server stopped")
}
