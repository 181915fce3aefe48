package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/auth"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/cache"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/config"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/events"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/handlers"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/logger"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/middleware"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/repository"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/routes"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/service"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env != "production")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt secret is required (APP_JWT_SECRET)")
	}

	ctx := context.Background()
	mongoClient, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatal("mongo connect", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.Mongo.Database)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, presence and rate limiting degrade", zap.Error(err))
		}
		defer redisClient.Close()
	}

	var publisher *events.Publisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.ChatTopic, log)
		defer publisher.Close()
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	chatRepo := repository.NewChatRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	// realtime core
	registry := ws.NewRegistry()
	hub := ws.NewHub(registry, log)
	fanout := ws.NewFanout(hub, chatRepo, log)
	relay := ws.NewRelay(hub, log)

	var presence ws.PresenceStore
	if redisClient != nil {
		presence = cache.NewPresenceStore(redisClient, "presence", 24*time.Hour)
	}
	gateway := ws.NewGateway(hub, fanout, relay, presence, log)

	// auth plumbing
	issuer := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	var google *auth.GoogleOAuth
	if cfg.Google.ClientID != "" {
		google = auth.NewGoogleOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	}
	var codes auth.CodeStore
	if redisClient != nil {
		codes = auth.NewRedisCodeStore(redisClient, "authcode")
	} else {
		codes = auth.NewMemoryCodeStore()
	}

	// services
	authSvc := service.NewAuthService(userRepo, issuer, google, codes, log)
	chatSvc := service.NewChatService(chatRepo, userRepo, fanout, publisher, log)
	locationSvc := service.NewLocationService(locationRepo, cfg.Locations.APIBaseURL, log)

	// http
	app := fiber.New(fiber.Config{
		AppName:               "portal",
		DisableStartupMessage: cfg.App.Env == "production",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.ClientURL,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	limiter := middleware.NewRateLimiter(redisClient, "ratelimit", cfg.RateLimit.PerMinute, time.Minute)
	protect := middleware.Protect(issuer, userRepo)

	secure := cfg.App.Env == "production"
	routes.Register(app, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc, cfg.App.ClientURL, secure),
		Chat:      handlers.NewChatHandler(chatSvc),
		Role:      handlers.NewRoleHandler(roleRepo),
		Project:   handlers.NewProjectHandler(projectRepo),
		Task:      handlers.NewTaskHandler(taskRepo),
		Calendar:  handlers.NewCalendarHandler(calendarRepo),
		Location:  handlers.NewLocationHandler(locationSvc),
		Gateway:   gateway,
		Protect:   protect,
		RateLimit: limiter.ByIP(),
		Perm: func(permission string) fiber.Handler {
			return middleware.HasPermission(roleRepo, permission)
		},
	})

	// metrics on a side listener so the main port stays clean
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics listener", zap.Error(err))
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		if err := app.Listen(addr); err != nil {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	_ = metricsSrv.Shutdown(shutdownCtx)
}
