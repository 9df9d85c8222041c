package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/sbilibin2017/gw-messenger/docs"
	"github.com/sbilibin2017/gw-messenger/internal/handlers"
	"github.com/sbilibin2017/gw-messenger/internal/hasher"
	"github.com/sbilibin2017/gw-messenger/internal/jwt"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/middlewares"
	"github.com/sbilibin2017/gw-messenger/internal/migrations"
	"github.com/sbilibin2017/gw-messenger/internal/repositories"
	"github.com/sbilibin2017/gw-messenger/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds everything read from the environment.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisHost         string
	redisPort         int
	redisDB           int
	redisPassword     string
	redisPoolSize     int
	redisMinIdleConns int
	redisExpSecond    int

	kafkaBrokers []string
	kafkaTopic   string

	jwtSecretKey       string
	jwtExpSecond       int
	bcryptCost         int
	hashMaxConcurrency int
}

// @title gw-messenger API
// @version 1.0.0
// @description Person-to-person messaging service with registration, login and read receipts
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file (if present) and
// returns the application, database, Redis, Kafka, logging and auth
// configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key string, defaultValue int, dst *int) {
		if err != nil {
			return
		}
		v, convErr := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
		if convErr != nil {
			err = fmt.Errorf("%s: %w", key, convErr)
			return
		}
		*dst = v
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "database")
	getInt("POSTGRES_PORT", 5432, &cfg.pgPort)
	getInt("POSTGRES_MAX_OPEN_CONNS", 16, &cfg.pgMaxOpenConns)
	getInt("POSTGRES_MAX_IDLE_CONNS", 8, &cfg.pgMaxIdleConns)

	// Redis config. An empty REDIS_HOST disables the profile cache.
	cfg.redisHost = "localhost"
	if v, ok := os.LookupEnv("REDIS_HOST"); ok {
		cfg.redisHost = strings.TrimSpace(v)
	}
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	getInt("REDIS_PORT", 6379, &cfg.redisPort)
	getInt("REDIS_DB", 0, &cfg.redisDB)
	getInt("REDIS_POOL_SIZE", 10, &cfg.redisPoolSize)
	getInt("REDIS_MIN_IDLE_CONNS", 2, &cfg.redisMinIdleConns)
	getInt("REDIS_EXP_SECOND", 300, &cfg.redisExpSecond)

	// Kafka config. No brokers means events are not published.
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.kafkaBrokers = append(cfg.kafkaBrokers, b)
		}
	}
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "message-events")

	// Auth config
	cfg.jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	getInt("JWT_EXP_SECOND", 86400, &cfg.jwtExpSecond)
	getInt("BCRYPT_COST", 10, &cfg.bcryptCost)
	getInt("HASH_MAX_CONCURRENCY", 0, &cfg.hashMaxConcurrency)

	return cfg, err
}

// app bundles the services served over HTTP.
type app struct {
	db       *sqlx.DB
	tokens   *jwt.JWT
	auth     *services.AuthService
	users    *services.UserService
	messages *services.MessageService
}

// newRouter builds the HTTP routes. Message writes run inside a
// request-scoped transaction.
func newRouter(a app, log *zap.SugaredLogger, swaggerURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(log))

	// Public routes
	r.Get("/health", handlers.NewHealthHandler(a.db))
	r.Post("/auth/register", handlers.NewRegisterHandler(a.auth))
	r.Post("/auth/login", handlers.NewLoginHandler(a.auth))

	// Protected routes
	acting := middlewares.GetUsernameFromContext
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(a.tokens))

		r.Get("/users", handlers.NewListUsersHandler(a.users))
		r.Get("/users/{username}", handlers.NewGetUserHandler(a.users))
		r.Get("/users/{username}/to", handlers.NewListMessagesToHandler(a.messages, acting))
		r.Get("/users/{username}/from", handlers.NewListMessagesFromHandler(a.messages, acting))
		r.Get("/messages/{id}", handlers.NewGetMessageHandler(a.messages, acting))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.TxMiddleware(a.db))
			r.Post("/messages", handlers.NewSendMessageHandler(a.messages, acting))
			r.Post("/messages/{id}/read", handlers.NewMarkReadHandler(a.messages, acting))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))
	return r
}

// run initializes the logger, database, Redis, Kafka and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	log := logger.Log
	log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	log.Infof("Connecting to PostgreSQL at %s:%d/%s", cfg.pgHost, cfg.pgPort, cfg.pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)

	if err := migrations.Up(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Connect to Redis
	var (
		profileCache  services.ProfileCache
		profileWriter services.ProfileWriter
	)
	if cfg.redisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
			Password:     cfg.redisPassword,
			DB:           cfg.redisDB,
			PoolSize:     cfg.redisPoolSize,
			MinIdleConns: cfg.redisMinIdleConns,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warnw("Redis unavailable, profile reads will fall back to PostgreSQL", "error", err)
		}
		cache := repositories.NewUserCacheRepository(rdb, time.Duration(cfg.redisExpSecond)*time.Second)
		profileCache, profileWriter = cache, cache
	}

	// Kafka writer for message events
	var kafkaWriter services.KafkaWriter
	if len(cfg.kafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:         kafka.TCP(cfg.kafkaBrokers...),
			Topic:        cfg.kafkaTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					log.Errorw("Failed to deliver message events", "count", len(msgs), "error", err)
				}
			},
		}
		defer w.Close()
		kafkaWriter = w
	}

	tokens := jwt.New(
		jwt.WithSecretKey(cfg.jwtSecretKey),
		jwt.WithExpiration(time.Duration(cfg.jwtExpSecond)*time.Second),
	)
	pwHasher := hasher.New(cfg.bcryptCost, cfg.hashMaxConcurrency)

	// Initialize repositories
	txGetter := repositories.TxGetter(middlewares.GetTxFromContext)
	userReadRepo := repositories.NewUserReadRepository(db, txGetter)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	messageReadRepo := repositories.NewMessageReadRepository(db, txGetter)
	messageWriteRepo := repositories.NewMessageWriteRepository(db, txGetter)

	// Initialize services
	a := app{
		db:       db,
		tokens:   tokens,
		auth:     services.NewAuthService(userReadRepo, userWriteRepo, pwHasher, tokens, profileWriter),
		users:    services.NewUserService(userReadRepo, userReadRepo, profileCache),
		messages: services.NewMessageService(messageWriteRepo, messageReadRepo, kafkaWriter).
			WithCommitDeferrer(middlewares.OnCommit),
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler:           newRouter(a, log, fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
