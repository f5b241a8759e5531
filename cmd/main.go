package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/golfhub-2025.net/internal/adapter/crypto"
	"gitlab.com/golfhub-2025.net/internal/adapter/httpexec"
	memorystore "gitlab.com/golfhub-2025.net/internal/adapter/memory/docstore"
	pgstore "gitlab.com/golfhub-2025.net/internal/adapter/postgres/docstore"
	redisstore "gitlab.com/golfhub-2025.net/internal/adapter/redis/docstore"
	"gitlab.com/golfhub-2025.net/internal/adapter/redis/dispatchqueue"
	"gitlab.com/golfhub-2025.net/internal/config"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/core/services/accept"
	auth2 "gitlab.com/golfhub-2025.net/internal/core/services/auth"
	"gitlab.com/golfhub-2025.net/internal/core/services/board"
	"gitlab.com/golfhub-2025.net/internal/core/services/colors"
	"gitlab.com/golfhub-2025.net/internal/core/services/gate"
	"gitlab.com/golfhub-2025.net/internal/core/services/ranking"
	"gitlab.com/golfhub-2025.net/internal/core/services/submission"
	logger2 "gitlab.com/golfhub-2025.net/internal/global/logger"
	"gitlab.com/golfhub-2025.net/internal/handlers"
	http2 "gitlab.com/golfhub-2025.net/internal/http"
	"gitlab.com/golfhub-2025.net/internal/triggerengine"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting golfhub backend")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()
	ctxBg, cancel := context.WithCancel(context.Background())

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password, // no password set
		DB:       sysCfg.RedisConfig.DB,       // use default DB
	})

	// SECONDARY PORTS
	baseStore, err := setupDocStore(ctxBg, sysCfg, redisClient)
	if err != nil {
		panic(err)
	}

	engine := triggerengine.NewEngine(logger)
	store := triggerengine.NewEventingStore(baseStore, engine)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	resolver := httpexec.NewCachedResolver(sysCfg.DispatcherConfig, httpClient, logger)
	sender := httpexec.NewHTTPSender(httpClient)
	queue := dispatchqueue.NewQueue(redisClient, resolver, logger, sysCfg.DispatcherConfig)
	runner := dispatchqueue.NewRunner(redisClient, sender, resolver, logger, sysCfg.DispatcherConfig)

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	//services
	colorSvc := colors.NewColorAllocatorService(store, logger)
	rankingSvc := ranking.NewRankingService(store, logger)
	gateSvc := gate.NewSizeGateService(store, queue, logger)
	acceptSvc := accept.NewAcceptanceService(store, colorSvc, rankingSvc, logger)
	submissionSvc := submission.NewSubmissionService(store, logger)
	boardSvc := board.NewBoardService(store, logger)
	slackAuth := auth2.NewSlackAuthService(store, jwtProvider, logger, sysCfg.SlackAuthConfig)
	localAuth := auth2.NewLocalAuthService(store, jwtProvider)

	// change feed wiring
	gateSvc.Register(engine)
	acceptSvc.Register(engine)
	engine.Start(ctxBg)

	middleware := handlers.NewMiddlewareProvider(jwtProvider)
	serviceProvider := http2.NewServiceProvider(submissionSvc, boardSvc, slackAuth, localAuth, middleware)

	//server
	httServer := http2.NewServer(sysCfg.HTTPPort, "golfhub", *serviceProvider, logger)
	if err := httServer.Init(); err != nil {
		panic(err)
	}
	httServer.Start(ctxBg)
	runner.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	// The runner and engine loops exit on context cancellation; cancel
	// before waiting on them or their Stop calls never return.
	cancel()
	runner.Stop()
	engine.Stop()
	httServer.Stop()

	logger.Info("successfully shutdown server")
}

// setupDocStore selects the document store backend from config. Debug
// mode always runs on the in-memory store, no backing services needed.
func setupDocStore(ctx context.Context, sysCfg *config.AppConfig, redisClient *redis.Client) (secondary.DocumentStore, error) {
	logger := logger2.Logger
	if sysCfg.DebugMode {
		return memorystore.NewStore(), nil
	}
	switch sysCfg.DocStoreConfig.Driver {
	case config.DocStoreDriverPostgres:
		db, err := setupDatabase(sysCfg)
		if err != nil {
			return nil, err
		}
		store := pgstore.NewStore(db, logger, sysCfg.PostgresConfig.Schema)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.DocStoreDriverMemory:
		return memorystore.NewStore(), nil
	default:
		return redisstore.NewStore(redisClient, logger), nil
	}
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(sysCfg *config.AppConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", sysCfg.PostgresConfig.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
