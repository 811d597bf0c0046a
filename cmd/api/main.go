package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderapi/internal/config"
	"orderapi/internal/domain/model"
	"orderapi/internal/handler"
	"orderapi/internal/infra/cache"
	"orderapi/internal/infra/db"
	"orderapi/internal/infra/messaging"
	infraRepo "orderapi/internal/infra/repository"
	"orderapi/internal/infra/token"
	"orderapi/internal/logger"
	"orderapi/internal/repository"
	"orderapi/internal/server"
	"orderapi/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	// .envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New("order-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//users（Postgres）
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatal().Err(err).Msg("users migrate failed")
	}

	//orders（MongoDB）
	mongoClient, err := db.ConnectMongo(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	mongoOrders := infraRepo.NewOrderMongoRepository(mongoClient.Database(cfg.MongoDB), cfg.MongoTimeout)
	if err := mongoOrders.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("orders index failed")
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)

	var orderRepo repository.OrderRepository = mongoOrders
	if cfg.RedisAddr != "" {
		rds := cache.New(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, order cache disabled")
		} else {
			defer func() { _ = rds.Close() }()
			orderRepo = &infraRepo.OrdersCached{
				Inner: mongoOrders,
				Cache: rds,
				TTL:   cfg.OrderCacheTTL,
				Log:   log,
			}
		}
	}

	var publisher usecase.OrderEventPublisher = usecase.NopPublisher{}
	if cfg.RabbitURL != "" {
		conn, err := messaging.Connect(cfg.RabbitURL)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbit connect failed")
		}
		defer func() { _ = conn.Close() }()
		publisher = messaging.NewPublisher(conn.Ch, messaging.ExchangeOrderEvents)
	}

	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(orderRepo, userRepo, publisher, idGen, clock, log)
	authUC := usecase.NewAuthUsecase(
		userRepo,
		usecase.NewBcryptPasswordHasher(12),
		usecase.NewBcryptPasswordVerifier(),
		token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL),
		clock,
	)

	e := server.New(server.Deps{
		Config: cfg,
		Log:    log,
		Users:  userRepo,
		OrderH: handler.NewOrderHandler(orderUC),
		AuthH:  handler.NewAuthHandler(authUC),
	})

	if err := server.Start(ctx, e, cfg.Addr(), log); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
