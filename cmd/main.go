package main

import (
	"context"
	"expvar"
	"log"
	"math/rand"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trustnote/roomsync/internal/game"
	"github.com/trustnote/roomsync/internal/infrastructure/configs"
	"github.com/trustnote/roomsync/internal/infrastructure/events"
	"github.com/trustnote/roomsync/internal/infrastructure/logging"
	"github.com/trustnote/roomsync/internal/infrastructure/messaging"
	"github.com/trustnote/roomsync/internal/infrastructure/metrics"
	"github.com/trustnote/roomsync/internal/infrastructure/ratelimiter"
	"github.com/trustnote/roomsync/internal/infrastructure/tracing"
	"github.com/trustnote/roomsync/internal/infrastructure/ws"
	"github.com/trustnote/roomsync/internal/persistence/db"
	"github.com/trustnote/roomsync/internal/persistence/repository"
	"github.com/trustnote/roomsync/internal/presentation/api"
	"github.com/trustnote/roomsync/internal/presentation/handler/friends"
	"github.com/trustnote/roomsync/internal/presentation/handler/health"
	"github.com/trustnote/roomsync/internal/presentation/handler/invites"
	"github.com/trustnote/roomsync/internal/presentation/handler/rooms"
)

const (
	serviceName = "roomsync-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	mongoCfg := &db.MongoConfig{
		URI:               cfg.Mongo.URI,
		Database:          cfg.Mongo.Database,
		ConnectionTimeout: cfg.Mongo.ConnectionTimeout,
	}

	mongoClient, err := db.NewMongoClient(ctx, mongoCfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.DisconnectMongo(context.Background(), mongoClient); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	database := db.GetDatabase(mongoClient, mongoCfg)

	roomRepository := repository.NewRoomRepository(database)
	inviteRepository := repository.NewInviteRepository(database)
	voteRepository := repository.NewVoteRepository(database)
	userRepository := repository.NewUserRepository(database)
	friendshipRepository := repository.NewFriendshipRepository(database)
	questionRepository := repository.NewQuestionRepository(database)
	auditRepository := repository.NewRoomAuditLogRepository(database)
	txnRunner := repository.NewTxnRunner(mongoClient)

	indexCtx, indexCancel := context.WithTimeout(ctx, 30*time.Second)
	defer indexCancel()
	for _, ensure := range []func(context.Context) error{
		roomRepository.EnsureIndexes,
		inviteRepository.EnsureIndexes,
		voteRepository.EnsureIndexes,
		questionRepository.EnsureIndexes,
		auditRepository.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Fatalf("Failed to ensure indexes: %v", err)
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	roomManager := ws.NewRoomManager()
	wsCore := ws.NewCore(roomManager, roomRepository)
	wsCore.SetSubscriberGauge(m.ActiveSubscribers)
	go wsCore.Run()

	rabbitmq, err := messaging.NewRabbitMQ(cfg.AMQP.URI)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitmq.Close()

	log.Println("Starting RabbitMQ connection")

	roomPublisher := events.NewRoomPublisher(rabbitmq)

	auditConsumer := events.NewAuditConsumer(rabbitmq, auditRepository)
	go func() {
		if err := auditConsumer.Listen(); err != nil {
			log.Printf("Audit consumer stopped: %v", err)
		}
	}()

	controller := game.NewController(game.ControllerParams{
		Rooms:       roomRepository,
		Invites:     inviteRepository,
		Votes:       voteRepository,
		Users:       userRepository,
		Friendships: friendshipRepository,
		Questions:   questionRepository,
		Audit:       auditRepository,
		Txn:         txnRunner,
		Notifier:    wsCore,
		Publisher:   roomPublisher,
		Clock:       clockwork.NewRealClock(),
		Logger:      logger,
		Metrics:     m,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	})

	roomsHandler := rooms.NewHandler(controller, roomManager, wsCore)
	invitesHandler := invites.NewHandler(controller)
	friendsHandler := friends.NewHandler(controller)
	healthHandler := health.NewHandler()

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})

	app := api.NewApplication(*cfg, *roomsHandler, *invitesHandler, *friendsHandler, *healthHandler, logger, m, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
