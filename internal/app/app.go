package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/internal/config"
	grpcdelivery "shop-service/internal/delivery/grpc"
	httpdelivery "shop-service/internal/delivery/http"
	"shop-service/internal/domain/repositories"
	"shop-service/internal/infrastructure/cache"
	"shop-service/internal/infrastructure/kafka"
	"shop-service/internal/infrastructure/logger"
	"shop-service/internal/infrastructure/memory"
	"shop-service/internal/infrastructure/mongodb"
	"shop-service/internal/infrastructure/nats"
	"shop-service/internal/infrastructure/rabbitmq"
	"shop-service/internal/security"
	"shop-service/internal/usecase"
)

type App struct {
	cfg    *config.Config
	logger *logger.Logger
}

func New(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		logger: logger.NewLogger(cfg.App.LogLevel, cfg.App.LogFile).With("service", cfg.App.Name),
	}
}

type stores struct {
	orders    repositories.OrderRepository
	products  repositories.ProductRepository
	carts     repositories.CartRepository
	wishlists repositories.WishlistRepository
	tx        repositories.Transactor
	close     func()
}

func (a *App) Run() error {
	a.logger.Info("Starting shop-service", "storage", a.cfg.Storage, "broker", a.cfg.Events.Broker)

	st, err := a.initStores()
	if err != nil {
		return err
	}
	defer st.close()

	idem, closeIdem := a.initIdempotencyStore()
	defer closeIdem()

	publisher := a.initPublisher()
	defer publisher.Close()

	orderUseCase := usecase.NewOrderUseCase(st.orders, st.carts, st.products, st.tx, idem, publisher, a.logger)
	cartUseCase := usecase.NewCartUseCase(st.carts, st.products, a.logger)
	wishlistUseCase := usecase.NewWishlistUseCase(st.wishlists, st.products)
	productUseCase := usecase.NewProductUseCase(st.products, a.logger)

	verifier := security.NewTokenVerifier(a.cfg.Auth.JWTSecret, a.cfg.Auth.Issuer, a.cfg.Auth.Audience)
	timeout := a.cfg.HTTP.RequestTimeout
	router := httpdelivery.NewRouter(httpdelivery.Handlers{
		Orders:   httpdelivery.NewOrderHandler(orderUseCase, timeout),
		Cart:     httpdelivery.NewCartHandler(cartUseCase, timeout),
		Wishlist: httpdelivery.NewWishlistHandler(wishlistUseCase, timeout),
		Products: httpdelivery.NewProductHandler(productUseCase, timeout),
	}, verifier, a.logger)

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	grpcServer := grpcdelivery.NewServer(a.cfg.App.Name, a.logger)
	grpcServer.RegisterOrderService(grpcdelivery.NewOrderHandler(orderUseCase, verifier, timeout))
	lis, err := grpcServer.Listen(a.cfg.GRPC.Port)
	if err != nil {
		return err
	}

	return a.runServersWithGracefulShutdown(httpServer, grpcServer, lis)
}

func (a *App) initStores() (*stores, error) {
	if a.cfg.Storage == config.StorageMemory {
		a.logger.Warn("Using in-memory storage, data is lost on restart")
		return &stores{
			orders:    memory.NewOrderRepositoryMemory(),
			products:  memory.NewProductRepositoryMemory(),
			carts:     memory.NewCartRepositoryMemory(),
			wishlists: memory.NewWishlistRepositoryMemory(),
			tx:        memory.NewTransactor(),
			close:     func() {},
		}, nil
	}

	a.logger.Info("Connecting to MongoDB", "db", a.cfg.Mongo.DB)

	store, err := mongodb.NewStore(a.cfg.Mongo.URI, a.cfg.Mongo.DB, a.logger)
	if err != nil {
		a.logger.Error("Failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.logger.Info("Connected to MongoDB successfully")

	var tx repositories.Transactor = store.Transactor()
	if !a.cfg.Mongo.Transactions {
		a.logger.Warn("MongoDB transactions disabled, order creation and cart clearing are not atomic")
		tx = mongodb.SequentialTransactor{}
	}

	return &stores{
		orders:    store.Orders(),
		products:  store.Products(),
		carts:     store.Carts(),
		wishlists: store.Wishlists(),
		tx:        tx,
		close: func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("Failed to disconnect from MongoDB", "error", err)
			}
		},
	}, nil
}

func (a *App) initIdempotencyStore() (usecase.IdempotencyStore, func()) {
	fallback := memory.NewIdempotencyStore(a.cfg.Idempotency.TTL)
	if a.cfg.Redis.Addr == "" {
		a.logger.Info("Redis address not set, idempotency keys kept in memory")
		return fallback, func() {}
	}

	rdb, err := cache.NewRedisClient(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		a.logger.Warn("Failed to connect to Redis, idempotency keys kept in memory",
			"error", err,
			"addr", a.cfg.Redis.Addr)
		return fallback, func() {}
	}

	a.logger.Info("Connected to Redis successfully", "addr", a.cfg.Redis.Addr)
	return cache.NewRedisIdempotencyStore(rdb, a.cfg.Idempotency.TTL), func() { _ = rdb.Close() }
}

func (a *App) initPublisher() usecase.EventPublisher {
	switch a.cfg.Events.Broker {
	case config.BrokerNATS:
		publisher, err := connectToNATSWithRetry(a.cfg.NATS.URL, a.logger, 3, 2*time.Second)
		if err != nil {
			a.logger.Warn("Failed to connect to NATS, continuing without event publishing",
				"error", err,
				"url", a.cfg.NATS.URL)
			return &noopPublisher{}
		}
		a.logger.Info("Connected to NATS successfully")
		return publisher

	case config.BrokerKafka:
		a.logger.Info("Publishing events to Kafka", "brokers", a.cfg.Kafka.BrokerList())
		return kafka.NewPublisher(a.cfg.Kafka.BrokerList(), a.logger)

	case config.BrokerRabbitMQ:
		publisher, err := rabbitmq.NewPublisher(a.cfg.RabbitMQ.URL, a.cfg.RabbitMQ.Exchange, a.logger)
		if err != nil {
			a.logger.Warn("Failed to connect to RabbitMQ, continuing without event publishing", "error", err)
			return &noopPublisher{}
		}
		return publisher

	default:
		a.logger.Info("Events broker not set, event publishing disabled")
		return &noopPublisher{}
	}
}

func (a *App) runServersWithGracefulShutdown(httpServer *http.Server, grpcServer *grpcdelivery.Server, lis net.Listener) error {
	serverErrors := make(chan error, 2)

	go func() {
		a.logger.Info("Starting HTTP server", "port", a.cfg.HTTP.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("http: %w", err)
		}
	}()

	go func() {
		a.logger.Info("Starting gRPC server", "port", a.cfg.GRPC.Port)
		if err := grpcServer.Serve(lis); err != nil {
			serverErrors <- fmt.Errorf("grpc: %w", err)
		}
	}()

	grpcServer.SetServing()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		a.logger.Info("Received shutdown signal, starting graceful shutdown", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		grpcServer.Shutdown(ctx)
		if err := httpServer.Shutdown(ctx); err != nil {
			a.logger.Warn("Graceful HTTP shutdown timeout, forcing close", "error", err)
			_ = httpServer.Close()
		}

		a.logger.Info("Graceful shutdown completed")
		return nil
	}
}

func connectToNATSWithRetry(url string, logger *logger.Logger, maxRetries int, delay time.Duration) (usecase.EventPublisher, error) {
	for i := 0; i < maxRetries; i++ {
		publisher, err := nats.NewPublisher(url, logger)
		if err == nil {
			return publisher, nil
		}

		logger.Warn("Failed to connect to NATS, retrying...",
			"attempt", i+1,
			"max_retries", maxRetries,
			"error", err)

		if i < maxRetries-1 {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to NATS after %d attempts", maxRetries)
}

type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, event usecase.OrderEvent) error {
	return nil
}

func (n *noopPublisher) Close() {
}
