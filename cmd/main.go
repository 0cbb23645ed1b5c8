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
	"syscall"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/adapter/polling"
	"github.com/YelzhanWeb/orderhub/internal/adapter/postgres"
	"github.com/YelzhanWeb/orderhub/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/orderhub/internal/adapter/websocket"
	"github.com/YelzhanWeb/orderhub/internal/app/hub"
	"github.com/YelzhanWeb/orderhub/internal/app/menu"
	"github.com/YelzhanWeb/orderhub/internal/app/order"
	"github.com/YelzhanWeb/orderhub/internal/config"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/orderhub/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/orderhub/internal/adapter/http"
)

const (
	modeServer          = "server"
	modeOrderService    = "order-service"
	modeRealtimeGateway = "realtime-gateway"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", modeServer, "Service mode: server, order-service, realtime-gateway")
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	port := flag.Int("port", 0, "HTTP port (overrides server.port)")
	flag.Parse()

	switch *mode {
	case modeServer, modeOrderService, modeRealtimeGateway:
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
	}

	lgr := logger.New(*mode, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch *mode {
	case modeServer:
		runErr = runServer(ctx, cfg, lgr)
	case modeOrderService:
		runErr = runOrderService(ctx, cfg, lgr)
	case modeRealtimeGateway:
		runErr = runRealtimeGateway(ctx, cfg, lgr)
	}

	if runErr != nil {
		lgr.Error("service_failed", "Service stopped with error", "shutdown", nil, runErr)
		os.Exit(1)
	}
}

// runServer serves the order API and the hub in one process. The order
// service notifies the hub directly through the bridge.
func runServer(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	db, err := connectDB(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db)
	rt := newRealtime(cfg, orderRepo, lgr)

	orderService := order.NewService(orderRepo, rt.bridge, lgr)
	menuService := menu.NewService(postgres.NewMenuRepository(db), lgr)

	go rt.polling.Run(ctx)

	routes := rt.routes(cfg)
	routes.Orders = httpAdapter.NewOrderHandler(orderService, lgr)
	routes.Menu = httpAdapter.NewMenuHandler(menuService, lgr)
	routes.Health = httpAdapter.NewHealthHandler(modeServer, rt.hub)

	return serve(ctx, cfg, httpAdapter.NewRouter(routes, lgr), lgr, rt.hub.DisconnectAll)
}

// runOrderService serves only the order API and mirrors lifecycle events to
// the broker for a separate gateway
func runOrderService(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	db, err := connectDB(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer db.Close()

	mqConn, err := connectMQ(cfg, lgr)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	notifier := rabbitmq.NewNotifier(rabbitmq.NewPublisher(mqConn, cfg.RabbitMQ.Exchange), lgr)

	orderService := order.NewService(postgres.NewOrderRepository(db), notifier, lgr)
	menuService := menu.NewService(postgres.NewMenuRepository(db), lgr)

	router := httpAdapter.NewRouter(httpAdapter.Routes{
		Orders: httpAdapter.NewOrderHandler(orderService, lgr),
		Menu:   httpAdapter.NewMenuHandler(menuService, lgr),
		Health: httpAdapter.NewHealthHandler(modeOrderService, nil),
	}, lgr)

	return serve(ctx, cfg, router, lgr, nil)
}

// runRealtimeGateway serves only the hub. Lifecycle events consumed from the
// broker are applied through the bridge.
func runRealtimeGateway(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	var orders interfaces.OrderLookup
	if cfg.Realtime.VerifyRelay {
		db, err := connectDB(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer db.Close()
		orders = postgres.NewOrderRepository(db)
	}

	mqConn, err := connectMQ(cfg, lgr)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	rt := newRealtime(cfg, orders, lgr)

	go rt.polling.Run(ctx)

	consumer := rabbitmq.NewConsumer(mqConn, cfg.RabbitMQ.Exchange, lgr)
	lifecycle := amqpAdapter.NewLifecycleHandler(rt.bridge, lgr)
	go func() {
		if err := consumer.ConsumeLifecycle(ctx, lifecycle.Handle); err != nil && !errors.Is(err, context.Canceled) {
			lgr.Error("consumer_error", "Error consuming lifecycle events", "runtime", nil, err)
		}
	}()

	routes := rt.routes(cfg)
	routes.Health = httpAdapter.NewHealthHandler(modeRealtimeGateway, rt.hub)

	return serve(ctx, cfg, httpAdapter.NewRouter(routes, lgr), lgr, rt.hub.DisconnectAll)
}

type realtime struct {
	hub     *hub.Hub
	bridge  *hub.Bridge
	polling *polling.Manager
	ws      *websocket.Handler
	logger  logger.Logger
}

// newRealtime builds the hub with both transports and attaches a bridge to
// it. orders is only consulted when relay verification is enabled.
func newRealtime(cfg *config.Config, orders interfaces.OrderLookup, lgr logger.Logger) *realtime {
	opts := hub.Options{
		QueueSize: cfg.Realtime.QueueSize,
		Logger:    lgr,
	}
	if cfg.Realtime.VerifyRelay && orders != nil {
		opts.Verifier = hub.NewOrderVerifier(orders)
	}

	h := hub.New(opts)
	bridge := hub.NewBridge(lgr)
	bridge.Attach(h)

	return &realtime{
		hub:     h,
		bridge:  bridge,
		polling: polling.NewManager(h, cfg.Realtime.PollTimeout, cfg.Realtime.SessionTimeout, lgr),
		ws:      websocket.NewHandler(h, cfg.Realtime, lgr),
		logger:  lgr,
	}
}

func (rt *realtime) routes(cfg *config.Config) httpAdapter.Routes {
	return httpAdapter.Routes{
		RealtimePath: cfg.Realtime.Path,
		Websocket:    rt.ws,
		Polling:      polling.NewHandler(rt.polling, rt.logger),
	}
}

func connectDB(ctx context.Context, cfg *config.Config, lgr logger.Logger) (postgres.DB, error) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})
	return db, nil
}

func connectMQ(cfg *config.Config, lgr logger.Logger) (rabbitmq.Connection, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host":     cfg.RabbitMQ.Host,
		"exchange": cfg.RabbitMQ.Exchange,
	})
	return conn, nil
}

// serve runs the HTTP server until ctx is cancelled. beforeShutdown closes
// hijacked connections that http.Server.Shutdown does not track.
func serve(ctx context.Context, cfg *config.Config, handler http.Handler, lgr logger.Logger, beforeShutdown func()) error {
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     handler,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	lgr.Info("service_started", fmt.Sprintf("Listening on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":          cfg.Server.Port,
		"realtime_path": cfg.Realtime.Path,
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	lgr.Info("shutdown_initiated", "Shutting down", "shutdown", nil)

	if beforeShutdown != nil {
		beforeShutdown()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	lgr.Info("shutdown_complete", "Server stopped", "shutdown", nil)
	return nil
}
