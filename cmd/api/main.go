package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/raditya/storefront-api/internal/config"
	"github.com/raditya/storefront-api/internal/handler"
	"github.com/raditya/storefront-api/internal/middleware"
	"github.com/raditya/storefront-api/internal/repository"
	"github.com/raditya/storefront-api/internal/service"
	"github.com/raditya/storefront-api/internal/storage"
	"github.com/raditya/storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to postgres", "host", cfg.DB.Host, "db", cfg.DB.Name)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	} else {
		log.Info("connected to redis", "addr", cfg.Redis.Addr)
	}

	var amqpConn *amqp.Connection
	var amqpCh *amqp.Channel
	amqpConn, err = amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Warn("rabbitmq unavailable, order events disabled", "error", err)
	} else {
		defer amqpConn.Close()
		amqpCh, err = amqpConn.Channel()
		if err != nil {
			return fmt.Errorf("open rabbitmq channel: %w", err)
		}
		defer amqpCh.Close()
		if err := worker.SetupRabbitMQ(amqpCh); err != nil {
			return fmt.Errorf("setup rabbitmq topology: %w", err)
		}
		log.Info("connected to rabbitmq")
	}

	images, err := storage.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	addressRepo := repository.NewAddressRepository(pool)
	messageRepo := repository.NewGuestMessageRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, images, redisClient)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, addressRepo, amqpCh)
	addressService := service.NewAddressService(addressRepo)
	messageService := service.NewGuestMessageService(messageRepo)
	statsService := service.NewStatsService(statsRepo, redisClient)

	if amqpCh != nil && redisClient != nil {
		eventWorker := worker.NewOrderEventWorker(amqpCh, redisClient, log)
		if err := eventWorker.Start(ctx); err != nil {
			return fmt.Errorf("start order events worker: %w", err)
		}
		defer eventWorker.Stop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)

	registerRoutes(router, cfg,
		handler.NewAuthHandler(authService),
		handler.NewCategoryHandler(catalogService),
		handler.NewProductHandler(catalogService, images),
		handler.NewCartHandler(cartService),
		handler.NewOrderHandler(orderService),
		handler.NewAddressHandler(addressService),
		handler.NewGuestMessageHandler(messageService),
		handler.NewStatsHandler(statsService),
		handler.NewHealthHandler(pool, redisClient, amqpConn),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	auth *handler.AuthHandler,
	categories *handler.CategoryHandler,
	products *handler.ProductHandler,
	carts *handler.CartHandler,
	orders *handler.OrderHandler,
	addresses *handler.AddressHandler,
	messages *handler.GuestMessageHandler,
	stats *handler.StatsHandler,
	health *handler.HealthHandler,
) {
	router.GET("/healthz", health.Healthz)
	router.GET("/readyz", health.Readyz)

	v1 := router.Group("/api/v1")

	// Public surface.
	v1.POST("/auth/register", auth.Register)
	v1.POST("/auth/login", auth.Login)
	v1.GET("/products", products.List)
	v1.GET("/products/:id", products.Get)
	v1.GET("/categories", categories.List)
	v1.GET("/categories/:id", categories.Get)
	v1.POST("/guest-messages", messages.Create)

	authed := v1.Group("", middleware.AuthMiddleware(cfg.JWT.Secret))
	authed.GET("/auth/me", auth.Me)

	authed.POST("/carts", carts.Add)
	authed.GET("/carts", carts.List)
	authed.GET("/carts/:id", carts.Get)
	authed.PATCH("/carts/:id", carts.SetQuantity)
	authed.PATCH("/carts/:id/increment", carts.Increment)
	authed.PATCH("/carts/:id/decrement", carts.Decrement)
	authed.PATCH("/carts/:id/quantity", carts.SetQuantity)
	authed.DELETE("/carts/:id", carts.Remove)
	authed.GET("/my-cart", carts.MyCart)
	authed.DELETE("/my-cart", carts.Clear)

	authed.GET("/orders", orders.List)
	authed.POST("/orders", orders.Create)
	authed.POST("/orders/from-cart", orders.CreateFromCart)
	authed.GET("/orders/:id", orders.Get)
	authed.GET("/orders/:id/details", orders.Details)
	authed.GET("/products/:id/order-details", orders.DetailsByProduct)
	authed.PUT("/orders/:id", orders.Update)
	authed.PATCH("/orders/:id/status", orders.UpdateStatus)
	authed.DELETE("/orders/:id", orders.Delete)
	authed.GET("/my-orders", orders.MyOrders)

	authed.POST("/user_addresses", addresses.Create)
	authed.GET("/user_addresses", addresses.List)
	authed.GET("/user_addresses/:id", addresses.Get)
	authed.PATCH("/user_addresses/:id", addresses.Update)
	authed.PATCH("/user_addresses/:id/set-default", addresses.SetDefault)
	authed.DELETE("/user_addresses/:id", addresses.Delete)
	authed.GET("/my-addresses", addresses.ListMine)
	authed.GET("/my-addresses/default", addresses.GetDefault)

	admin := authed.Group("", middleware.AdminOnly())
	admin.POST("/products", products.Create)
	admin.PUT("/products/:id", products.Update)
	admin.DELETE("/products/:id", products.Delete)
	admin.POST("/categories", categories.Create)
	admin.PUT("/categories/:id", categories.Update)
	admin.DELETE("/categories/:id", categories.Delete)

	admin.GET("/admin/carts", carts.AdminList)
	admin.GET("/admin/carts/:id", carts.AdminGet)

	admin.GET("/guest-messages", messages.List)
	admin.GET("/guest-messages/:id", messages.Get)
	admin.PATCH("/guest-messages/:id", messages.Update)
	admin.DELETE("/guest-messages/:id", messages.Delete)

	admin.GET("/admin/statistics/overview", stats.Overview)
	admin.GET("/admin/statistics/dashboard", stats.Dashboard)
	admin.GET("/admin/statistics/users", stats.Users)
	admin.GET("/admin/statistics/products", stats.Products)
	admin.GET("/admin/statistics/orders", stats.Orders)
	admin.GET("/admin/statistics/order-details", stats.OrderDetails)
	admin.GET("/admin/statistics/revenue", stats.Revenue)
	admin.GET("/admin/statistics/guest-messages", messages.Stats)
}
