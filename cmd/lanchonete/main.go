package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lanchonete/internal/auth"
	"lanchonete/internal/cache"
	"lanchonete/internal/catalog"
	"lanchonete/internal/config"
	"lanchonete/internal/connections/database"
	"lanchonete/internal/connections/rabbitmq"
	"lanchonete/internal/events"
	"lanchonete/internal/httpx"
	"lanchonete/internal/logger"
	"lanchonete/internal/orders"
	"lanchonete/internal/server"
	"lanchonete/internal/users"
)

const serviceName = "lanchonete"

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:          serviceName,
		Short:        "Food-service marketplace API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yml", "path to YAML config")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfgPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context(), cfgPath)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.New(serviceName)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected", "host", cfg.Database.Host, "database", cfg.Database.Database)

	var publisher orders.Publisher
	if cfg.RabbitMQ.Host != "" {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		defer rmq.Close()
		if err := rmq.Ping(); err != nil {
			return fmt.Errorf("rabbitmq ping: %w", err)
		}
		publisher = events.NewPublisher(rmq, cfg.RabbitMQ.Exchange, log)
		log.Info("rabbitmq connected", "host", cfg.RabbitMQ.Host, "exchange", cfg.RabbitMQ.Exchange)
	}

	var catalogCache cache.Cache
	if cfg.Redis.Addr != "" {
		catalogCache = cache.NewRedis(cfg.Redis.Addr, serviceName)
		log.Info("redis cache enabled", "addr", cfg.Redis.Addr)
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	userRepo := users.NewRepository(pool)
	catalogRepo := catalog.NewRepository(pool)
	orderRepo := orders.NewRepository(pool)

	handlers := server.Handlers{
		Users:   users.NewHandler(users.NewService(userRepo, tokens)),
		Catalog: catalog.NewHandler(catalog.NewService(catalogRepo), catalogCache, cfg.Redis.TTL, log),
		Orders:  orders.NewHandler(orders.NewService(orderRepo, catalogRepo, publisher)),
	}

	srv := httpx.NewServer(cfg.HTTP.Port, server.NewRouter(handlers, tokens, log))
	log.Info("http server starting", "port", cfg.HTTP.Port)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

func migrate(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.New(serviceName)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}
	log.Info("schema applied", "database", cfg.Database.Database)
	return nil
}
