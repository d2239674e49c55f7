package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"consul-mailer/internal/cli"
	"consul-mailer/internal/config"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service"
	"consul-mailer/internal/service/digest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func open(ctx context.Context) (digest.Service, func(), error) {
	cfg := config.Load()

	db, err := config.NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repository.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (preference cache disabled)", err)
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (mail archive disabled)", err)
	}

	transport, err := service.NewTransport(cfg, minioClient)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	services := service.NewServices(repository.NewRepositories(db), redis, transport, cfg)

	closeFn := func() {
		if redis != nil {
			redis.Close()
		}
		db.Close()
	}
	return services.Digest, closeFn, nil
}
