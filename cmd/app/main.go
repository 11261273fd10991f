package main

import (
	"os"
	"os/signal"
	"syscall"

	"BlogPlatform/internal/config"
	"BlogPlatform/pkg/log"
	"BlogPlatform/pkg/redis"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	appConfig, err := config.LoadAppConfig()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	var redisServer redis.IRedis
	if appConfig.RedisAddress != "" {
		redisServer = redis.New(appConfig.RedisAddress, appConfig.RedisPassword, appConfig.RedisDB, logger)
	} else {
		logger.Warn("REDIS_ADDRESS not set, logout is disabled")
	}

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithAppConfig(appConfig),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithMiddleware(),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("Server started on port %s (%s)", appConfig.Port, appConfig.Env)

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
}
