package main

import (
	"bufio"   // Line-based console input
	"context" // Root context
	"os"      // Stdin/stdout

	"wallet_console/internal/api"        // Custom package for the backend client
	"wallet_console/internal/cli"        // Custom package for the console UI
	"wallet_console/internal/config"     // Custom package for configuration
	"wallet_console/internal/controller" // Custom package for controllers
	"wallet_console/internal/session"    // Custom package for the session store

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the console
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetLevel(logrus.WarnLevel) // Keep the console quiet outside development
	}

	// The backend base URL is the one piece of required configuration
	if cfg.APIBaseURL == "" {
		logrus.Fatal("WALLET_API_BASE_URL is required")
	}

	// Setup the session store
	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		// Setup Redis client
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		sessions = session.NewRedisStore(rdb, "")
	default:
		fs, err := session.NewFileStore(cfg.SessionFile)
		if err != nil {
			logrus.Fatalf("failed to open session store: %v", err)
		}
		sessions = fs
	}

	// Wire the client, message channel and controllers
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	msgs := controller.NewMessageChannel()
	wallet := controller.NewWalletSync(client, msgs)
	roster := controller.NewAdminRoster(client, msgs)

	// Run the console UI until the user exits
	ui := cli.New(cfg, client, sessions, msgs, wallet, roster, bufio.NewReader(os.Stdin), os.Stdout)
	ui.Run(context.Background())
}
