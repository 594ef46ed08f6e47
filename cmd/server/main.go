package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/nmoreno/walletly/internal/api"
	"github.com/nmoreno/walletly/internal/auth"
	"github.com/nmoreno/walletly/internal/config"
	"github.com/nmoreno/walletly/internal/events"
	"github.com/nmoreno/walletly/internal/events/kafka"
	"github.com/nmoreno/walletly/internal/service"
	"github.com/nmoreno/walletly/internal/storage/sqlite"
	"github.com/nmoreno/walletly/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
		slog.Info("Event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	goals := service.NewGoalService(store, publisher)
	handlers := api.Handlers{
		Auth:         api.NewAuthHandler(service.NewAuthService(authenticator, jwtManager)),
		Wallets:      api.NewWalletHandler(service.NewWalletService(store), service.NewSettlementService(store, publisher)),
		Transactions: api.NewTransactionHandler(service.NewTransactionService(store, goals)),
		Goals:        api.NewGoalHandler(goals),
	}

	handler := api.NewRouter(handlers, jwtManager)

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "addr", addr)
	if err := http.ListenAndServe(addr, h2c.NewHandler(handler, &http2.Server{})); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
