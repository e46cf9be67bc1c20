package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikkune/paymybuddy/internal/common/config"
	"github.com/nikkune/paymybuddy/internal/common/constants"
	commoncrypto "github.com/nikkune/paymybuddy/internal/common/crypto"
	"github.com/nikkune/paymybuddy/internal/common/db"
	commonhttp "github.com/nikkune/paymybuddy/internal/common/http"
	"github.com/nikkune/paymybuddy/internal/common/logger"
	srv "github.com/nikkune/paymybuddy/internal/common/server"
	"github.com/nikkune/paymybuddy/internal/session"
	transferhttp "github.com/nikkune/paymybuddy/internal/transfer/http"
	transferrepo "github.com/nikkune/paymybuddy/internal/transfer/repository"
	transferservice "github.com/nikkune/paymybuddy/internal/transfer/service"
	userhttp "github.com/nikkune/paymybuddy/internal/user/http"
	userrepo "github.com/nikkune/paymybuddy/internal/user/repository"
	userservice "github.com/nikkune/paymybuddy/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL, cfg.DBPoolMaxConns)
	defer pool.Close()

	txManager := db.NewPgTxManager(pool)
	users := userrepo.NewPgRepository(pool)
	transactions := transferrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	userService := userservice.NewService(users, txManager, hasher, cfg.InitialBalance, log)
	transferService := transferservice.NewService(users, transactions, txManager, log)

	userHandler := userhttp.NewHandler(userService, sessions, cfg.RequestTimeout, log)
	transferHandler := transferhttp.NewHandler(transferService, sessions, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/auth/", userHandler)
	mux.Handle("/users", userHandler)
	mux.Handle("/users/", userHandler)
	mux.Handle("/transactions", transferHandler)
	mux.Handle("/transactions/", transferHandler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewRateLimiter(constants.RateLimitRequestsPerSecond, constants.RateLimitBurst)
	handler := rateLimiter.Middleware()(commonhttp.BuildBaseHandler(log, cfg.CORSOrigin, mux))

	server := srv.New(srv.DefaultConfig(cfg.HTTPPort), handler)
	srv.StartWithGracefulShutdown(server, log, "api")
}
