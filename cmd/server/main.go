package main

import (
	"context"
	"fmt"
	"time"

	"github.com/overlaydev/cars-node/internal/cluster"
	"github.com/overlaydev/cars-node/internal/config"
	handler "github.com/overlaydev/cars-node/internal/handler/http"
	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/payments"
	"github.com/overlaydev/cars-node/internal/server"
	"github.com/overlaydev/cars-node/internal/service"
	"github.com/overlaydev/cars-node/internal/store"
	"github.com/overlaydev/cars-node/internal/wallet"
	"github.com/overlaydev/cars-node/internal/workers"
	"github.com/overlaydev/cars-node/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("cars-node")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	storages, db, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	wallets, err := wallet.NewWallets(cfg.Wallet)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating signing identities")
	}

	paymentProvider := payments.NewProviderClient(cfg.Payment.ProviderURL, cfg.Payment.MainnetAPIKey, wallet.NetworkMainnet, log)

	cl := cluster.New(cfg.Cluster, log)
	if cfg.Cluster.Bootstrap {
		if err := cl.Bootstrap(ctx); err != nil {
			log.Warn().Err(err).Msg("cluster bootstrap incomplete")
		}
	}

	services := service.NewServices(storages, log)
	handlers := handler.NewHandler(services, wallets, paymentProvider, cl, cfg, buildVersion, log)

	background := workers.New(
		workers.NewArtifactJanitor(cfg.Storage.ArtifactsDir, cfg.Server.UploadTimeout, 15*time.Minute, log),
	)

	srv, err := server.NewServer(handlers.Init(), background, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	log.Info().Str("address", cfg.Server.Address).Msg("CARS Node listening")
	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
