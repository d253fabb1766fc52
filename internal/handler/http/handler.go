package http

import (
	"net/http"

	"github.com/overlaydev/cars-node/internal/cluster"
	"github.com/overlaydev/cars-node/internal/config"
	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/payments"
	"github.com/overlaydev/cars-node/internal/service"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/internal/wallet"
	"github.com/overlaydev/cars-node/models"
)

// Handler owns the node's HTTP pipeline: routes, middleware, and the
// collaborators they need. The middleware thread verified state through
// the request context as immutable values; nothing on Handler mutates
// after construction.
type Handler struct {
	services *service.Services
	wallets  wallet.Wallets
	// payments is the mainnet provider. The payment gate always settles
	// against mainnet regardless of which identity authenticated the
	// caller.
	payments payments.Provider
	cluster  *cluster.Cluster
	cfg      config.Server
	authCfg  config.Auth
	version  string

	logger *logger.Logger
}

func NewHandler(services *service.Services, wallets wallet.Wallets, paymentProvider payments.Provider, cl *cluster.Cluster, cfg *config.StructuredConfig, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		wallets:  wallets,
		payments: paymentProvider,
		cluster:  cl,
		cfg:      cfg.Server,
		authCfg:  cfg.Auth,
		version:  version,
		logger:   logger,
	}
}

// writeError sends the structured rejection body every refused request
// gets. msg is caller-facing; internal detail stays in the logs.
func writeError(w http.ResponseWriter, msg string, statusCode int) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: msg}, statusCode)
}
