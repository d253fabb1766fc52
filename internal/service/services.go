package service

import (
	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/store"
)

// Services aggregates the node's business services.
type Services struct {
	AccountService    AccountService
	DeploymentService DeploymentService
}

func NewServices(storages *store.Storages, logger *logger.Logger) *Services {
	return &Services{
		AccountService:    NewAccountService(storages.AccountRepository, logger),
		DeploymentService: NewDeploymentService(storages.ArtifactStore, logger),
	}
}
