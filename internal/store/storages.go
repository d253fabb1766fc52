package store

import (
	"context"

	"github.com/overlaydev/cars-node/internal/config"
	"github.com/overlaydev/cars-node/internal/logger"
)

// Storages aggregates every persistence backend used by the node.
type Storages struct {
	AccountRepository AccountRepository
	ArtifactStore     ArtifactStore
}

// NewStorages connects the database and artifact directory described by
// cfg and returns the assembled backends together with the DB handle (the
// caller runs migrations on it before serving).
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, *DB, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, nil, err
	}

	artifacts, err := NewArtifactFileStore(cfg.ArtifactsDir, logger)
	if err != nil {
		return nil, nil, err
	}

	return &Storages{
		AccountRepository: NewAccountRepository(db, logger),
		ArtifactStore:     artifacts,
	}, db, nil
}
