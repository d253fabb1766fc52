package service

import (
	"context"
	"fmt"
	"io"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/store"
)

type deploymentService struct {
	artifacts store.ArtifactStore
	logger    *logger.Logger
}

// NewDeploymentService constructs a [DeploymentService] over the artifact
// store.
func NewDeploymentService(artifacts store.ArtifactStore, logger *logger.Logger) DeploymentService {
	logger.Debug().Msg("creating deployment service")
	return &deploymentService{
		artifacts: artifacts,
		logger:    logger,
	}
}

func (s *deploymentService) SaveArtifact(ctx context.Context, deploymentID string, body io.Reader) (int64, error) {
	log := logger.FromContext(ctx)

	written, err := s.artifacts.Save(ctx, deploymentID, body)
	if err != nil {
		return written, fmt.Errorf("error saving artifact: %w", err)
	}

	log.Info().Str("deploymentId", deploymentID).Int64("bytes", written).Msg("artifact stored")
	return written, nil
}

func (s *deploymentService) EvictAll(ctx context.Context) error {
	if err := s.artifacts.EvictAll(ctx); err != nil {
		return fmt.Errorf("error evicting artifacts: %w", err)
	}

	return nil
}
