// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

// Package cluster handles the node's membership in a deployment cluster:
// optional bootstrap at startup and fan-out of global eviction requests to
// sibling nodes.
package cluster

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/overlaydev/cars-node/internal/config"
	"github.com/overlaydev/cars-node/internal/logger"
)

// Cluster knows this node's peers. A nil peer list is valid; eviction then
// only acts locally.
type Cluster struct {
	peers  []string
	client *resty.Client
	logger *logger.Logger
}

// New constructs a Cluster from configuration.
func New(cfg config.Cluster, logger *logger.Logger) *Cluster {
	return &Cluster{
		peers:  cfg.Peers,
		client: resty.New().SetHeader("Accept", "application/json"),
		logger: logger,
	}
}

// Bootstrap announces this node to every configured peer. It is invoked at
// startup only when the cluster bootstrap flag is set. Unreachable peers
// are logged but do not fail startup; the node can serve alone.
func (c *Cluster) Bootstrap(ctx context.Context) error {
	c.logger.Info().Int("peers", len(c.peers)).Msg("bootstrapping cluster")

	for _, peer := range c.peers {
		resp, err := c.client.R().
			SetContext(ctx).
			Post(peer + "/internal/cluster/join")
		if err != nil {
			c.logger.Warn().Err(err).Str("peer", peer).Msg("peer unreachable during bootstrap")
			continue
		}
		if resp.IsError() {
			c.logger.Warn().Int("status", resp.StatusCode()).Str("peer", peer).Msg("peer rejected bootstrap")
		}
	}

	return nil
}

// EvictGlobally asks every peer to drop its cached deployments. It returns
// the number of peers notified successfully and the joined errors for those
// that failed; partial failure still evicts everywhere reachable.
func (c *Cluster) EvictGlobally(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	notified := 0
	var errs []error
	for _, peer := range c.peers {
		resp, err := c.client.R().
			SetContext(ctx).
			Post(peer + "/internal/cluster/evict")
		if err != nil {
			log.Warn().Err(err).Str("peer", peer).Msg("peer unreachable during eviction")
			errs = append(errs, fmt.Errorf("peer %s: %w", peer, err))
			continue
		}
		if resp.IsError() {
			log.Warn().Int("status", resp.StatusCode()).Str("peer", peer).Msg("peer rejected eviction")
			errs = append(errs, fmt.Errorf("peer %s: status %d", peer, resp.StatusCode()))
			continue
		}
		notified++
	}

	return notified, errors.Join(errs...)
}
