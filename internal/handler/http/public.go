package http

import (
	"net/http"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/models"
)

// public answers the unauthenticated query route with the node's public
// identity keys and version.
func (h *Handler) public(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.PublicInfoResponse{
		Name:               "cars-node",
		Version:            h.version,
		MainnetIdentityKey: h.wallets.Mainnet.IdentityKey(),
		TestnetIdentityKey: h.wallets.Testnet.IdentityKey(),
	}, http.StatusOK)
}

// evictGlobally is the privileged operational hook: drop every locally
// cached artifact, then fan the eviction out to cluster peers. Peer
// failures degrade the sweep but do not fail it; a local failure does.
func (h *Handler) evictGlobally(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.DeploymentService.EvictAll(ctx); err != nil {
		log.Err(err).Msg("local artifact eviction failed")
		writeError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	notified, err := h.cluster.EvictGlobally(ctx)
	if err != nil {
		log.Warn().Err(err).Int("peersNotified", notified).Msg("partial cluster eviction")
	}

	_, _ = utils.WriteJSON(w, models.EvictResponse{
		Message:       "Eviction complete",
		PeersNotified: notified,
	}, http.StatusOK)
}
