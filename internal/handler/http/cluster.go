package http

import (
	"net/http"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/models"
)

// clusterJoin acknowledges a sibling node's bootstrap announcement.
func (h *Handler) clusterJoin(w http.ResponseWriter, r *http.Request) {
	logger.FromRequest(r).Info().Str("peer", r.RemoteAddr).Msg("peer joined cluster")

	_, _ = utils.WriteJSON(w, struct {
		Message string `json:"message"`
	}{Message: "Joined"}, http.StatusOK)
}

// clusterEvict is the receiving side of a sibling's global eviction: drop
// local artifacts only, no further fan-out, so a sweep never loops through
// the cluster.
func (h *Handler) clusterEvict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.DeploymentService.EvictAll(ctx); err != nil {
		log.Err(err).Msg("local artifact eviction failed")
		writeError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.EvictResponse{
		Message:       "Eviction complete",
		PeersNotified: 0,
	}, http.StatusOK)
}
