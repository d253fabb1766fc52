package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/models"
)

// projectStatus reports on one project. Free: the payment gate prices
// status requests at zero.
func (h *Handler) projectStatus(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	_, _ = utils.WriteJSON(w, models.ProjectStatusResponse{
		ProjectID: projectID,
		Online:    true,
	}, http.StatusOK)
}

// projectPay records a project payment. By the time this handler runs the
// payment gate has already settled the caller-supplied amount; the handler
// only acknowledges it.
func (h *Handler) projectPay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var pay models.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&pay); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	log.Info().Str("projectId", chi.URLParam(r, "projectID")).Int64("amount", pay.Amount).Msg("project payment accepted")

	_, _ = utils.WriteJSON(w, models.PayResponse{
		Accepted:     true,
		SatoshisPaid: pay.Amount,
	}, http.StatusOK)
}
