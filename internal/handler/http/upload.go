package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/store"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/models"
)

// upload receives a deployment artifact through a signed URL: the
// signature path segment is the node's own mainnet signature over the
// deployment ID, issued when the deployment was created. No identity
// proof or payment applies; possession of a valid signed URL is the
// authorization.
//
// The body streams straight to the artifact store. If the timeout guard
// fired while the stream was running, the guard already answered the
// caller and this handler's writes are swallowed, so it simply returns.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	deploymentID := chi.URLParam(r, "deploymentId")
	signature, err := base64.RawURLEncoding.DecodeString(chi.URLParam(r, "signature"))
	if err != nil {
		log.Err(err).Msg("malformed upload signature")
		writeError(w, ErrInvalidIdentityProof.Error(), http.StatusUnauthorized)
		return
	}

	mainnet := h.wallets.Mainnet
	if err := mainnet.Verify(mainnet.IdentityKey(), []byte(deploymentID), signature); err != nil {
		log.Err(err).Str("deploymentId", deploymentID).Msg("upload signature verification failed")
		writeError(w, ErrInvalidIdentityProof.Error(), http.StatusUnauthorized)
		return
	}

	written, err := h.services.DeploymentService.SaveArtifact(ctx, deploymentID, r.Body)
	if err != nil {
		if ctx.Err() != nil {
			// the timeout guard cancels the context only after its 408 is
			// written, so there is nothing left to respond with
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		if errors.Is(err, store.ErrInvalidDeploymentID) {
			writeError(w, store.ErrInvalidDeploymentID.Error(), http.StatusBadRequest)
			return
		}
		log.Err(err).Msg("error storing artifact")
		writeError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.UploadResponse{
		DeploymentID: deploymentID,
		Bytes:        written,
	}, http.StatusOK)
}
