package http

import (
	"encoding/json"
	"net/http"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/internal/wallet"
	"github.com/overlaydev/cars-node/models"
)

// authNonce issues the single-use challenge a caller signs to prove its
// identity. The nonce is a short-lived JWT bound to the caller's identity
// key and this node's base URL, signed with a key derived from the
// network identity, so it cannot be replayed against another node or
// presented by another caller.
func (h *Handler) authNonce(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.NonceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.IdentityKey == "" {
		writeError(w, ErrMissingIdentityKey.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.wallets.ForNetwork(r.Header.Get(headerIdentityNetwork))
	if err != nil {
		log.Err(err).Msg("nonce requested for unknown network")
		writeError(w, "unknown network", http.StatusBadRequest)
		return
	}

	nonce, err := utils.GenerateNonceToken(h.cfg.BaseURL, req.IdentityKey, h.cfg.NonceDuration, id.NonceSigningKey())
	if err != nil {
		log.Err(err).Msg("error issuing nonce")
		writeError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.NonceResponse{Nonce: nonce}, http.StatusOK)
}

// register is the first-contact path: insert the account for the verified
// identity key if absent, using the email claim of the qualifying
// certificate when one was presented, then report the current total
// account count.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	verified, err := utils.IdentityFromContext[wallet.VerifiedIdentity](ctx)
	if err != nil {
		log.Err(err).Msg("register handler reached without verified identity")
		writeError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	result, err := h.services.AccountService.Register(ctx, verified.IdentityKey, emailClaim(verified))
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during user registration")
		writeError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.RegisterResponse{
		Message:   "User registered",
		UserCount: result.UserCount,
	}, http.StatusOK)
}

// emailClaim extracts the email field of the first verified certificate,
// or "" when the caller presented none.
func emailClaim(verified wallet.VerifiedIdentity) string {
	if len(verified.Certificates) == 0 {
		return ""
	}
	return verified.Certificates[0].Fields["email"]
}
