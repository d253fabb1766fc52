package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/payments"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/internal/wallet"
	"github.com/overlaydev/cars-node/models"
)

// headerPayment carries the provider reference of the payment the caller
// settled for a priced request.
const headerPayment = "X-Payment"

// Pricing rule: project payment requests are charged the caller-supplied
// amount; everything else is free.
const (
	projectPathPrefix = "/api/v1/project/"
	payPathSuffix     = "/pay"
)

// payment is the payment gate. It computes the required charge for the
// request from its path and body, and refuses to dispatch until the
// provider confirms settlement of that amount. Free requests (computed
// amount zero) pass through untouched.
//
// Rejections are HTTP 402 with the required amount, distinct from the 401
// of authentication failure. Settlement always runs against the mainnet
// provider regardless of which network identity authenticated the caller.
func (h *Handler) payment(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		amount, err := priceForRequest(r)
		if err != nil {
			log.Err(err).Msg("cannot price request")
			writeError(w, ErrInvalidPaymentBody.Error(), http.StatusBadRequest)
			return
		}

		if amount == 0 {
			next.ServeHTTP(w, r)
			return
		}

		verified, err := utils.IdentityFromContext[wallet.VerifiedIdentity](r.Context())
		if err != nil {
			// the gate runs after auth; reaching here unauthenticated is
			// a wiring bug, not a caller mistake
			log.Error().Err(err).Msg("payment gate reached without verified identity")
			writeError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		reference := r.Header.Get(headerPayment)
		if reference == "" {
			log.Info().Int64("satoshisRequired", amount).Msg("rejecting unpaid request")
			writePaymentRequired(w, amount)
			return
		}

		if err := h.payments.Settle(r.Context(), reference, amount, verified.IdentityKey); err != nil {
			if errors.Is(err, payments.ErrPaymentNotSettled) {
				log.Info().Int64("satoshisRequired", amount).Str("reference", reference).Msg("payment not settled")
				writePaymentRequired(w, amount)
				return
			}
			log.Err(err).Msg("payment settlement check failed")
			writeError(w, "payment provider unavailable", http.StatusBadGateway)
			return
		}

		log.Info().Int64("satoshis", amount).Str("reference", reference).Msg("payment settled")
		next.ServeHTTP(w, r)
	})
}

// priceForRequest computes the charge for a request: the caller-supplied
// amount for project payment paths, zero for everything else. The body is
// restored for downstream handlers.
func priceForRequest(r *http.Request) (int64, error) {
	if !isProjectPayPath(r.URL.Path) {
		return 0, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return 0, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var pay models.PayRequest
	if err := json.Unmarshal(body, &pay); err != nil {
		return 0, err
	}
	if pay.Amount < 0 {
		return 0, ErrInvalidPaymentBody
	}

	return pay.Amount, nil
}

func isProjectPayPath(path string) bool {
	return strings.HasPrefix(path, projectPathPrefix) && strings.HasSuffix(path, payPathSuffix)
}

func writePaymentRequired(w http.ResponseWriter, amount int64) {
	_, _ = utils.WriteJSON(w, models.PaymentRequiredResponse{
		Error:            ErrPaymentRequired.Error(),
		SatoshisRequired: amount,
	}, http.StatusPaymentRequired)
}
