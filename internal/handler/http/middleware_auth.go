// Package http implements the HTTP transport layer of the node: the
// ordered middleware pipeline (CORS, audit logging, identity verification,
// identity binding, payment gating, upload timeout) and the route handlers
// it protects. Cross-cutting state — the verified caller identity — is
// threaded through the request context as an immutable value; no stage
// mutates shared request state.
package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/store"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/internal/wallet"
)

// Authentication proof headers. The signature covers method, path, and
// nonce, so a proof cannot be replayed against another route or after the
// nonce expires.
const (
	headerIdentityKey          = "X-Identity-Key"
	headerIdentityNetwork      = "X-Identity-Network"
	headerIdentityNonce        = "X-Identity-Nonce"
	headerIdentitySignature    = "X-Identity-Signature"
	headerIdentityCertificates = "X-Identity-Certificates"
)

// auth is the identity verification stage. It validates the caller's
// identity proof against the network-specific signing identity, decodes
// and trust-filters any attached certificates, triggers the best-effort
// identity binder, and exposes the verified identity to later stages via
// the request context.
//
// Rejections are HTTP 401 with a structured error body and stop the
// pipeline; no later stage runs. Routes exempted by the dispatcher
// (public, upload, eviction) never reach this middleware.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		identityKey := r.Header.Get(headerIdentityKey)
		if identityKey == "" {
			log.Err(ErrMissingIdentityKey).Send()
			writeError(w, ErrMissingIdentityKey.Error(), http.StatusUnauthorized)
			return
		}

		id, err := h.wallets.ForNetwork(r.Header.Get(headerIdentityNetwork))
		if err != nil {
			log.Err(err).Send()
			writeError(w, ErrInvalidIdentityProof.Error(), http.StatusUnauthorized)
			return
		}

		nonce := r.Header.Get(headerIdentityNonce)
		if nonce == "" {
			log.Err(ErrMissingNonce).Send()
			writeError(w, ErrMissingNonce.Error(), http.StatusUnauthorized)
			return
		}
		if err := utils.ValidateNonceToken(nonce, identityKey, h.cfg.BaseURL, id.NonceSigningKey()); err != nil {
			log.Err(err).Msg("nonce validation failed")
			writeError(w, ErrInvalidIdentityProof.Error(), http.StatusUnauthorized)
			return
		}

		signature, err := base64.StdEncoding.DecodeString(r.Header.Get(headerIdentitySignature))
		if err != nil || len(signature) == 0 {
			log.Err(ErrMissingSignature).Send()
			writeError(w, ErrMissingSignature.Error(), http.StatusUnauthorized)
			return
		}

		if err := id.Verify(identityKey, signingMessage(r.Method, r.URL.Path, nonce), signature); err != nil {
			log.Err(err).Msg("identity proof verification failed")
			writeError(w, ErrInvalidIdentityProof.Error(), http.StatusUnauthorized)
			return
		}

		verified := wallet.VerifiedIdentity{
			IdentityKey:  identityKey,
			Network:      id.Network(),
			Certificates: h.trustedCertificates(r, id, identityKey),
		}

		// Identity binding is best-effort: failures are logged and the
		// caller's primary operation proceeds regardless.
		h.bindIdentity(r.Context(), verified)

		ctx := context.WithValue(r.Context(), utils.IdentityCtxKey, verified)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// trustedCertificates decodes the certificates header and keeps only
// certificates that pass every trust check: issued by the configured
// certifier, of the configured type, subject matching the verified caller,
// and carrying a valid certifier signature. Certificates failing any check
// are treated as absent, not as a hard error; their fields are then
// decrypted with the network identity.
func (h *Handler) trustedCertificates(r *http.Request, id *wallet.Identity, identityKey string) []wallet.VerifiedCertificate {
	log := logger.FromRequest(r)

	headerValue := r.Header.Get(headerIdentityCertificates)
	if headerValue == "" {
		return nil
	}

	certs, err := wallet.DecodeCertificates(headerValue)
	if err != nil {
		log.Warn().Err(err).Msg("discarding undecodable certificates header")
		return nil
	}

	var verified []wallet.VerifiedCertificate
	for _, cert := range certs {
		if cert.Certifier != h.authCfg.TrustedCertifier {
			log.Debug().Str("certifier", cert.Certifier).Msg("discarding certificate from untrusted certifier")
			continue
		}
		if cert.Type != h.authCfg.EmailCertType {
			log.Debug().Str("type", cert.Type).Msg("discarding certificate of unrequested type")
			continue
		}
		if cert.Subject != identityKey {
			log.Debug().Msg("discarding certificate for different subject")
			continue
		}
		if err := cert.VerifySignature(id); err != nil {
			log.Warn().Err(err).Msg("discarding certificate with invalid signature")
			continue
		}

		fields, err := decryptCertificateFields(id, cert)
		if err != nil {
			log.Warn().Err(err).Msg("discarding certificate with undecryptable fields")
			continue
		}

		verified = append(verified, wallet.VerifiedCertificate{
			Certifier: cert.Certifier,
			Type:      cert.Type,
			Fields:    fields,
		})
	}

	return verified
}

// decryptCertificateFields decrypts every field ciphertext with the
// certificate subject as counterparty.
func decryptCertificateFields(id *wallet.Identity, cert wallet.Certificate) (map[string]string, error) {
	fields := make(map[string]string, len(cert.Fields))
	for name, encoded := range cert.Fields {
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, err
		}
		plaintext, err := id.DecryptField(cert.Subject, ciphertext)
		if err != nil {
			return nil, err
		}
		fields[name] = string(plaintext)
	}
	return fields, nil
}

// bindIdentity reconciles a verified identity with the account store: when
// the request carries exactly one qualifying certificate whose decrypted
// email claim is a non-empty string, the existing account's email is
// overwritten with it. Storage errors and missing accounts are logged and
// swallowed; first-contact insertion belongs to the register handler, not
// here.
func (h *Handler) bindIdentity(ctx context.Context, verified wallet.VerifiedIdentity) {
	log := logger.FromContext(ctx)

	if len(verified.Certificates) != 1 {
		return
	}

	cert := verified.Certificates[0]
	if cert.Type != h.authCfg.EmailCertType || cert.Certifier != h.authCfg.TrustedCertifier {
		return
	}

	email := cert.Fields["email"]
	if email == "" {
		return
	}

	if err := h.services.AccountService.BindEmail(ctx, verified.IdentityKey, email); err != nil {
		if errors.Is(err, store.ErrNoAccountFound) {
			log.Debug().Str("identityKey", verified.IdentityKey).Msg("email binding skipped: account not registered yet")
			return
		}
		log.Warn().Err(err).Str("identityKey", verified.IdentityKey).Msg("email binding failed")
	}
}

// signingMessage is the canonical byte string an identity proof signs.
func signingMessage(method, path, nonce string) []byte {
	return []byte(strings.Join([]string{method, path, nonce}, "\n"))
}
