package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/overlaydev/cars-node/internal/wallet"
)

func TestAuthNonce_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	router := env.handler.Init()

	tests := []struct {
		name    string
		body    string
		network string
		wantMsg string
	}{
		{name: "invalid json", body: "{", wantMsg: "Invalid JSON was passed"},
		{name: "missing identity key", body: `{}`, wantMsg: ErrMissingIdentityKey.Error()},
		{name: "unknown network", body: `{"identityKey":"03abc"}`, network: "regtest", wantMsg: "unknown network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/nonce", strings.NewReader(tt.body))
			if tt.network != "" {
				req.Header.Set(headerIdentityNetwork, tt.network)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestAuthNonce_TestnetUsesTestnetKey(t *testing.T) {
	env := newTestEnv(t)
	router := env.handler.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/nonce", strings.NewReader(`{"identityKey":"03abc"}`))
	req.Header.Set(headerIdentityNetwork, wallet.NetworkTestnet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_ServiceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.accounts.registerErr = assert.AnError
	router := env.handler.Init()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", nil)
	env.signRequest(t, req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEmailClaim(t *testing.T) {
	assert.Empty(t, emailClaim(wallet.VerifiedIdentity{}))

	verified := wallet.VerifiedIdentity{
		Certificates: []wallet.VerifiedCertificate{
			{Fields: map[string]string{"email": "dev@example.com"}},
		},
	}
	assert.Equal(t, "dev@example.com", emailClaim(verified))
}
