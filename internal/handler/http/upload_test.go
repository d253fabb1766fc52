package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlaydev/cars-node/internal/store"
	"github.com/overlaydev/cars-node/models"
)

// signedUploadPath builds the upload URL for a deployment the way the
// node would issue it: the signature segment is the node's own mainnet
// signature over the deployment ID.
func (env *testEnv) signedUploadPath(t *testing.T, deploymentID string) string {
	t.Helper()

	sig, err := env.server.Sign([]byte(deploymentID))
	require.NoError(t, err)
	return "/api/v1/upload/" + deploymentID + "/" + base64.RawURLEncoding.EncodeToString(sig)
}

func TestUpload_SignedURLAccepted(t *testing.T) {
	env := newTestEnv(t)
	router := env.handler.Init()

	payload := strings.Repeat("artifact-bytes ", 100)
	req := httptest.NewRequest(http.MethodPost, env.signedUploadPath(t, "dep-1"), strings.NewReader(payload))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dep-1", resp.DeploymentID)
	assert.Equal(t, int64(len(payload)), resp.Bytes)
	assert.Equal(t, []string{"dep-1"}, env.deployments.savedIDs)
}

func TestUpload_NoIdentityHeadersNeeded(t *testing.T) {
	env := newTestEnv(t)
	router := env.handler.Init()

	// the signed URL is the whole authorization; the account store must
	// never be touched
	req := httptest.NewRequest(http.MethodPost, env.signedUploadPath(t, "dep-2"), strings.NewReader("x"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.accounts.registeredKeys)
	assert.Empty(t, env.accounts.boundKeys)
}

func TestUpload_InvalidSignatureRejected(t *testing.T) {
	env := newTestEnv(t)
	router := env.handler.Init()

	t.Run("signature over different deployment", func(t *testing.T) {
		sig, err := env.server.Sign([]byte("other-deployment"))
		require.NoError(t, err)

		path := "/api/v1/upload/dep-3/" + base64.RawURLEncoding.EncodeToString(sig)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader("x")))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, env.deployments.savedIDs)
	})

	t.Run("signature by someone other than the node", func(t *testing.T) {
		sig, err := env.caller.Sign([]byte("dep-3"))
		require.NoError(t, err)

		path := "/api/v1/upload/dep-3/" + base64.RawURLEncoding.EncodeToString(sig)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader("x")))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("undecodable signature segment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/upload/dep-3/%21%21%21", strings.NewReader("x")))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUpload_InvalidDeploymentID(t *testing.T) {
	env := newTestEnv(t)
	env.deployments.saveErr = store.ErrInvalidDeploymentID
	router := env.handler.Init()

	req := httptest.NewRequest(http.MethodPost, env.signedUploadPath(t, "dep-4"), strings.NewReader("x"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// endlessBody yields bytes forever; callers bound it with io.LimitReader.
type endlessBody struct{}

func (endlessBody) Read(p []byte) (int, error) { return len(p), nil }

func TestUpload_BodyOverCapRejected(t *testing.T) {
	env := newTestEnv(t)
	router := env.handler.Init()

	body := io.LimitReader(endlessBody{}, maxBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, env.signedUploadPath(t, "dep-6"), body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body too large")
	assert.Empty(t, env.deployments.savedIDs)
}

func TestUpload_TimeoutProducesSingleResponse(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.UploadTimeout = 20 * time.Millisecond
	env.deployments.saveDelay = time.Second
	router := env.handler.Init()

	req := httptest.NewRequest(http.MethodPost, env.signedUploadPath(t, "dep-5"), strings.NewReader("x"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
	assert.JSONEq(t, `{"error":"upload deadline exceeded"}`, rec.Body.String())
	assert.Empty(t, env.deployments.savedIDs)
}
