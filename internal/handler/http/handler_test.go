package http

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/overlaydev/cars-node/internal/cluster"
	"github.com/overlaydev/cars-node/internal/config"
	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/payments"
	paymentsmock "github.com/overlaydev/cars-node/internal/payments/mock"
	"github.com/overlaydev/cars-node/internal/service"
	"github.com/overlaydev/cars-node/internal/utils"
	"github.com/overlaydev/cars-node/internal/wallet"
	"github.com/overlaydev/cars-node/models"
)

const testBaseURL = "http://localhost:7777"

// fakeAccountService records calls so tests can assert on binder and
// registration behavior without a database.
type fakeAccountService struct {
	registeredKeys   []string
	registeredEmails []string
	boundKeys        []string
	boundEmails      []string

	registerErr error
	bindErr     error
	userCount   int64
}

func (f *fakeAccountService) Register(_ context.Context, identityKey, email string) (models.RegisterResult, error) {
	if f.registerErr != nil {
		return models.RegisterResult{}, f.registerErr
	}
	f.registeredKeys = append(f.registeredKeys, identityKey)
	f.registeredEmails = append(f.registeredEmails, email)
	f.userCount++
	return models.RegisterResult{Created: true, UserCount: f.userCount}, nil
}

func (f *fakeAccountService) BindEmail(_ context.Context, identityKey, email string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.boundKeys = append(f.boundKeys, identityKey)
	f.boundEmails = append(f.boundEmails, email)
	return nil
}

type fakeDeploymentService struct {
	savedIDs   []string
	savedBytes int64
	saveErr    error
	// saveDelay simulates a slow artifact stream for the timeout guard.
	saveDelay time.Duration

	evicted  int
	evictErr error
}

func (f *fakeDeploymentService) SaveArtifact(ctx context.Context, deploymentID string, body io.Reader) (int64, error) {
	if f.saveDelay > 0 {
		select {
		case <-time.After(f.saveDelay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	n, err := io.Copy(io.Discard, body)
	if err != nil {
		return n, err
	}
	f.savedIDs = append(f.savedIDs, deploymentID)
	f.savedBytes += n
	return n, nil
}

func (f *fakeDeploymentService) EvictAll(context.Context) error {
	if f.evictErr != nil {
		return f.evictErr
	}
	f.evicted++
	return nil
}

// testEnv bundles a fully wired Handler with handles on its fakes and the
// identities tests sign requests with.
type testEnv struct {
	handler     *Handler
	accounts    *fakeAccountService
	deployments *fakeDeploymentService
	provider    *paymentsmock.MockProvider

	caller    *wallet.Identity
	certifier *wallet.Identity
	server    *wallet.Identity // the node's mainnet identity
}

func newTestIdentity(t *testing.T, network string) *wallet.Identity {
	t.Helper()

	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	id, err := wallet.NewIdentity(network, hex.EncodeToString(raw))
	require.NoError(t, err)
	return id
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	provider := paymentsmock.NewMockProvider(ctrl)

	server := newTestIdentity(t, wallet.NetworkMainnet)
	testnet := newTestIdentity(t, wallet.NetworkTestnet)
	caller := newTestIdentity(t, wallet.NetworkMainnet)
	certifier := newTestIdentity(t, wallet.NetworkMainnet)

	accounts := &fakeAccountService{}
	deployments := &fakeDeploymentService{}

	cfg := &config.StructuredConfig{
		Server: config.Server{
			Address:       ":7777",
			BaseURL:       testBaseURL,
			UploadTimeout: 2 * time.Hour,
			NonceDuration: 5 * time.Minute,
		},
		Auth: config.Auth{
			EmailCertType:    "email-cert",
			TrustedCertifier: certifier.IdentityKey(),
		},
	}

	h := NewHandler(
		&service.Services{AccountService: accounts, DeploymentService: deployments},
		wallet.Wallets{Mainnet: server, Testnet: testnet},
		provider,
		cluster.New(config.Cluster{}, logger.Nop()),
		cfg,
		"test",
		logger.Nop(),
	)

	return &testEnv{
		handler:     h,
		accounts:    accounts,
		deployments: deployments,
		provider:    provider,
		caller:      caller,
		certifier:   certifier,
		server:      server,
	}
}

// signRequest attaches a complete, valid identity proof for env.caller to
// the request: a freshly issued nonce and a signature over method, path,
// and nonce.
func (env *testEnv) signRequest(t *testing.T, r *http.Request) {
	t.Helper()

	nonce, err := utils.GenerateNonceToken(testBaseURL, env.caller.IdentityKey(), 5*time.Minute, env.server.NonceSigningKey())
	require.NoError(t, err)

	sig, err := env.caller.Sign(signingMessage(r.Method, r.URL.Path, nonce))
	require.NoError(t, err)

	r.Header.Set(headerIdentityKey, env.caller.IdentityKey())
	r.Header.Set(headerIdentityNonce, nonce)
	r.Header.Set(headerIdentitySignature, base64.StdEncoding.EncodeToString(sig))
}

// issueEmailCertificate builds a certificate for env.caller signed by the
// trusted certifier, with the email field encrypted for the node.
func (env *testEnv) issueEmailCertificate(t *testing.T, certType, email string) wallet.Certificate {
	t.Helper()

	encrypted, err := env.caller.EncryptField(env.server.IdentityKey(), []byte(email))
	require.NoError(t, err)

	cert := wallet.Certificate{
		Type:         certType,
		Certifier:    env.certifier.IdentityKey(),
		Subject:      env.caller.IdentityKey(),
		SerialNumber: "serial-1",
		Fields:       map[string]string{"email": base64.StdEncoding.EncodeToString(encrypted)},
	}

	sig, err := env.certifier.Sign(cert.SigningPayload())
	require.NoError(t, err)
	cert.Signature = base64.StdEncoding.EncodeToString(sig)

	return cert
}

func (env *testEnv) attachCertificates(t *testing.T, r *http.Request, certs ...wallet.Certificate) {
	t.Helper()

	encoded, err := wallet.EncodeCertificates(certs)
	require.NoError(t, err)
	r.Header.Set(headerIdentityCertificates, encoded)
}

var _ payments.Provider = (*paymentsmock.MockProvider)(nil)
