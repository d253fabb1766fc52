package models

// ErrorResponse is the structured body returned for every rejected request.
// Internal detail (storage errors, key material) never appears in Error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PaymentRequiredResponse is returned by the payment gate when the computed
// charge for a request has not been settled.
type PaymentRequiredResponse struct {
	Error            string `json:"error"`
	SatoshisRequired int64  `json:"satoshisRequired"`
}

// RegisterResponse is the body of a successful POST /api/v1/register.
type RegisterResponse struct {
	Message   string `json:"message"`
	UserCount int64  `json:"userCount"`
}

// NonceResponse carries a freshly issued authentication nonce.
type NonceResponse struct {
	Nonce string `json:"nonce"`
}

// PublicInfoResponse describes the node to unauthenticated callers.
type PublicInfoResponse struct {
	Name               string `json:"name"`
	Version            string `json:"version"`
	MainnetIdentityKey string `json:"mainnetIdentityKey"`
	TestnetIdentityKey string `json:"testnetIdentityKey"`
}

// UploadResponse is the body of a successful artifact upload.
type UploadResponse struct {
	DeploymentID string `json:"deploymentId"`
	Bytes        int64  `json:"bytes"`
}

// EvictResponse reports the outcome of a global eviction sweep.
type EvictResponse struct {
	Message       string `json:"message"`
	PeersNotified int    `json:"peersNotified"`
}

// ProjectStatusResponse is the body of GET /api/v1/project/{id}/status.
type ProjectStatusResponse struct {
	ProjectID string `json:"projectId"`
	Online    bool   `json:"online"`
}

// PayResponse is the body of a successful project payment.
type PayResponse struct {
	Accepted     bool  `json:"accepted"`
	SatoshisPaid int64 `json:"satoshisPaid"`
}
