package models

// NonceRequest asks the node to issue an authentication nonce bound to the
// caller's identity key.
type NonceRequest struct {
	IdentityKey string `json:"identityKey"`
}

// PayRequest is the caller-supplied body of a project payment request.
// Amount is denominated in the smallest currency unit.
type PayRequest struct {
	Amount int64 `json:"amount"`
}
