// Package config loads and merges the node configuration from environment
// variables, command-line flags, and an optional JSON file. Environment
// values take precedence, then flags, then the JSON file; merging is done
// with mergo and the final result is validated before use.
package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the node.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Server holds the listen address and the base URL used as the issuer
	// of identity-proof nonces.
	Server Server `envPrefix:""`

	// Wallet holds the network-specific signing keys for the node's two
	// cryptographic identities. Both keys are required; startup fails
	// without them.
	Wallet Wallet `envPrefix:""`

	// Payment holds the external payment-provider settings, one API key
	// per network.
	Payment Payment `envPrefix:"PAYMENT_"`

	// Auth holds the certificate trust policy declared to the identity
	// verifier: the certificate type mapped to the email claim and the
	// certifier allowed to issue it.
	Auth Auth `envPrefix:"CERT_"`

	// Cluster controls whether cluster bootstrap runs at startup and which
	// peers receive global eviction fan-out.
	Cluster Cluster `envPrefix:"CLUSTER_"`

	// Storage holds the database and artifact-directory settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file,
	// merged on top of values already loaded from env and flags.
	JSONFilePath string `env:"CONFIG"`
}

// Server groups the HTTP listen and identity-challenge settings.
type Server struct {
	// Address is the listen address. Env: SERVER_ADDRESS.
	Address string `env:"SERVER_ADDRESS" envDefault:":7777"`

	// BaseURL is the public base URL of this node. It is embedded in
	// identity-proof nonces as the issuer, so clients cannot replay a
	// nonce issued by another node. Env: SERVER_BASEURL.
	BaseURL string `env:"SERVER_BASEURL" envDefault:"http://localhost:7777"`

	// UploadTimeout bounds the large-upload route. Uploads are streamed
	// and may legitimately run far longer than ordinary requests.
	// Env: SERVER_UPLOAD_TIMEOUT.
	UploadTimeout time.Duration `env:"SERVER_UPLOAD_TIMEOUT" envDefault:"2h"`

	// NonceDuration is the validity window of issued authentication
	// nonces. Env: SERVER_NONCE_DURATION.
	NonceDuration time.Duration `env:"SERVER_NONCE_DURATION" envDefault:"5m"`
}

// Wallet holds the hex-encoded private keys of the node's two signing
// identities. They are constructed once at startup and shared read-only
// across all requests.
type Wallet struct {
	// MainnetPrivateKey signs for, and decrypts against, mainnet
	// counterparties. Env: SERVER_PRIVATE_KEY.
	MainnetPrivateKey string `env:"SERVER_PRIVATE_KEY"`

	// TestnetPrivateKey is the testnet counterpart.
	// Env: TESTNET_PRIVATE_KEY.
	TestnetPrivateKey string `env:"TESTNET_PRIVATE_KEY"`
}

// Payment holds external payment-provider access settings.
type Payment struct {
	// ProviderURL is the base URL of the payment provider API.
	// Env: PAYMENT_PROVIDER_URL.
	ProviderURL string `env:"PROVIDER_URL" envDefault:"https://pay.provider.example"`

	// MainnetAPIKey authorizes settlement checks on mainnet. The payment
	// gate always settles against mainnet. Env: PAYMENT_API_KEY_MAINNET.
	MainnetAPIKey string `env:"API_KEY_MAINNET"`

	// TestnetAPIKey is the testnet counterpart. Env: PAYMENT_API_KEY_TESTNET.
	TestnetAPIKey string `env:"API_KEY_TESTNET"`
}

// Auth declares the certificate requirement: a single certificate type
// carrying the email claim, trusted only from a single certifier identity.
type Auth struct {
	// EmailCertType is the certificate type identifier whose decrypted
	// fields include "email". Env: CERT_TYPE_EMAIL.
	EmailCertType string `env:"TYPE_EMAIL" envDefault:"exOl3KM0dIJ04EW5pZgbZmPag6MdJXd3/a1enmUU/BA="`

	// TrustedCertifier is the identity key of the only certifier whose
	// certificates are accepted. Env: CERT_CERTIFIER.
	TrustedCertifier string `env:"CERTIFIER" envDefault:"03285263f06139b66fb27f51cf8a92e9dd007c4c4b83876ad6c3e7028db450a4c2"`
}

// Cluster groups cluster bootstrap settings.
type Cluster struct {
	// Bootstrap selects whether cluster bootstrap runs at startup.
	// Env: CLUSTER_BOOTSTRAP.
	Bootstrap bool `env:"BOOTSTRAP"`

	// Peers are base URLs of sibling nodes notified on global eviction.
	// Env: CLUSTER_PEERS (comma-separated).
	Peers []string `env:"PEERS"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// ArtifactsDir is the directory deployment artifacts are streamed to.
	// Env: STORAGE_ARTIFACTS_DIR.
	ArtifactsDir string `env:"ARTIFACTS_DIR" envDefault:"./artifacts"`
}

// DB holds the relational database connection settings.
type DB struct {
	// DSN is the PostgreSQL connection string. Env: STORAGE_DB_DSN.
	DSN string `env:"DSN"`
}

// GetStructuredConfig loads, merges, and validates the full node
// configuration. Any error — including missing required keys — must be
// treated as fatal by the caller: the node never serves with a partial
// configuration.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
