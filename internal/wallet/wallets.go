package wallet

import (
	"github.com/overlaydev/cars-node/internal/config"
)

// Wallets holds the node's two network-specific signing identities. Both
// are constructed once at startup from configuration and shared read-only
// across all concurrent requests.
type Wallets struct {
	Mainnet *Identity
	Testnet *Identity
}

// NewWallets constructs both identities from the configured private keys.
func NewWallets(cfg config.Wallet) (Wallets, error) {
	mainnet, err := NewIdentity(NetworkMainnet, cfg.MainnetPrivateKey)
	if err != nil {
		return Wallets{}, err
	}

	testnet, err := NewIdentity(NetworkTestnet, cfg.TestnetPrivateKey)
	if err != nil {
		return Wallets{}, err
	}

	return Wallets{Mainnet: mainnet, Testnet: testnet}, nil
}

// ForNetwork selects the identity for a network label. Unknown labels are
// an error rather than a silent mainnet fallback.
func (w Wallets) ForNetwork(network string) (*Identity, error) {
	switch network {
	case NetworkMainnet, "":
		return w.Mainnet, nil
	case NetworkTestnet:
		return w.Testnet, nil
	default:
		return nil, ErrUnknownNetwork
	}
}
