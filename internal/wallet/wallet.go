// Package wallet implements the node's cryptographic identity: a P-256
// key pair used to sign challenges, verify caller identity proofs, and
// decrypt certificate fields encrypted to the node.
//
// The node holds two identities, one per network (mainnet, testnet). Both
// are constructed once at startup and are safe for concurrent use; they
// carry no per-request state.
package wallet

import (
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// NetworkMainnet is the primary network. The payment gate always
	// operates against the mainnet identity.
	NetworkMainnet = "mainnet"
	// NetworkTestnet is the test network.
	NetworkTestnet = "testnet"
)

// kdf info strings. Changing either invalidates all existing ciphertexts
// and nonces, so they are fixed.
var (
	fieldEncryptionInfo = []byte("cars certificate field v1")
	nonceSigningInfo    = []byte("cars nonce signing v1")
)

// Identity is one network-specific signing identity. All methods are
// read-only with respect to the receiver and safe for concurrent use.
type Identity struct {
	network     string
	signKey     *ecdsa.PrivateKey
	ecdhKey     *ecdh.PrivateKey
	identityKey string
	nonceKey    []byte
}

// NewIdentity constructs the signing identity for a network from a
// hex-encoded 32-byte private scalar.
func NewIdentity(network, privateKeyHex string) (*Identity, error) {
	keyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("error decoding private key hex: %w", err)
	}
	if len(keyBytes) != 32 {
		return nil, ErrInvalidPrivateKey
	}

	curve := elliptic.P256()
	d := new(big.Int).SetBytes(keyBytes)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, ErrInvalidPrivateKey
	}

	signKey := new(ecdsa.PrivateKey)
	signKey.Curve = curve
	signKey.D = d
	signKey.X, signKey.Y = curve.ScalarBaseMult(keyBytes)

	ecdhKey, err := signKey.ECDH()
	if err != nil {
		return nil, fmt.Errorf("error deriving ECDH key: %w", err)
	}

	nonceKey := make([]byte, 32)
	kdf := hkdf.New(sha256.New, keyBytes, nil, nonceSigningInfo)
	if _, err := io.ReadFull(kdf, nonceKey); err != nil {
		return nil, fmt.Errorf("error deriving nonce signing key: %w", err)
	}

	return &Identity{
		network:     network,
		signKey:     signKey,
		ecdhKey:     ecdhKey,
		identityKey: hex.EncodeToString(elliptic.MarshalCompressed(curve, signKey.X, signKey.Y)),
		nonceKey:    nonceKey,
	}, nil
}

// Network returns the network label this identity serves.
func (id *Identity) Network() string {
	return id.network
}

// IdentityKey returns the stable public identifier of this identity: the
// hex-encoded compressed public point.
func (id *Identity) IdentityKey() string {
	return id.identityKey
}

// NonceSigningKey returns the HMAC key used to sign authentication nonces.
// It is derived from the private scalar, so nonces issued by one node are
// rejected by every other.
func (id *Identity) NonceSigningKey() []byte {
	return id.nonceKey
}

// Sign produces an ASN.1 ECDSA signature over SHA-256(message).
func (id *Identity) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, id.signKey, digest[:])
	if err != nil {
		return nil, fmt.Errorf("error signing message: %w", err)
	}
	return sig, nil
}

// Verify checks an ASN.1 ECDSA signature over SHA-256(message) against a
// counterparty's identity key. It returns ErrSignatureInvalid when the
// signature does not verify.
func (id *Identity) Verify(counterpartyKey string, message, signature []byte) error {
	pub, err := ParsePublicKey(counterpartyKey)
	if err != nil {
		return err
	}

	digest := sha256.Sum256(message)
	if !ecdsa.VerifyASN1(pub, digest[:], signature) {
		return ErrSignatureInvalid
	}

	return nil
}

// EncryptField encrypts a certificate field value for the given
// counterparty. The result is nonce || ChaCha20-Poly1305 ciphertext under a
// key derived from the ECDH shared secret of the two identities.
func (id *Identity) EncryptField(counterpartyKey string, plaintext []byte) ([]byte, error) {
	aead, err := id.fieldCipher(counterpartyKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("error generating field nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptField reverses [Identity.EncryptField] for a ciphertext produced
// by (or for) the given counterparty.
func (id *Identity) DecryptField(counterpartyKey string, ciphertext []byte) ([]byte, error) {
	aead, err := id.fieldCipher(counterpartyKey)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}

	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("error decrypting field: %w", err)
	}

	return plaintext, nil
}

// fieldCipher builds the AEAD for field encryption between this identity
// and a counterparty: ECDH shared secret → HKDF-SHA256 → ChaCha20-Poly1305.
// Both sides derive the same cipher.
func (id *Identity) fieldCipher(counterpartyKey string) (cipher.AEAD, error) {
	pub, err := ParsePublicKey(counterpartyKey)
	if err != nil {
		return nil, err
	}

	ecdhPub, err := pub.ECDH()
	if err != nil {
		return nil, fmt.Errorf("error converting counterparty key: %w", err)
	}

	secret, err := id.ecdhKey.ECDH(ecdhPub)
	if err != nil {
		return nil, fmt.Errorf("error computing shared secret: %w", err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, secret, nil, fieldEncryptionInfo)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("error deriving field key: %w", err)
	}

	return chacha20poly1305.New(key)
}

// ParsePublicKey decodes a hex-encoded compressed P-256 point into an
// ECDSA public key.
func ParsePublicKey(identityKey string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(identityKey)
	if err != nil {
		return nil, fmt.Errorf("error decoding identity key hex: %w", err)
	}

	x, y := elliptic.UnmarshalCompressed(elliptic.P256(), raw)
	if x == nil {
		return nil, ErrInvalidIdentityKey
	}

	return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
}
