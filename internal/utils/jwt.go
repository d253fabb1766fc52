package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateNonceToken creates the signed HMAC-SHA256 nonce used by the
// identity handshake. The token binds the caller's identity key (subject)
// to this node (issuer, the server base URL) for nonceDuration.
//
// All parameters are required; an error is returned if any are empty or
// zero, or if signing fails.
func GenerateNonceToken(issuer, identityKey string, nonceDuration time.Duration, signKey []byte) (string, error) {
	if issuer == "" || identityKey == "" || nonceDuration == 0 || len(signKey) == 0 {
		return "", errors.New("invalid params for generating nonce token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   identityKey,
		ExpiresAt: jwt.NewNumericDate(now.Add(nonceDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(signKey)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing nonce token: %w", err)
	}

	return tokenString, nil
}

// ValidateNonceToken verifies a nonce token's signature, issuer, and expiry,
// and checks that its subject matches the identity key the caller presented.
//
// A nonce issued to one identity key is not accepted for another.
func ValidateNonceToken(tokenString, identityKey, issuer string, signKey []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return signKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("error occurred validating nonce token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return fmt.Errorf("error occurred getting subject from nonce token: %w", err)
	}
	if subject != identityKey {
		return errors.New("nonce token subject does not match identity key")
	}

	return nil
}
