// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

package wallet

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Certificate is a signed attestation from a certifier binding a subject
// identity key to one or more encrypted claim fields. Field values are
// base64-encoded ciphertexts decryptable by the node via
// [Identity.DecryptField] with the subject as counterparty.
type Certificate struct {
	Type         string            `json:"type"`
	Certifier    string            `json:"certifier"`
	Subject      string            `json:"subject"`
	SerialNumber string            `json:"serialNumber"`
	Fields       map[string]string `json:"fields"`
	Signature    string            `json:"signature"`
}

// SigningPayload returns the canonical byte string the certifier signs:
// type, certifier, subject, serial number, then fields in lexicographic
// name order, newline-separated. Field values are the ciphertexts, so the
// signature also covers the encrypted content.
func (c *Certificate) SigningPayload() []byte {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(c.Type)
	b.WriteByte('\n')
	b.WriteString(c.Certifier)
	b.WriteByte('\n')
	b.WriteString(c.Subject)
	b.WriteByte('\n')
	b.WriteString(c.SerialNumber)
	for _, name := range names {
		b.WriteByte('\n')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(c.Fields[name])
	}

	return []byte(b.String())
}

// VerifySignature checks the certifier's signature over the canonical
// payload.
func (c *Certificate) VerifySignature(verifier *Identity) error {
	sig, err := base64.StdEncoding.DecodeString(c.Signature)
	if err != nil {
		return fmt.Errorf("error decoding certificate signature: %w", err)
	}

	return verifier.Verify(c.Certifier, c.SigningPayload(), sig)
}

// DecodeCertificates parses the base64-encoded JSON array carried in the
// certificates header of an authenticated request.
func DecodeCertificates(headerValue string) ([]Certificate, error) {
	raw, err := base64.StdEncoding.DecodeString(headerValue)
	if err != nil {
		return nil, fmt.Errorf("error decoding certificates header: %w", err)
	}

	var certs []Certificate
	if err := json.Unmarshal(raw, &certs); err != nil {
		return nil, fmt.Errorf("error unmarshaling certificates: %w", err)
	}

	return certs, nil
}

// EncodeCertificates is the inverse of [DecodeCertificates]. It is used by
// clients and tests to build the certificates header.
func EncodeCertificates(certs []Certificate) (string, error) {
	raw, err := json.Marshal(certs)
	if err != nil {
		return "", fmt.Errorf("error marshaling certificates: %w", err)
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

// VerifiedCertificate is one certificate that passed the trust checks,
// with its claim fields decrypted.
type VerifiedCertificate struct {
	Certifier string
	Type      string
	Fields    map[string]string
}

// VerifiedIdentity is the per-request, immutable result of identity
// verification: the caller's identity key plus the decoded certificates it
// presented. It is produced by the auth middleware, placed in the request
// context, and read by the identity binder and handlers.
type VerifiedIdentity struct {
	IdentityKey  string
	Network      string
	Certificates []VerifiedCertificate
}
