// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// keyDerivationSalt binds derived keys to this application.
	keyDerivationSalt = "guidewiki-server-keys"

	// derivedKeySize is the size of a derived key in bytes (256 bits).
	derivedKeySize = 32
)

// Key purposes passed as the HKDF info parameter.
const (
	KeyPurposeContextCookie = "browser-context-cookie-v1"
)

// ErrEmptySecret is returned when key derivation is attempted without a secret.
var ErrEmptySecret = errors.New("session secret cannot be empty")

// DeriveKey derives a 256-bit key for the given purpose from the session secret
// using HKDF-SHA256. Different purposes yield independent keys from one secret.
func DeriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	reader := hkdf.New(sha256.New, []byte(secret), []byte(keyDerivationSalt), []byte(purpose))
	key := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
