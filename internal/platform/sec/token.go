// Copyright (c) 2026 QuickShift. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random hex-encoded token.
//
// # Parameters
//   - byteLength: Number of random bytes (32 bytes = 256 bits of entropy).
//
// The returned string is twice byteLength characters long.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 hex digest of an opaque token.
//
// Refresh tokens are stored hashed so a storage leak does not hand an
// attacker usable credentials. SHA-256 (not bcrypt) is sufficient because
// the input already carries full random entropy.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
