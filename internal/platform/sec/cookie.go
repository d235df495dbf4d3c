// Copyright (c) 2026 QuickShift. All rights reserved.

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// # Signed Cookie Values

// The access-token cookie is integrity-protected: the server refuses any
// value it did not mint itself. The format is "<value>.<base64url(mac)>"
// where mac = HMAC-SHA256(secret, value). The refresh-token cookie is
// deliberately NOT signed — its value is opaque and only meaningful after a
// server-side lookup.

// CookieSigner signs and verifies cookie values with a server-held secret.
type CookieSigner struct {
	secret []byte
}

// NewCookieSigner creates a signer from the cookie-signing secret.
func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Sign returns the signed representation of a cookie value.
func (signer *CookieSigner) Sign(value string) string {
	mac := hmac.New(sha256.New, signer.secret)
	mac.Write([]byte(value))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return value + "." + signature
}

// Verify validates a signed cookie value and returns the original value.
//
// # Returns
//   - The embedded value and true when the signature checks out.
//   - "" and false for malformed or tampered values.
func (signer *CookieSigner) Verify(signedValue string) (string, bool) {
	separator := strings.LastIndexByte(signedValue, '.')
	if separator < 0 {
		return "", false
	}

	value := signedValue[:separator]
	signature := signedValue[separator+1:]

	expected, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return "", false
	}

	mac := hmac.New(sha256.New, signer.secret)
	mac.Write([]byte(value))

	if !hmac.Equal(expected, mac.Sum(nil)) {
		return "", false
	}

	return value, true
}
