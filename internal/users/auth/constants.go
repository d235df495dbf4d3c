// Copyright (c) 2026 QuickShift. All rights reserved.

package auth

// # Authentication Constraints

const (
	// RefreshTokenLength is the byte length of the random secure token.
	// 32 bytes gives 256 bits of entropy, making offline guessing hopeless.
	RefreshTokenLength = 32
)
