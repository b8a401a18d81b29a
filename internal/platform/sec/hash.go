// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Admin credentials are stored as hex(PBKDF2-HMAC-SHA256(password, salt))
// with a per-account salt and iteration count, so the cost factor can be
// raised for new accounts without rehashing old ones.
const (
	// DefaultHashIterations is applied to newly created credentials.
	DefaultHashIterations = 120_000

	// hashKeyLength is the derived key size in bytes (256-bit).
	hashKeyLength = 32

	// saltLength is the random salt size in bytes.
	saltLength = 16
)

// GenerateSalt returns a fresh random salt, hex-encoded.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// HashPassword derives the stored hash for a plain-text password.
func HashPassword(plainTextPassword, salt string, iterations int) string {
	derived := pbkdf2.Key([]byte(plainTextPassword), []byte(salt), iterations, hashKeyLength, sha256.New)
	return hex.EncodeToString(derived)
}

// CheckPasswordHash compares a plain-text password against a stored hash in
// constant time.
func CheckPasswordHash(plainTextPassword, salt string, iterations int, storedHash string) bool {
	derived := HashPassword(plainTextPassword, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(storedHash)) == 1
}
