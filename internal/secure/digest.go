// Package secure holds the reversible link cipher and the one-way code digest.
package secure

import (
	"crypto/sha256"
	"encoding/base64"
)

// Digest returns the base64-encoded SHA-256 of value.
func Digest(value string) string {
	h := sha256.Sum256([]byte(value))

	return base64.StdEncoding.EncodeToString(h[:])
}
