// Package link binds a long URL to a secret link code and a public puzzle code.
package link

import (
	"time"

	"github.com/serroba/puzzle-link/internal/qr"
)

// Code is a plaintext random code drawn from the code alphabet.
type Code string

// HashedCode is the digest of a link code, the only form of it that is stored.
type HashedCode string

// Record is one persisted short link. It is immutable once inserted.
type Record struct {
	ID             string
	HashedLinkCode HashedCode
	EncryptedLink  string
	PuzzleCode     Code
	QRCode         qr.Payload
	CreatedAt      time.Time
}

// Created is what CreateLink hands back. The link code only travels inside
// the QR payload.
type Created struct {
	QRCode     qr.Payload
	PuzzleCode Code
}
