// Package events defines link lifecycle events and their consumers.
package events

import (
	"time"

	"github.com/serroba/puzzle-link/internal/qr"
)

// TopicLinkCreated carries LinkCreatedEvent.
const TopicLinkCreated = "link.created"

// LinkCreatedEvent is published after a record was persisted. It holds the
// stored record only: never the plaintext link code nor the URL.
type LinkCreatedEvent struct {
	ID             string     `json:"id"`
	HashedLinkCode string     `json:"hashedLinkCode"`
	EncryptedLink  string     `json:"encryptedLink"`
	PuzzleCode     string     `json:"puzzleCode"`
	QRCode         qr.Payload `json:"qrCode"`
	CreatedAt      time.Time  `json:"createdAt"`
}
