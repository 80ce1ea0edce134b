package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/serroba/puzzle-link/internal/qr"
	"go.uber.org/zap"
)

// journalDocument is one line of the journal, in document-collection layout.
type journalDocument struct {
	HashedLinkCode string     `json:"hashedLinkCode"`
	EncryptedLink  string     `json:"encryptedLink"`
	PuzzleCode     string     `json:"puzzleCode"`
	QRCode         qr.Payload `json:"qrCode"`
	ID             string     `json:"_id"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Journal appends created link records to a file, one JSON document per line.
type Journal struct {
	mu     sync.Mutex
	file   *os.File
	logger *zap.Logger
}

// OpenJournal opens path for appending, creating it if needed.
func OpenJournal(path string, logger *zap.Logger) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &Journal{file: file, logger: logger}, nil
}

// Append writes event as one line and syncs the file.
// Its signature matches messaging.Handler.
func (j *Journal) Append(_ context.Context, event *LinkCreatedEvent) error {
	line, err := json.Marshal(journalDocument{
		HashedLinkCode: event.HashedLinkCode,
		EncryptedLink:  event.EncryptedLink,
		PuzzleCode:     event.PuzzleCode,
		QRCode:         event.QRCode,
		ID:             event.ID,
		CreatedAt:      event.CreatedAt,
	})
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err = j.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}

	if err = j.file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}

	j.logger.Debug("record journaled", zap.String("id", event.ID))

	return nil
}

// Shutdown closes the journal file.
func (j *Journal) Shutdown() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.file.Close()
}
