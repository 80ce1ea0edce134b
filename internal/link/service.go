package link

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/puzzle-link/internal/events"
	"github.com/serroba/puzzle-link/internal/messaging"
	"github.com/serroba/puzzle-link/internal/qr"
	"github.com/serroba/puzzle-link/internal/secure"
	"go.uber.org/zap"
)

// QREncoder renders a short-link target as a QR payload.
type QREncoder interface {
	Encode(content string) (qr.Payload, error)
}

// Service creates and resolves links. It keeps no per-request state.
type Service struct {
	records Repository
	codes   *Generator
	qr      QREncoder
	baseURL string
	publish messaging.Publish[events.LinkCreatedEvent]
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a link service.
func NewService(
	records Repository,
	codes *Generator,
	encoder QREncoder,
	baseURL string,
	publish messaging.Publish[events.LinkCreatedEvent],
	logger *zap.Logger,
) *Service {
	return &Service{
		records: records,
		codes:   codes,
		qr:      encoder,
		baseURL: baseURL,
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

// Target is the string encoded in a link's QR payload.
func Target(baseURL string, code Code) string {
	return baseURL + "/#" + string(code)
}

// CreateLink stores rawURL under a fresh link code and returns the QR payload
// pointing at it together with a fresh puzzle code.
func (s *Service) CreateLink(ctx context.Context, rawURL string) (*Created, error) {
	linkCode, hashed, err := s.codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	// The link code is not stored yet, so Exists cannot see it.
	var puzzleCode Code
	for puzzleCode == "" || puzzleCode == linkCode {
		if puzzleCode, _, err = s.codes.Generate(ctx); err != nil {
			return nil, err
		}
	}

	encrypted, err := secure.Encrypt(string(linkCode), rawURL)
	if err != nil {
		return nil, fmt.Errorf("encrypt link: %w", err)
	}

	payload, err := s.qr.Encode(Target(s.baseURL, linkCode))
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:             uuid.NewString(),
		HashedLinkCode: hashed,
		EncryptedLink:  encrypted,
		PuzzleCode:     puzzleCode,
		QRCode:         payload,
		CreatedAt:      s.now().UTC(),
	}

	if err = s.records.Insert(ctx, record); err != nil {
		s.logger.Error("failed to insert link record", zap.String("id", record.ID), zap.Error(err))

		return nil, fmt.Errorf("%w: insert: %w", ErrStorage, err)
	}

	s.announce(ctx, record)

	return &Created{QRCode: payload, PuzzleCode: puzzleCode}, nil
}

func (s *Service) announce(ctx context.Context, record *Record) {
	event := &events.LinkCreatedEvent{
		ID:             record.ID,
		HashedLinkCode: string(record.HashedLinkCode),
		EncryptedLink:  record.EncryptedLink,
		PuzzleCode:     string(record.PuzzleCode),
		QRCode:         record.QRCode,
		CreatedAt:      record.CreatedAt,
	}

	if err := s.publish(ctx, event); err != nil {
		s.logger.Error("failed to publish link created event",
			zap.String("id", record.ID),
			zap.Error(err),
		)
	}
}

// ResolveLink returns the URL stored under linkCode. Unknown codes and codes
// that do not decrypt the stored link both yield ErrNotFound.
func (s *Service) ResolveLink(ctx context.Context, linkCode Code) (string, error) {
	record, err := s.records.FindByHashedLinkCode(ctx, Digest(linkCode))
	if err != nil {
		return "", s.lookupError(err)
	}

	url, err := secure.Decrypt(string(linkCode), record.EncryptedLink)
	if err != nil {
		s.logger.Warn("stored link did not decrypt", zap.String("id", record.ID), zap.Error(err))

		return "", ErrNotFound
	}

	return url, nil
}

// ResolvePuzzle returns the QR payload stored under puzzleCode.
func (s *Service) ResolvePuzzle(ctx context.Context, puzzleCode Code) (qr.Payload, error) {
	record, err := s.records.FindByPuzzleCode(ctx, puzzleCode)
	if err != nil {
		return nil, s.lookupError(err)
	}

	return record.QRCode, nil
}

func (s *Service) lookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	s.logger.Error("link lookup failed", zap.Error(err))

	return fmt.Errorf("%w: lookup: %w", ErrStorage, err)
}
