package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite" // SQLite driver for GORM
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/qr"
)

// linkDocument is the row layout of the link_records table.
// Both lookup columns are indexed but deliberately not unique.
type linkDocument struct {
	ID             string `gorm:"primary_key"`
	HashedLinkCode string `gorm:"index:idx_link_records_hashed_link_code;not null"`
	EncryptedLink  string `gorm:"not null"`
	PuzzleCode     string `gorm:"index:idx_link_records_puzzle_code;not null"`
	QRCode         string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

func (linkDocument) TableName() string {
	return "link_records"
}

// SQLiteStore keeps link records in a single SQLite file.
// gorm v1 has no context support, so ctx is only checked before each call.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLiteStore opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// A single connection serialises writers and keeps ":memory:" on one database.
	db.DB().SetMaxOpenConns(1)

	if err = db.AutoMigrate(&linkDocument{}).Error; err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, hashed link.HashedCode, puzzle link.Code) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var count int

	err := s.db.Model(&linkDocument{}).
		Where("hashed_link_code = ? OR puzzle_code = ?", string(hashed), string(puzzle)).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, record *link.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := toDocument(record)
	if err != nil {
		return err
	}

	return s.db.Create(doc).Error
}

func (s *SQLiteStore) FindByHashedLinkCode(ctx context.Context, hashed link.HashedCode) (*link.Record, error) {
	return s.findOne(ctx, "hashed_link_code = ?", string(hashed))
}

func (s *SQLiteStore) FindByPuzzleCode(ctx context.Context, puzzle link.Code) (*link.Record, error) {
	return s.findOne(ctx, "puzzle_code = ?", string(puzzle))
}

func (s *SQLiteStore) findOne(ctx context.Context, query string, arg string) (*link.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc linkDocument

	if err := s.db.Where(query, arg).Order("created_at asc").First(&doc).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return doc.toRecord()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.DB().PingContext(ctx)
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

func toDocument(record *link.Record) (*linkDocument, error) {
	payload, err := json.Marshal(record.QRCode)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}

	return &linkDocument{
		ID:             record.ID,
		HashedLinkCode: string(record.HashedLinkCode),
		EncryptedLink:  record.EncryptedLink,
		PuzzleCode:     string(record.PuzzleCode),
		QRCode:         string(payload),
		CreatedAt:      record.CreatedAt,
	}, nil
}

func (d *linkDocument) toRecord() (*link.Record, error) {
	var payload qr.Payload
	if err := json.Unmarshal([]byte(d.QRCode), &payload); err != nil {
		return nil, fmt.Errorf("decode qr payload: %w", err)
	}

	return &link.Record{
		ID:             d.ID,
		HashedLinkCode: link.HashedCode(d.HashedLinkCode),
		EncryptedLink:  d.EncryptedLink,
		PuzzleCode:     link.Code(d.PuzzleCode),
		QRCode:         payload,
		CreatedAt:      d.CreatedAt,
	}, nil
}

var _ link.Repository = (*SQLiteStore)(nil)
