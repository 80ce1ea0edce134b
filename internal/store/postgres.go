package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/puzzle-link/internal/link"
)

// PostgresStore is a PostgreSQL implementation of link.Repository.
// The link_records table comes from MigratePostgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Exists(ctx context.Context, hashed link.HashedCode, puzzle link.Code) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM link_records
			WHERE hashed_link_code = $1 OR puzzle_code = $2
		)
	`

	var exists bool

	err := p.pool.QueryRow(ctx, query, string(hashed), string(puzzle)).Scan(&exists)

	return exists, err
}

func (p *PostgresStore) Insert(ctx context.Context, record *link.Record) error {
	query := `
		INSERT INTO link_records (id, hashed_link_code, encrypted_link, puzzle_code, qr_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	payload, err := json.Marshal(record.QRCode)
	if err != nil {
		return fmt.Errorf("encode qr payload: %w", err)
	}

	_, err = p.pool.Exec(ctx, query,
		record.ID,
		string(record.HashedLinkCode),
		record.EncryptedLink,
		string(record.PuzzleCode),
		string(payload),
		record.CreatedAt,
	)

	return err
}

func (p *PostgresStore) FindByHashedLinkCode(ctx context.Context, hashed link.HashedCode) (*link.Record, error) {
	query := `
		SELECT id, hashed_link_code, encrypted_link, puzzle_code, qr_code, created_at
		FROM link_records
		WHERE hashed_link_code = $1
		ORDER BY created_at
		LIMIT 1
	`

	return p.findOne(ctx, query, string(hashed))
}

func (p *PostgresStore) FindByPuzzleCode(ctx context.Context, puzzle link.Code) (*link.Record, error) {
	query := `
		SELECT id, hashed_link_code, encrypted_link, puzzle_code, qr_code, created_at
		FROM link_records
		WHERE puzzle_code = $1
		ORDER BY created_at
		LIMIT 1
	`

	return p.findOne(ctx, query, string(puzzle))
}

func (p *PostgresStore) findOne(ctx context.Context, query, arg string) (*link.Record, error) {
	var (
		record  link.Record
		hashed  string
		puzzle  string
		payload []byte
	)

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&record.ID,
		&hashed,
		&record.EncryptedLink,
		&puzzle,
		&payload,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	if err = json.Unmarshal(payload, &record.QRCode); err != nil {
		return nil, fmt.Errorf("decode qr payload: %w", err)
	}

	record.HashedLinkCode = link.HashedCode(hashed)
	record.PuzzleCode = link.Code(puzzle)

	return &record, nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

var _ link.Repository = (*PostgresStore)(nil)
