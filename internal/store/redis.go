package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/qr"
)

// RedisStore is a Redis implementation of link.Repository.
// Records live in hashes keyed by hashed link code; a string key maps each
// puzzle code to its hashed link code.
type RedisStore struct {
	client       redis.UniversalClient
	recordPrefix string
	puzzlePrefix string
}

// NewRedisStore creates a Redis-backed link store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client:       client,
		recordPrefix: "link:",
		puzzlePrefix: "puzzle:",
	}
}

func (r *RedisStore) Exists(ctx context.Context, hashed link.HashedCode, puzzle link.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.recordPrefix+string(hashed), r.puzzlePrefix+string(puzzle)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Insert writes the record hash and the puzzle index in one transaction.
// A duplicate key overwrites the earlier record.
func (r *RedisStore) Insert(ctx context.Context, record *link.Record) error {
	fields, err := recordFields(record)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.recordPrefix+string(record.HashedLinkCode), fields)
		pipe.Set(ctx, r.puzzlePrefix+string(record.PuzzleCode), string(record.HashedLinkCode), 0)

		return nil
	})

	return err
}

func (r *RedisStore) FindByHashedLinkCode(ctx context.Context, hashed link.HashedCode) (*link.Record, error) {
	result, err := r.client.HGetAll(ctx, r.recordPrefix+string(hashed)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, link.ErrNotFound
	}

	return recordFromFields(result)
}

func (r *RedisStore) FindByPuzzleCode(ctx context.Context, puzzle link.Code) (*link.Record, error) {
	hashed, err := r.client.Get(ctx, r.puzzlePrefix+string(puzzle)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return r.FindByHashedLinkCode(ctx, link.HashedCode(hashed))
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func recordFields(record *link.Record) (map[string]interface{}, error) {
	payload, err := json.Marshal(record.QRCode)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}

	return map[string]interface{}{
		"id":               record.ID,
		"hashed_link_code": string(record.HashedLinkCode),
		"encrypted_link":   record.EncryptedLink,
		"puzzle_code":      string(record.PuzzleCode),
		"qr_code":          string(payload),
		"created_at":       record.CreatedAt.UnixNano(),
	}, nil
}

func recordFromFields(fields map[string]string) (*link.Record, error) {
	var payload qr.Payload
	if err := json.Unmarshal([]byte(fields["qr_code"]), &payload); err != nil {
		return nil, fmt.Errorf("decode qr payload: %w", err)
	}

	var createdAt time.Time

	if nanos, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		createdAt = time.Unix(0, nanos).UTC()
	}

	return &link.Record{
		ID:             fields["id"],
		HashedLinkCode: link.HashedCode(fields["hashed_link_code"]),
		EncryptedLink:  fields["encrypted_link"],
		PuzzleCode:     link.Code(fields["puzzle_code"]),
		QRCode:         payload,
		CreatedAt:      createdAt,
	}, nil
}

var _ link.Repository = (*RedisStore)(nil)
