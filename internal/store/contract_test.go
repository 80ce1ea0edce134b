package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(linkCode, puzzle string) *link.Record {
	return &link.Record{
		ID:             uuid.NewString(),
		HashedLinkCode: link.Digest(link.Code(linkCode)),
		EncryptedLink:  "3166aeeed82e5ffa2e60fc27d004ea5934bb6aeccb568244ced27632b39476e0",
		PuzzleCode:     link.Code(puzzle),
		QRCode:         qr.Payload{{1, 1, 0}, {0, 1, 0}, {1, 0, 1}},
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

// testRepository runs the behaviour every link.Repository must share.
// Codes are randomised so runs against shared servers do not interfere.
func testRepository(t *testing.T, repo link.Repository) {
	t.Helper()

	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	t.Run("insert and find by hashed link code", func(t *testing.T) {
		record := newRecord("lnk1"+suffix, "pzl1"+suffix)

		require.NoError(t, repo.Insert(ctx, record))

		got, err := repo.FindByHashedLinkCode(ctx, record.HashedLinkCode)

		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.HashedLinkCode, got.HashedLinkCode)
		assert.Equal(t, record.EncryptedLink, got.EncryptedLink)
		assert.Equal(t, record.PuzzleCode, got.PuzzleCode)
		assert.Equal(t, record.QRCode, got.QRCode)
		assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("insert and find by puzzle code", func(t *testing.T) {
		record := newRecord("lnk2"+suffix, "pzl2"+suffix)

		require.NoError(t, repo.Insert(ctx, record))

		got, err := repo.FindByPuzzleCode(ctx, record.PuzzleCode)

		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.QRCode, got.QRCode)
	})

	t.Run("exists matches either key", func(t *testing.T) {
		record := newRecord("lnk3"+suffix, "pzl3"+suffix)
		require.NoError(t, repo.Insert(ctx, record))

		byHashed, err := repo.Exists(ctx, record.HashedLinkCode, link.Code("unused"+suffix))
		require.NoError(t, err)
		assert.True(t, byHashed)

		byPuzzle, err := repo.Exists(ctx, link.Digest("unused"+link.Code(suffix)), record.PuzzleCode)
		require.NoError(t, err)
		assert.True(t, byPuzzle)

		neither, err := repo.Exists(ctx, link.Digest("other"+link.Code(suffix)), "other"+link.Code(suffix))
		require.NoError(t, err)
		assert.False(t, neither)
	})

	t.Run("a puzzle code is not a hashed link code", func(t *testing.T) {
		record := newRecord("lnk4"+suffix, "pzl4"+suffix)
		require.NoError(t, repo.Insert(ctx, record))

		// The plaintext link code is never stored, so looking it up as a
		// puzzle code finds nothing.
		_, err := repo.FindByPuzzleCode(ctx, link.Code("lnk4"+suffix))

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("unknown keys return ErrNotFound", func(t *testing.T) {
		byHashed, err := repo.FindByHashedLinkCode(ctx, link.Digest("doesNotExist"))
		assert.Nil(t, byHashed)
		assert.ErrorIs(t, err, link.ErrNotFound)

		byPuzzle, err := repo.FindByPuzzleCode(ctx, "doesNotExist")
		assert.Nil(t, byPuzzle)
		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}
