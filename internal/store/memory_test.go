package store_test

import (
	"context"
	"testing"

	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	testRepository(t, store.NewMemoryStore())
}

func TestMemoryStore_Insert(t *testing.T) {
	t.Run("stores a copy", func(t *testing.T) {
		s := store.NewMemoryStore()
		record := newRecord("Ab3dEf9H", "PuzZle01")

		require.NoError(t, s.Insert(context.Background(), record))
		record.EncryptedLink = "changed"

		got, err := s.FindByPuzzleCode(context.Background(), "PuzZle01")

		require.NoError(t, err)
		assert.NotEqual(t, "changed", got.EncryptedLink)
	})

	t.Run("returns copies", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Insert(context.Background(), newRecord("Ab3dEf9H", "PuzZle01")))

		got, _ := s.FindByPuzzleCode(context.Background(), "PuzZle01")
		got.EncryptedLink = "changed"

		again, _ := s.FindByPuzzleCode(context.Background(), "PuzZle01")
		assert.NotEqual(t, "changed", again.EncryptedLink)
	})

	t.Run("keeps duplicates and answers with the first", func(t *testing.T) {
		s := store.NewMemoryStore()
		first := newRecord("Ab3dEf9H", "PuzZle01")
		second := newRecord("Ab3dEf9H", "PuzZle01")

		require.NoError(t, s.Insert(context.Background(), first))
		require.NoError(t, s.Insert(context.Background(), second))

		got, err := s.FindByHashedLinkCode(context.Background(), link.Digest("Ab3dEf9H"))

		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Len(t, s.All(), 2)
	})
}

func TestMemoryStore_Ping(t *testing.T) {
	assert.NoError(t, store.NewMemoryStore().Ping(context.Background()))
}
