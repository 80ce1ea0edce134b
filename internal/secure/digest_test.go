package secure_test

import (
	"testing"

	"github.com/serroba/puzzle-link/internal/secure"
	"github.com/stretchr/testify/assert"
)

func TestDigest(t *testing.T) {
	t.Run("matches sha256 base64", func(t *testing.T) {
		assert.Equal(t, "3TDlRUNO1vk53YTPgczzpscqQV7vNXfXw5qJdfRgOAQ=", secure.Digest(testKey))
	})

	t.Run("has fixed length", func(t *testing.T) {
		assert.Len(t, secure.Digest(""), 44)
		assert.Len(t, secure.Digest(testPlaintext), 44)
	})

	t.Run("never contains the input", func(t *testing.T) {
		assert.NotContains(t, secure.Digest(testKey), testKey)
	})
}
