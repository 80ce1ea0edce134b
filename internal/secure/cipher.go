package secure

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5" //nolint:gosec // key derivation must match the stored ciphertext format
	"encoding/hex"
	"errors"
)

const (
	keySize = 32
	ivSize  = aes.BlockSize
)

// ErrDecryption is returned when a ciphertext cannot be opened with the given key.
var ErrDecryption = errors.New("bad key or corrupt ciphertext")

// Encrypt encrypts plaintext with AES-256-CBC under a key and IV derived from key.
// The result is lowercase hex. No salt or IV is stored next to the ciphertext:
// the same key always derives the same key material.
func Encrypt(key, plaintext string) (string, error) {
	block, iv, err := newBlock(key)
	if err != nil {
		return "", err
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It returns ErrDecryption when ciphertext is not valid hex,
// is not a whole number of blocks, or does not unpad cleanly under key.
func Decrypt(key, ciphertext string) (string, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil || len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", ErrDecryption
	}

	block, iv, err := newBlock(key)
	if err != nil {
		return "", err
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, raw)

	plain, ok := unpad(out, aes.BlockSize)
	if !ok {
		return "", ErrDecryption
	}

	return string(plain), nil
}

func newBlock(key string) (cipher.Block, []byte, error) {
	derivedKey, iv := deriveKeyIV([]byte(key))

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, nil, err
	}

	return block, iv, nil
}

// deriveKeyIV is OpenSSL's EVP_BytesToKey with MD5, one round and no salt.
func deriveKeyIV(password []byte) ([]byte, []byte) {
	var (
		material []byte
		prev     []byte
	)

	for len(material) < keySize+ivSize {
		h := md5.New() //nolint:gosec // see import
		h.Write(prev)
		h.Write(password)
		prev = h.Sum(nil)
		material = append(material, prev...)
	}

	return material[:keySize], material[keySize : keySize+ivSize]
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize

	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}

	return data[:len(data)-n], true
}
