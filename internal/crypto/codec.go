// Package crypto provides the at-rest codec for account numbers. Encryption
// is deterministic: equal plaintexts produce equal ciphertexts, so the
// repository's existence check and the database unique constraint on the
// account_number column keep working over ciphertext.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/MOzil-10/banking-api/internal/domain"
)

const KeyLength = 16

type Codec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type AESCodec struct {
	block cipher.Block
}

func NewAESCodec(key []byte) (*AESCodec, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("NewAESCodec: key must be %d bytes, got %d", KeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("NewAESCodec: %w", err)
	}
	return &AESCodec{block: block}, nil
}

func (c *AESCodec) Encrypt(plaintext string) (string, error) {
	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		c.block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *AESCodec) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("Decrypt: decode: %w", domain.ErrEncryption)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("Decrypt: ciphertext length %d: %w", len(raw), domain.ErrEncryption)
	}

	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += aes.BlockSize {
		c.block.Decrypt(out[i:i+aes.BlockSize], raw[i:i+aes.BlockSize])
	}

	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("Decrypt: %w", domain.ErrEncryption)
	}
	return string(plain), nil
}

// PKCS#7 padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("unpad: invalid padding length %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("unpad: corrupt padding")
		}
	}
	return data[:len(data)-n], nil
}
