package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/scrypt"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

const (
	// SaltSize is the length of the random salt prepended to every ciphertext.
	SaltSize = 16

	// IVSize is the length of the CBC initialization vector.
	IVSize = aes.BlockSize

	// KeySize selects AES-256.
	KeySize = 32

	// scrypt cost parameters.
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// Encrypt seals plaintext with a key derived from password. The result is
// salt || iv || ciphertext, so it can be decrypted without any other input.
// Every call uses a fresh salt and IV.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("%w: content is empty", kerrors.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", kerrors.ErrValidation)
	}

	salt, err := randomBytes(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	iv, err := randomBytes(IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, SaltSize+IVSize+len(padded))
	copy(out, salt)
	copy(out[SaltSize:], iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[SaltSize+IVSize:], padded)
	return out, nil
}

// Decrypt opens data produced by Encrypt. A wrong password and damaged
// bytes both yield ErrDecryptionFailed; CBC cannot tell them apart.
func Decrypt(data []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", kerrors.ErrValidation)
	}

	body := len(data) - SaltSize - IVSize
	if body < aes.BlockSize || body%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext has invalid length %d", kerrors.ErrDecryptionFailed, len(data))
	}

	salt := data[:SaltSize]
	iv := data[SaltSize : SaltSize+IVSize]

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plain := make([]byte, body)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data[SaltSize+IVSize:])

	plain, err = unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptionFailed, err)
	}
	if len(plain) == 0 {
		return nil, fmt.Errorf("%w: decrypted content is empty", kerrors.ErrDecryptionFailed)
	}
	return plain, nil
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// pad applies PKCS#7 padding.
func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 || len(data)%size != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
