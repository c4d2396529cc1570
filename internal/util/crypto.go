package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
)

// HashPassphrase derives a PBKDF2-SHA256 hash and returns it as "salt$hash",
// the format expected in security.passphrase_hash.
func HashPassphrase(passphrase string) (string, error) {
	if passphrase == "" {
		return "", fmt.Errorf("passphrase is empty")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(hash), nil
}

// CheckPassphrase reports whether passphrase matches a stored "salt$hash".
func CheckPassphrase(passphrase, stored string) bool {
	if passphrase == "" || stored == "" {
		return false
	}
	saltStr, hashStr, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltStr)
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(hashStr)
	if err != nil || len(expected) == 0 {
		return false
	}

	hash := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(hash, expected) == 1
}

// ---------- AES-256-GCM for backup files ----------

// deriveKey stretches any configured key string to 32 bytes.
func deriveKey(keyStr string) []byte {
	sum := sha256.Sum256([]byte(keyStr))
	return sum[:]
}

func newGCM(keyStr string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(keyStr))
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aead, nil
}

// EncryptAES seals plaintext and returns nonce+ciphertext.
func EncryptAES(keyStr string, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(keyStr)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptAES opens data produced by EncryptAES.
func DecryptAES(keyStr string, data []byte) ([]byte, error) {
	aead, err := newGCM(keyStr)
	if err != nil {
		return nil, err
	}
	ns := aead.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("cipher too short")
	}
	plaintext, err := aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}
