package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the required size for the master encryption key (256-bit).
const KeySize = chacha20poly1305.KeySize

var (
	ErrInvalidKeySize     = errors.New("vault: key must be 32 bytes")
	ErrCiphertextTooShort = errors.New("vault: ciphertext too short")
)

// Decrypter turns a stored ciphertext back into the plaintext secret.
type Decrypter interface {
	DecryptString(ciphertext string) (string, error)
}

// Vault encrypts and decrypts API keys with XChaCha20-Poly1305.
// Stored format: base64(std) of [24-byte nonce][ciphertext+tag].
type Vault struct {
	masterKey []byte
}

// NewVault creates a Vault with the given 32-byte master key.
func NewVault(masterKey []byte) (*Vault, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKeySize
	}
	keyCopy := make([]byte, KeySize)
	copy(keyCopy, masterKey)
	return &Vault{masterKey: keyCopy}, nil
}

// NewVaultFromHex creates a Vault from a hex-encoded master key.
func NewVaultFromHex(hexKey string) (*Vault, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("vault: master key is not valid hex: %w", err)
	}
	return NewVault(key)
}

// EncryptString encrypts plaintext and returns the base64 storage form.
func (v *Vault) EncryptString(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(v.masterKey)
	if err != nil {
		return "", fmt.Errorf("vault: failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("vault: failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString.
func (v *Vault) DecryptString(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertext))
	if err != nil {
		return "", fmt.Errorf("vault: ciphertext is not valid base64: %w", err)
	}

	aead, err := chacha20poly1305.NewX(v.masterKey)
	if err != nil {
		return "", fmt.Errorf("vault: failed to create cipher: %w", err)
	}

	nonceSize := aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrCiphertextTooShort
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("vault: decryption failed: %w", err)
	}
	return string(plaintext), nil
}
