package security

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"boilerplate/internal/security/fernet"
)

// TokenCipher is an authenticated symmetric scheme keyed by the URL-safe
// base64 key produced by DeriveKey.
type TokenCipher interface {
	Encrypt(key, plaintext []byte) (string, error)
	Decrypt(key []byte, token string) ([]byte, error)
}

// Encrypter encrypts and decrypts text with a TokenCipher.
type Encrypter struct {
	cipher TokenCipher
}

// NewEncrypter binds c. A nil cipher produces an Encrypter whose calls fail
// with ErrMissingDependency.
func NewEncrypter(c TokenCipher) *Encrypter {
	return &Encrypter{cipher: c}
}

var defaultEncrypter = NewEncrypter(fernet.Cipher{})

// DeriveKey turns an arbitrary secret into a Fernet key: the SHA-256 of the
// secret, URL-safe base64 encoded.
func DeriveKey(secretKey string) []byte {
	digest := sha256.Sum256([]byte(secretKey))
	key := make([]byte, base64.URLEncoding.EncodedLen(len(digest)))
	base64.URLEncoding.Encode(key, digest[:])
	return key
}

// EncryptText encrypts plainText under a key derived from secretKey.
func (e *Encrypter) EncryptText(plainText, secretKey string) (string, error) {
	if plainText == "" {
		return "", fmt.Errorf("%w: plain text must not be empty", ErrInvalidArgument)
	}
	if secretKey == "" {
		return "", fmt.Errorf("%w: secret key must not be empty", ErrInvalidArgument)
	}
	if e == nil || e.cipher == nil {
		return "", ErrMissingDependency
	}

	token, err := e.cipher.Encrypt(DeriveKey(secretKey), []byte(plainText))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt text: %w", err)
	}
	return token, nil
}

// DecryptText reverses EncryptText. Tampered tokens, tokens produced under
// another secret and malformed tokens all fail with ErrIntegrity.
func (e *Encrypter) DecryptText(token, secretKey string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: token must not be empty", ErrInvalidArgument)
	}
	if secretKey == "" {
		return "", fmt.Errorf("%w: secret key must not be empty", ErrInvalidArgument)
	}
	if e == nil || e.cipher == nil {
		return "", ErrMissingDependency
	}

	plaintext, err := e.cipher.Decrypt(DeriveKey(secretKey), token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return string(plaintext), nil
}

// EncryptText encrypts plainText into a Fernet token.
func EncryptText(plainText, secretKey string) (string, error) {
	return defaultEncrypter.EncryptText(plainText, secretKey)
}

// DecryptText decrypts a Fernet token produced by EncryptText.
func DecryptText(token, secretKey string) (string, error) {
	return defaultEncrypter.DecryptText(token, secretKey)
}
