// Package fernet seals and opens Fernet tokens: AES-128-CBC with PKCS#7
// padding, authenticated by HMAC-SHA256 over the version byte, timestamp,
// IV and ciphertext.
//
// Token layout before URL-safe base64 encoding:
//
//	0x80 | timestamp (8, big-endian seconds) | IV (16) | ciphertext | HMAC (32)
//
// The cryptography is delegated to github.com/fernet/fernet-go. This package
// adds strict decoding, typed errors and an explicit expiry check so callers
// can tell an expired token from a forged one.
package fernet

import (
	"crypto/aes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	fernetgo "github.com/fernet/fernet-go"
)

const (
	// KeySize is the raw key length: a signing half and an encryption half.
	KeySize = 32

	version       = 0x80
	timestampSize = 8
	ivSize        = aes.BlockSize
	macSize       = sha256.Size
	headerSize    = 1 + timestampSize + ivSize

	// maxClockSkew bounds how far in the future a token timestamp may be
	// when decrypting with a TTL.
	maxClockSkew = 60 * time.Second
)

var (
	ErrInvalidKey   = errors.New("fernet: key must be 32 url-safe base64-encoded bytes")
	ErrInvalidToken = errors.New("fernet: invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// Key is a decoded Fernet key.
type Key = fernetgo.Key

// DecodeKey parses the URL-safe base64 form of a key.
func DecodeKey(encoded string) (*Key, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil || len(raw) != KeySize {
		return nil, ErrInvalidKey
	}
	var k Key
	copy(k[:], raw)
	return &k, nil
}

// GenerateKey returns a fresh random key.
func GenerateKey() (*Key, error) {
	var k Key
	if err := k.Generate(); err != nil {
		return nil, fmt.Errorf("fernet: failed to generate key: %w", err)
	}
	return &k, nil
}

// Encrypt seals plaintext into a token stamped with the current time.
func Encrypt(k *Key, plaintext []byte) (string, error) {
	return encryptAt(k, plaintext, time.Now())
}

func encryptAt(k *Key, plaintext []byte, now time.Time) (string, error) {
	tok, err := fernetgo.EncryptAndSignAtTime(plaintext, k, now)
	if err != nil {
		return "", fmt.Errorf("fernet: failed to encrypt: %w", err)
	}
	return string(tok), nil
}

// Decrypt verifies and opens a token without an age limit.
func Decrypt(k *Key, token string) ([]byte, error) {
	return decryptAt(k, token, 0, time.Now())
}

// DecryptWithTTL verifies and opens a token, rejecting tokens older than ttl.
// A ttl of zero disables the age check.
func DecryptWithTTL(k *Key, token string, ttl time.Duration) ([]byte, error) {
	return decryptAt(k, token, ttl, time.Now())
}

// TokenTimestamp returns the creation time embedded in an authentic token.
func TokenTimestamp(k *Key, token string) (time.Time, error) {
	issued, err := inspect(token)
	if err != nil {
		return time.Time{}, err
	}
	if fernetgo.VerifyAndDecrypt([]byte(token), 0, []*fernetgo.Key{k}) == nil {
		return time.Time{}, fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	}
	return issued, nil
}

func decryptAt(k *Key, token string, ttl time.Duration, now time.Time) ([]byte, error) {
	issued, err := inspect(token)
	if err != nil {
		return nil, err
	}

	// Timestamps are only checked when an age limit is set.
	if ttl > 0 {
		if issued.Add(ttl).Before(now) {
			return nil, ErrTokenExpired
		}
		if issued.After(now.Add(maxClockSkew)) {
			return nil, fmt.Errorf("%w: timestamp is in the future", ErrInvalidToken)
		}
	}

	// ttl 0 turns off the library's own wall-clock check.
	plaintext := fernetgo.VerifyAndDecrypt([]byte(token), 0, []*fernetgo.Key{k})
	if plaintext == nil {
		return nil, fmt.Errorf("%w: signature mismatch or bad padding", ErrInvalidToken)
	}
	return plaintext, nil
}

// inspect strictly decodes the token and checks its structure, returning
// the embedded timestamp. It does not authenticate.
func inspect(token string) (time.Time, error) {
	data, err := base64.URLEncoding.Strict().DecodeString(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed encoding", ErrInvalidToken)
	}
	if len(data) < headerSize+aes.BlockSize+macSize {
		return time.Time{}, fmt.Errorf("%w: token too short", ErrInvalidToken)
	}
	if data[0] != version {
		return time.Time{}, fmt.Errorf("%w: unknown version 0x%02x", ErrInvalidToken, data[0])
	}
	if (len(data)-headerSize-macSize)%aes.BlockSize != 0 {
		return time.Time{}, fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrInvalidToken)
	}
	return time.Unix(int64(binary.BigEndian.Uint64(data[1:1+timestampSize])), 0), nil
}

// Cipher adapts the package functions to callers that carry keys in their
// encoded form.
type Cipher struct {
	// TTL, when positive, bounds the age of tokens accepted by Decrypt.
	TTL time.Duration
}

// Encrypt seals plaintext under the encoded key.
func (c Cipher) Encrypt(key, plaintext []byte) (string, error) {
	k, err := DecodeKey(string(key))
	if err != nil {
		return "", err
	}
	return Encrypt(k, plaintext)
}

// Decrypt opens token under the encoded key.
func (c Cipher) Decrypt(key []byte, token string) ([]byte, error) {
	k, err := DecodeKey(string(key))
	if err != nil {
		return nil, err
	}
	return DecryptWithTTL(k, token, c.TTL)
}
