package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultSaltLength is the number of random bytes in a generated salt.
	DefaultSaltLength = 16

	// DefaultIterations is the PBKDF2 work factor used by HashText.
	DefaultIterations = 100_000

	hashKeyLength = sha256.Size
	hashSeparator = "$"
)

// GenerateSalt returns length random bytes encoded as URL-safe base64.
func GenerateSalt(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: salt length must be positive, got %d", ErrInvalidArgument, length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random salt: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

type hashOptions struct {
	salt       string
	iterations int
}

// HashOption customises HashText.
type HashOption func(*hashOptions)

// WithSalt hashes with a caller-supplied salt. An empty salt behaves as if
// the option was not given.
func WithSalt(salt string) HashOption {
	return func(o *hashOptions) {
		o.salt = salt
	}
}

// WithIterations overrides the PBKDF2 iteration count.
func WithIterations(iterations int) HashOption {
	return func(o *hashOptions) {
		o.iterations = iterations
	}
}

// HashText hashes text with PBKDF2-HMAC-SHA256 and returns the record
// "salt$iterations$hash". The salt bytes fed to PBKDF2 are the salt text
// itself, so the record is reproducible from its own fields.
func HashText(text string, opts ...HashOption) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: text to hash must not be empty", ErrInvalidArgument)
	}

	o := hashOptions{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(&o)
	}
	if o.iterations <= 0 {
		return "", fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidArgument, o.iterations)
	}

	if strings.Contains(o.salt, hashSeparator) {
		return "", fmt.Errorf("%w: salt must not contain %q", ErrInvalidArgument, hashSeparator)
	}
	if o.salt == "" {
		salt, err := GenerateSalt(DefaultSaltLength)
		if err != nil {
			return "", err
		}
		o.salt = salt
	}

	return encodeRecord(text, o.salt, o.iterations), nil
}

// VerifyHash reports whether text hashes to storedHash. A wrong text yields
// false with a nil error; only a structurally malformed record is an error.
func VerifyHash(text, storedHash string) (bool, error) {
	parts := strings.Split(storedHash, hashSeparator)
	if len(parts) != 3 {
		return false, fmt.Errorf("%w: expected 'salt$iterations$hash'", ErrInvalidFormat)
	}

	salt, iterationsField, digest := parts[0], parts[1], parts[2]
	iterations, err := strconv.Atoi(iterationsField)
	if err != nil {
		return false, fmt.Errorf("%w: iteration count %q is not an integer", ErrInvalidFormat, iterationsField)
	}
	if iterations <= 0 {
		return false, fmt.Errorf("%w: iteration count must be positive, got %d", ErrInvalidFormat, iterations)
	}
	if text == "" {
		return false, fmt.Errorf("%w: text to verify must not be empty", ErrInvalidArgument)
	}

	expected := strings.Join([]string{salt, strconv.Itoa(iterations), digest}, hashSeparator)
	calculated := encodeRecord(text, salt, iterations)

	return subtle.ConstantTimeCompare([]byte(calculated), []byte(expected)) == 1, nil
}

func encodeRecord(text, salt string, iterations int) string {
	dk := pbkdf2.Key([]byte(text), []byte(salt), iterations, hashKeyLength, sha256.New)
	return strings.Join([]string{
		salt,
		strconv.Itoa(iterations),
		base64.URLEncoding.EncodeToString(dk),
	}, hashSeparator)
}
