package fernet

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vectorKey   = "cw_0x689RpI-jtRR7oE8h_eQsKImvJapLeSbXpwF4e4="
	vectorToken = "gAAAAAAdwJ6wAAECAwQFBgcICQoLDA0ODy021cpGVWKZ_eEwCGM4BLLF_5CV9dOPmrhuVUPgJobwOz7JcbmrR64jVmpU4IwqDA=="
)

var vectorTime = time.Unix(499162800, 0)

func TestEncryptAt_EmbedsTimestamp(t *testing.T) {
	k, err := DecodeKey(vectorKey)
	require.NoError(t, err)

	token, err := encryptAt(k, []byte("hello"), vectorTime)
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, byte(version), raw[0])
	// same key, version and timestamp as the reference token; only the IV differs
	assert.Equal(t, vectorToken[:12], token[:12])

	issued, err := TokenTimestamp(k, token)
	require.NoError(t, err)
	assert.Equal(t, vectorTime.Unix(), issued.Unix())

	plaintext, err := decryptAt(k, token, time.Minute, vectorTime.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plaintext))
}

func TestDecrypt_ReferenceVector(t *testing.T) {
	k, err := DecodeKey(vectorKey)
	require.NoError(t, err)

	plaintext, err := decryptAt(k, vectorToken, 60*time.Second, vectorTime.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plaintext))

	issued, err := TokenTimestamp(k, vectorToken)
	require.NoError(t, err)
	assert.Equal(t, vectorTime.Unix(), issued.Unix())
}

func TestDecrypt_Expired(t *testing.T) {
	k, err := DecodeKey(vectorKey)
	require.NoError(t, err)

	_, err = decryptAt(k, vectorToken, 60*time.Second, vectorTime.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecryptWithTTL_FutureTimestamp(t *testing.T) {
	k, err := DecodeKey(vectorKey)
	require.NoError(t, err)

	_, err = decryptAt(k, vectorToken, time.Hour, vectorTime.Add(-2*maxClockSkew))
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestDecrypt_FutureTimestampWithoutTTL(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)

	token, err := encryptAt(k, []byte("payload"), time.Now().Add(2*time.Minute))
	require.NoError(t, err)

	got, err := Decrypt(k, token)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	got, err = Cipher{}.Decrypt([]byte(k.Encode()), token)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	_, err = DecryptWithTTL(k, token, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoundTrip(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)

	for _, size := range []int{0, 1, 15, 16, 17, 1024} {
		plaintext := bytes.Repeat([]byte{'x'}, size)

		token, err := Encrypt(k, plaintext)
		require.NoError(t, err)

		got, err := Decrypt(k, token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got, "size %d", size)
	}
}

func TestEncrypt_FreshIVPerToken(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)

	a, err := Encrypt(k, []byte("payload"))
	require.NoError(t, err)
	b, err := Encrypt(k, []byte("payload"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecrypt_RejectsInvalidTokens(t *testing.T) {
	k, err := DecodeKey(vectorKey)
	require.NoError(t, err)
	other, err := GenerateKey()
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(vectorToken)
	require.NoError(t, err)

	badVersion := bytes.Clone(raw)
	badVersion[0] = 0x81

	flippedCiphertext := bytes.Clone(raw)
	flippedCiphertext[headerSize] ^= 0x01

	tests := []struct {
		name  string
		key   *Key
		token string
	}{
		{name: "not base64", key: k, token: "%%%not-base64%%%"},
		{name: "too short", key: k, token: base64.URLEncoding.EncodeToString(raw[:40])},
		{name: "wrong version", key: k, token: base64.URLEncoding.EncodeToString(badVersion)},
		{name: "tampered ciphertext", key: k, token: base64.URLEncoding.EncodeToString(flippedCiphertext)},
		{name: "truncated block", key: k, token: base64.URLEncoding.EncodeToString(raw[:len(raw)-1])},
		{name: "wrong key", key: other, token: vectorToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decryptAt(tt.key, tt.token, 0, vectorTime)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestDecodeKey(t *testing.T) {
	k, err := DecodeKey(vectorKey)
	require.NoError(t, err)
	assert.Equal(t, vectorKey, k.Encode())

	_, err = DecodeKey("short")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = DecodeKey(base64.URLEncoding.EncodeToString(make([]byte, 16)))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestTokenTimestamp_RequiresAuthenticToken(t *testing.T) {
	other, err := GenerateKey()
	require.NoError(t, err)

	_, err = TokenTimestamp(other, vectorToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = TokenTimestamp(other, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCipher(t *testing.T) {
	c := Cipher{}

	token, err := c.Encrypt([]byte(vectorKey), []byte("secret payload"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "gAAAAA"))

	got, err := c.Decrypt([]byte(vectorKey), token)
	require.NoError(t, err)
	assert.Equal(t, "secret payload", string(got))

	_, err = c.Encrypt([]byte("not-a-key"), []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = c.Decrypt([]byte("not-a-key"), token)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
