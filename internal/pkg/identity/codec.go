// Package identity maps internal entity identifiers to the opaque identifiers
// exposed outside the service, and back.
package identity

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier is returned by Decode for input Encode did not produce under the current key.
var ErrMalformedIdentifier = errors.New("identity: malformed identifier")

// Codec is a deterministic, reversible, keyed transformation between internal and external ids.
// It is safe for concurrent use.
type Codec struct {
	gcm    cipher.AEAD
	macKey []byte
}

// NewCodec builds a codec from a secret. Hex or base64 encoded 16/24/32-byte keys are used as is;
// any other secret is treated as a passphrase and stretched with SHA-256.
func NewCodec(secret string) (*Codec, error) {
	key, err := decodeKey(secret)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("identity: create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("identity: create GCM: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("identity-nonce"))
	return &Codec{gcm: gcm, macKey: mac.Sum(nil)}, nil
}

// Encode returns the external identifier of internalID.
// The nonce is derived from the plaintext so equal inputs always encode equally.
func (c *Codec) Encode(internalID string) string {
	plaintext := []byte(internalID)
	nonce := c.nonce(plaintext)
	sealed := c.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed)
}

// EncodeAll encodes every id, preserving order.
func (c *Codec) EncodeAll(internalIDs []string) []string {
	out := make([]string, len(internalIDs))
	for i, id := range internalIDs {
		out[i] = c.Encode(id)
	}
	return out
}

// Decode inverts Encode.
func (c *Codec) Decode(externalID string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(externalID))
	if err != nil {
		return "", ErrMalformedIdentifier
	}
	nonceSize := c.gcm.NonceSize()
	if len(raw) < nonceSize+c.gcm.Overhead() {
		return "", ErrMalformedIdentifier
	}
	nonce, payload := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, payload, nil)
	if err != nil {
		return "", ErrMalformedIdentifier
	}
	if !hmac.Equal(nonce, c.nonce(plaintext)) {
		return "", ErrMalformedIdentifier
	}
	return string(plaintext), nil
}

// DecodeAll decodes every id and fails on the first malformed one.
func (c *Codec) DecodeAll(externalIDs []string) ([]string, error) {
	out := make([]string, len(externalIDs))
	for i, id := range externalIDs {
		decoded, err := c.Decode(id)
		if err != nil {
			return nil, err
		}
		out[i] = decoded
	}
	return out, nil
}

func (c *Codec) nonce(plaintext []byte) []byte {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(plaintext)
	return mac.Sum(nil)[:c.gcm.NonceSize()]
}

func decodeKey(raw string) ([]byte, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, errors.New("identity: secret is empty")
	}
	if b, err := hex.DecodeString(value); err == nil && validKeyLen(len(b)) {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(value); err == nil && validKeyLen(len(b)) {
		return b, nil
	}
	sum := sha256.Sum256([]byte(value))
	return sum[:], nil
}

func validKeyLen(n int) bool {
	return n == 16 || n == 24 || n == 32
}
