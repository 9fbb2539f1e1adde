// Package tokencache keeps controller session tokens between afcctl
// invocations. Tokens are sealed with a key derived from a local secret
// before they leave the process, so the backing store never holds a
// usable credential in the clear.
package tokencache

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
	hkdfInfo  = "afcctl token cache v1"
)

// ErrSealed is returned when a sealed token cannot be opened, either
// because it was tampered with or because the secret changed.
var ErrSealed = errors.New("sealed token could not be opened")

// Sealer encrypts and authenticates tokens with NaCl secretbox.
type Sealer struct {
	key [keySize]byte
}

// NewSealer derives a sealing key from secret using HKDF-SHA256.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("token cache secret is empty")
	}
	s := &Sealer{}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(r, s.key[:]); err != nil {
		return nil, fmt.Errorf("deriving token cache key: %w", err)
	}
	return s, nil
}

// Seal returns the base64 encoding of nonce || secretbox(token).
func (s *Sealer) Seal(token string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrSealed
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrSealed
	}
	return string(plain), nil
}
