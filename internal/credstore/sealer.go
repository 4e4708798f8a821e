package credstore

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const saltSize = 16

// KDFParams tunes the argon2id key derivation.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKDFParams follows the OWASP argon2id baseline.
var DefaultKDFParams = KDFParams{Time: 2, MemoryKiB: 19 * 1024, Threads: 1}

// Sealer encrypts values with XChaCha20-Poly1305. The store key is bound as
// additional data so a value cannot be moved to another key.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the value key from secret and salt.
func NewSealer(secret, salt []byte, params KDFParams) (*Sealer, error) {
	if len(salt) < saltSize {
		return nil, errors.New("credstore: salt too short")
	}
	if params.Time == 0 || params.MemoryKiB == 0 || params.Threads == 0 {
		params = DefaultKDFParams
	}
	key := argon2.IDKey(secret, salt, params.Time, params.MemoryKiB, params.Threads, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("credstore: init cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// NewSalt returns fresh random salt bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("credstore: read salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts value for key and returns base64 text.
func (s *Sealer) Seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("credstore: read nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Any decoding or authentication failure is ErrCorrupt.
func (s *Sealer) Open(key, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	if len(raw) < s.aead.NonceSize()+s.aead.Overhead() {
		return "", fmt.Errorf("%w: %s: truncated", ErrCorrupt, key)
	}
	nonce, ct := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return string(plain), nil
}
