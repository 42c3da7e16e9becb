// Package auth turns bearer API keys into telemetry identities for the gRPC
// and HTTP transports.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
)

// MethodAPIKey is recorded in Identity.Method for key-authenticated callers.
const MethodAPIKey = "api_key"

// KeyPrefix marks keys minted by GenerateKey.
const KeyPrefix = "dash_"

// ErrInvalidKey is returned when a presented key matches no configured hash.
var ErrInvalidKey = errors.New("auth: invalid api key")

// Used when no hash matches so a miss costs about as much as a hit.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOa5hnhtNGRjukDWO2xzg3sjQTL1dDQ2u")

// Key is a configured subject and the bcrypt hash of its bearer key.
type Key struct {
	Subject string
	Hash    []byte
}

// KeyResolver checks bearer keys against a fixed set of bcrypt hashes.
// Verified keys are remembered by SHA-256 fingerprint so bcrypt runs once
// per distinct key.
type KeyResolver struct {
	keys []Key

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]string
}

// NewKeyResolver validates each hash and returns a resolver.
func NewKeyResolver(keys []Key) (*KeyResolver, error) {
	for i, k := range keys {
		if k.Subject == "" {
			return nil, fmt.Errorf("auth: key %d has no subject", i)
		}
		if _, err := bcrypt.Cost(k.Hash); err != nil {
			return nil, fmt.Errorf("auth: key %q: %w", k.Subject, err)
		}
	}
	return &KeyResolver{
		keys:     keys,
		verified: make(map[[sha256.Size]byte]string),
	}, nil
}

// Len reports how many keys are configured.
func (r *KeyResolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Resolve returns the identity for plaintext or ErrInvalidKey.
func (r *KeyResolver) Resolve(plaintext string) (*telemetry.Identity, error) {
	if r == nil || plaintext == "" {
		return nil, ErrInvalidKey
	}
	fp := sha256.Sum256([]byte(plaintext))
	r.mu.RLock()
	subject, ok := r.verified[fp]
	r.mu.RUnlock()
	if ok {
		return &telemetry.Identity{Subject: subject, Method: MethodAPIKey}, nil
	}
	for _, k := range r.keys {
		if bcrypt.CompareHashAndPassword(k.Hash, []byte(plaintext)) == nil {
			r.mu.Lock()
			r.verified[fp] = k.Subject
			r.mu.Unlock()
			return &telemetry.Identity{Subject: k.Subject, Method: MethodAPIKey}, nil
		}
	}
	if len(r.keys) == 0 {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
	}
	return nil, ErrInvalidKey
}

// HashKey returns the bcrypt hash stored in configuration for plaintext.
func HashKey(plaintext string) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", errors.New("auth: empty key")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash key: %w", err)
	}
	return string(h), nil
}

// GenerateKey mints a random bearer key with KeyPrefix.
func GenerateKey() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, 32)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("auth: generate key: %w", err)
		}
		buf[i] = charset[n.Int64()]
	}
	return KeyPrefix + string(buf), nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. It returns "" when the scheme is not bearer.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
