// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/conventus/internal/config"
)

// bcryptCost is the work factor used when hashing new API key secrets
// (cost factor 12 for good security/performance balance).
const bcryptCost = 12

// minSecretLength is the minimum length for new API key secrets.
const minSecretLength = 8

// dummyHash is a throwaway bcrypt hash compared against when a key id is
// unknown, so verification takes the same time whether or not the id exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type keyEntry struct {
	role       string
	secretHash []byte
}

// Keyring verifies API key credentials against bcrypt secret hashes.
// Secrets are never stored; configuration carries only their hashes.
type Keyring struct {
	keys map[string]keyEntry
}

// NewKeyring builds a keyring from the configured API keys.
func NewKeyring(keys []config.APIKeyConfig) (*Keyring, error) {
	ring := &Keyring{
		keys: make(map[string]keyEntry, len(keys)),
	}
	for i, key := range keys {
		if key.ID == "" {
			return nil, fmt.Errorf("key %d: id is required", i)
		}
		if _, exists := ring.keys[key.ID]; exists {
			return nil, fmt.Errorf("key %d: duplicate id %q", i, key.ID)
		}
		if _, err := bcrypt.Cost([]byte(key.SecretHash)); err != nil {
			return nil, fmt.Errorf("key %q: secret_hash is not a valid bcrypt hash: %w", key.ID, err)
		}
		ring.keys[key.ID] = keyEntry{
			role:       key.Role,
			secretHash: []byte(key.SecretHash),
		}
	}
	return ring, nil
}

// Verify checks a key id and secret, returning the key's configured role.
// A bcrypt comparison runs even for unknown ids, so response timing does
// not reveal which ids exist.
func (k *Keyring) Verify(keyID, secret string) (string, error) {
	entry, ok := k.keys[keyID]
	if !ok {
		// bcrypt.CompareHashAndPassword is timing-safe per comparison, but
		// skipping it entirely would make unknown ids measurably faster.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(secret))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(entry.secretHash, []byte(secret)); err != nil {
		return "", ErrInvalidCredentials
	}
	return entry.role, nil
}

// Len returns the number of configured keys.
func (k *Keyring) Len() int {
	return len(k.keys)
}

// HashSecret hashes a new API key secret for storage in configuration.
func HashSecret(secret string) (string, error) {
	if len(secret) < minSecretLength {
		return "", fmt.Errorf("secret must be at least %d characters", minSecretLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}
