package models

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"
)

// IdentitySize is the length of an account identity in bytes.
const IdentitySize = 32

// Identity is an opaque 32-byte account identifier (a user, the authority,
// the treasury or the accepted token). It is rendered as lowercase hex.
type Identity [IdentitySize]byte

// ParseIdentity decodes a 64 character hex string.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return id, fmt.Errorf("identity: %w", err)
	}
	if len(b) != IdentitySize {
		return id, fmt.Errorf("identity: want %d bytes, got %d", IdentitySize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id Identity) String() string { return hex.EncodeToString(id[:]) }

// IsZero reports whether the identity is all zero bytes.
func (id Identity) IsZero() bool { return id == Identity{} }

// Value implements driver.Valuer; identities are stored as BYTEA.
func (id Identity) Value() (driver.Value, error) {
	return id[:], nil
}

// Scan implements sql.Scanner.
func (id *Identity) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("identity: cannot scan %T", src)
	}
	if len(b) != IdentitySize {
		return fmt.Errorf("identity: want %d bytes, got %d", IdentitySize, len(b))
	}
	copy(id[:], b)
	return nil
}

// MarshalText lets identities appear as hex in JSON documents.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentity(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// EntropySize is the length of caller-supplied cast entropy in bytes.
const EntropySize = 32

// Entropy is the 32 bytes of randomness a caller contributes to a cast.
type Entropy [EntropySize]byte

// ParseEntropy decodes a 64 character hex string.
func ParseEntropy(s string) (Entropy, error) {
	var e Entropy
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return e, fmt.Errorf("entropy: %w", err)
	}
	if len(b) != EntropySize {
		return e, fmt.Errorf("entropy: want %d bytes, got %d", EntropySize, len(b))
	}
	copy(e[:], b)
	return e, nil
}

func (e Entropy) String() string { return hex.EncodeToString(e[:]) }
