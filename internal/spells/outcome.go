package spells

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

const seedSize = 8 + models.IdentitySize + models.EntropySize + 1

// Outcome is the resolved result of a cast roll.
type Outcome struct {
	Roll    uint32
	Success bool
}

// Seed lays out the digest input: little-endian timestamp, user identity,
// caller entropy and the tier byte.
func Seed(now int64, user models.Identity, entropy models.Entropy, tier models.Tier) []byte {
	seed := make([]byte, 0, seedSize)
	seed = binary.LittleEndian.AppendUint64(seed, uint64(now))
	seed = append(seed, user[:]...)
	seed = append(seed, entropy[:]...)
	seed = append(seed, byte(tier))
	return seed
}

// Roll maps a seed onto 0..99 using the first four bytes of its SHA-256
// digest read little-endian.
func Roll(seed []byte) uint32 {
	digest := sha256.Sum256(seed)
	return binary.LittleEndian.Uint32(digest[:4]) % 100
}

// Resolve decides a cast. Identical inputs always give the same outcome.
func Resolve(entropy models.Entropy, user models.Identity, now int64, tier models.Tier) Outcome {
	roll := Roll(Seed(now, user, entropy, tier))
	return Outcome{Roll: roll, Success: roll < Params(tier).SuccessRate}
}
