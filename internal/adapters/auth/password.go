package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gatherly/internal/domain"
)

// Work factors accepted from PASSWORD_HASH_COST. The seeder and tests run at MinPasswordCost.
const (
	MinPasswordCost     = bcrypt.MinCost
	MaxPasswordCost     = 16
	DefaultPasswordCost = 12
)

const saltBytes = 32

// CheckPasswordCost reports whether cost is an accepted work factor.
func CheckPasswordCost(cost int) error {
	if cost < MinPasswordCost || cost > MaxPasswordCost {
		return fmt.Errorf("password hash cost %d outside [%d, %d]", cost, MinPasswordCost, MaxPasswordCost)
	}
	return nil
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher storing bcrypt(hex(sha256(salt+password))).
// An unaccepted cost falls back to DefaultPasswordCost.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if CheckPasswordCost(cost) != nil {
		cost = DefaultPasswordCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) GenerateSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (h *bcryptHasher) Hash(salt, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(saltedDigest(salt, password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, salt, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), saltedDigest(salt, password))
}

// NeedsRehash reports whether hash was produced with a different cost than the hasher's,
// so a successful login can upgrade it.
func (h *bcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != h.cost
}

// saltedDigest keeps the bcrypt input at 64 bytes, under its 72-byte limit.
func saltedDigest(salt, password string) []byte {
	sum := sha256.Sum256([]byte(salt + password))
	return []byte(hex.EncodeToString(sum[:]))
}
