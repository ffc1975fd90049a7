package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// bcrypt ignores everything past this many bytes.
	maxPasswordBytes = 72

	legacyIterations = 100000
	legacyKeyLen     = sha256.Size
)

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(TruncatePassword(password)), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify accepts bcrypt hashes and the older "salthex$hashhex"
// PBKDF2-HMAC-SHA256 format.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	if strings.HasPrefix(encoded, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(TruncatePassword(password))) == nil
	}
	return verifyLegacy(password, encoded)
}

// TruncatePassword cuts password to at most 72 bytes on a rune boundary.
func TruncatePassword(password string) string {
	return truncateUTF8(password, maxPasswordBytes)
}

// truncateUTF8 cuts s to at most max bytes without splitting a code point.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func verifyLegacy(password, encoded string) bool {
	saltHex, hashHex, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	stored, err := hex.DecodeString(hashHex)
	if err != nil || len(stored) != legacyKeyLen {
		return false
	}

	computed := pbkdf2.Key([]byte(password), salt, legacyIterations, legacyKeyLen, sha256.New)
	return subtle.ConstantTimeCompare(computed, stored) == 1
}
