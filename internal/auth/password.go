package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// bcrypt cost 12 is well above the 2^10 default and slower per guess
// than the legacy pbkdf2 digests it replaces.
const bcryptCost = 12

const legacyPrefix = "pbkdf2:sha256:"

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash verifies bcrypt digests and legacy
// "pbkdf2:sha256:<iterations>$<salt>$<hex>" digests.
func CheckPasswordHash(password, hash string) bool {
	if strings.HasPrefix(hash, legacyPrefix) {
		return checkLegacyHash(password, hash)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := HashPassword("sudhamrit-no-such-account")
	return h
})

// DummyHash is a bcrypt digest at the current cost that no stored account
// uses. Logins for unknown accounts compare against it so both paths cost
// one bcrypt comparison.
func DummyHash() string { return dummyHash() }

// NeedsRehash reports whether a stored digest should be replaced on next login.
func NeedsRehash(hash string) bool {
	if strings.HasPrefix(hash, legacyPrefix) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost < bcryptCost
}

func checkLegacyHash(password, hash string) bool {
	parts := strings.SplitN(strings.TrimPrefix(hash, legacyPrefix), "$", 3)
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(password), []byte(parts[1]), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
