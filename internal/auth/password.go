package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's hard input limit.
const MaxPasswordBytes = 72

// preprocessPassword keeps any password within bcrypt's 72-byte limit by
// substituting the hex SHA-256 digest for longer inputs. It must be applied
// identically when hashing and when verifying, or long passwords would never
// verify against their stored hashes.
func preprocessPassword(plain string) string {
	if len(plain) > MaxPasswordBytes {
		sum := sha256.Sum256([]byte(plain))
		return hex.EncodeToString(sum[:])
	}
	return plain
}

// HashPassword hashes a password with bcrypt, accepting inputs of any length.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(preprocessPassword(plain)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash. Every
// failure mode, including malformed or unrecognized hashes and bcrypt's own
// length complaints, collapses to false: authentication fails closed.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(preprocessPassword(plain))) == nil
}
