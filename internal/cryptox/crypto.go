// Package cryptox implements the key-derivation primitives behind the
// offline credential cache: a short PIN is never stored, only an
// argon2id-derived verifier alongside its random salt.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// DerivePinKey derives a 32-byte key from a collector PIN and a random salt
// using argon2id. The parameters are deliberately heavy for a short PIN.
func DerivePinKey(pin []byte, salt []byte) []byte {
	return argon2.IDKey(pin, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns the value actually persisted in the credential
// cache: a SHA-256 of the derived key, so the key itself never touches disk.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// VerifierMatches compares two verifiers in constant time.
func VerifierMatches(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
