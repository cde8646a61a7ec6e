// Package hash hashes and verifies passwords for the demo auth backend.
//
// Only the hash is kept in memory; login compares the submitted plaintext
// against it.
package hash

// Hash hashes plaintext and checks plaintext against a stored hash.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
