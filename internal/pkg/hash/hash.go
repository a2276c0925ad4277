package hash

// Hash is the contract for hashing a secret and verifying input against a
// stored hash.
type Hash interface {
	// Hash produces the hashed form of the plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
