package ports

// PasswordHasher hashes and verifies passwords. Implementations must be safe for concurrent use.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Matches returns false for malformed digests instead of an error.
	Matches(plaintext, digest string) bool
	// Validate returns domain.ErrMalformedDigest when digest is not in the hasher's format.
	Validate(digest string) error
}
