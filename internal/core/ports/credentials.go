package ports

// PasswordHasher provides one-way password hashing and verification.
// Implementations must not compare hashes by plain equality.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, hash string) bool
}

// TokenIssuer creates an opaque bearer token bound to a single subject name.
// The service never interprets the token's internal structure.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}
