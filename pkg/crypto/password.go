package crypto

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt cost factor used for stored credentials.
// Existing rows were written at cost 10, so it stays pinned rather than
// tracking bcrypt.DefaultCost.
const PasswordHashCost = 10

// HashPassword hashes plaintext using bcrypt.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), PasswordHashCost)
}

// ComparePassword compares plaintext to a stored bcrypt hash.
func ComparePassword(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}
