package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt ignores input beyond 72 bytes; truncate up front so hashing and
// verification agree on what was hashed.
const maxPasswordBytes = 72

func truncatePassword(pw string) []byte {
	b := []byte(pw)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword returns a salted bcrypt digest of pw.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether pw matches digest. A malformed digest is
// treated as a mismatch, never an error.
func CheckPassword(pw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), truncatePassword(pw)) == nil
}
