package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the fixed cost factor of the original deployment.
const bcryptCost = 10

// HashPassword returns the salted bcrypt digest of a plaintext password.
// The salt is randomized per call, so two digests of the same plaintext
// differ while both still verify.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether digest was produced from plain.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
