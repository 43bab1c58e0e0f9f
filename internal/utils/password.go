package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var credentialPattern = regexp.MustCompile(`^[0-9]{5}$`)

// IsCredentialFormat reports whether code is a well-formed 5-digit operator credential.
func IsCredentialFormat(code string) bool {
	return credentialPattern.MatchString(code)
}

// HashCredential hashes an operator credential code using bcrypt.
func HashCredential(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckCredentialHash compares a plaintext credential code with a bcrypt hash.
func CheckCredentialHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
