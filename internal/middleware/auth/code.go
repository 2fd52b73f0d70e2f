package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the length of a confirmation code sent by email.
const CodeLength = 6

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a random alphanumeric confirmation code.
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// HashCode stores codes the way passwords are stored: bcrypt with the default cost.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode reports whether code matches the stored hash.
// An empty hash (no pending code) never matches.
func VerifyCode(hashedCode, code string) bool {
	if hashedCode == "" || code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(code)) == nil
}
