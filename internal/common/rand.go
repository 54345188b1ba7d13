package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// ShareCodeAlphabet excludes characters that read ambiguously when a code
// is shown on one phone and typed on another (no I/O/0/1).
const ShareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// MakeRandHexString generates a random hexadecimal string from size random
// bytes; the resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// MakeShareCode generates a human-shareable code of the given length from
// ShareCodeAlphabet. Uniqueness is the caller's problem.
func MakeShareCode(length int) (string, error) {
	max := big.NewInt(int64(len(ShareCodeAlphabet)))

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = ShareCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
