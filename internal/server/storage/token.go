package storage

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidDownloadToken = errors.New("invalid download token")

// downloadClaims carries the storage key a signed download URL grants
// access to. Expiry rides on the registered claims.
type downloadClaims struct {
	jwt.RegisteredClaims
	StorageKey string `json:"storage_key"`
}

// GenerateDownloadToken signs a short-lived token granting a GET of key.
func GenerateDownloadToken(key string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, downloadClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		StorageKey: key,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseDownloadToken validates a download token and returns the storage
// key it grants. Expired or tampered tokens fail.
func ParseDownloadToken(tokenString string, secret []byte) (string, error) {
	claims := &downloadClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", ErrInvalidDownloadToken
	}

	if !token.Valid {
		return "", ErrInvalidDownloadToken
	}

	return claims.StorageKey, nil
}
