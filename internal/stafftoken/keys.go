package stafftoken

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// ErrKeyNotFound is returned when a key source has no key material.
var ErrKeyNotFound = errors.New("key is not found")

// PublicKeyFetcher supplies the key used to verify staff tokens.
type PublicKeyFetcher interface {
	FetchPublicKey() (*rsa.PublicKey, error)
}

// PrivateKeyFetcher supplies the key used to sign staff tokens.
type PrivateKeyFetcher interface {
	FetchPrivateKey() (*rsa.PrivateKey, error)
}

// KeySource loads PEM encoded key material.
type KeySource func() ([]byte, error)

// FetchPublicKey parses the loaded key as an RSA public key.
func (s KeySource) FetchPublicKey() (*rsa.PublicKey, error) {
	keyBytes, err := s()
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse staff public key: %w", err)
	}

	return key, nil
}

// FetchPrivateKey parses the loaded key as an RSA private key.
func (s KeySource) FetchPrivateKey() (*rsa.PrivateKey, error) {
	keyBytes, err := s()
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse staff private key: %w", err)
	}

	return key, nil
}

// FromBase64Env reads a Base64 encoded PEM key from the named environment variable.
func FromBase64Env(key string) KeySource {
	return func() ([]byte, error) {
		encoded := os.Getenv(key)
		if encoded == "" {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}

		return decoded, nil
	}
}

// FromPEM serves an in-memory PEM key.
func FromPEM(pem []byte) KeySource {
	return func() ([]byte, error) {
		if len(pem) == 0 {
			return nil, ErrKeyNotFound
		}

		return pem, nil
	}
}
