package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"regexp"
)

// secretBytes is 160 bits of entropy, the RFC 4226 recommended minimum.
const secretBytes = 20

// secretEncoding is the Base32 alphabet (A-Z, 2-7) without padding, the
// form authenticator apps expect for manual entry.
var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// validSecret matches unpadded Base32. Padding is stripped before matching,
// so trailing '=' from other encoders is tolerated on input.
var validSecret = regexp.MustCompile(`^[A-Z2-7]+$`)

// GenerateSecret produces a new random shared secret encoded in unpadded
// Base32. A failure to read the platform random source is fatal and
// reported as ErrEntropyUnavailable; it must not be retried silently.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}
	return secretEncoding.EncodeToString(buf), nil
}

// decodeSecret normalizes and decodes a Base32 secret into raw key bytes.
// Empty or non-Base32 input is ErrInvalidSecret.
func decodeSecret(secret string) ([]byte, error) {
	secret = normalizeSecret(secret)
	if secret == "" || !validSecret.MatchString(secret) {
		return nil, ErrInvalidSecret
	}
	key, err := secretEncoding.DecodeString(secret)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}
