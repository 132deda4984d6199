package envelope

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Config carries the base64-encoded 32-byte master key. Generate one with
// GenerateMasterKey (or the cmd/keygen utility) and keep it out of source
// control.
type Config struct {
	MasterKey string `env:"MFA_MASTER_KEY,required"` // Base64-encoded 32-byte key
}

// DecodeMasterKey decodes and validates the configured master key.
func (c Config) DecodeMasterKey() ([]byte, error) {
	if c.MasterKey == "" {
		return nil, ErrMasterKeyNotConfigured
	}

	key, err := base64.StdEncoding.DecodeString(c.MasterKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidMasterKey, err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidMasterKey
	}
	return key, nil
}

// GenerateMasterKey creates a new random master key in the base64 form
// expected by Config.
func GenerateMasterKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", errors.Join(ErrKeyGenerationFailed, err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
