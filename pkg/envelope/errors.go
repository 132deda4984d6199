package envelope

import "errors"

var (
	ErrEncryptionUnavailable  = errors.New("secret encryption unavailable")
	ErrInvalidMasterKey       = errors.New("master key must be 32 bytes")
	ErrInvalidCiphertext      = errors.New("invalid ciphertext")
	ErrUnsupportedAlgorithm   = errors.New("unsupported encryption algorithm")
	ErrKeyGenerationFailed    = errors.New("failed to generate encryption key")
	ErrMasterKeyNotConfigured = errors.New("master key not configured")
)
