package envelope

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the AES-256 key length in bytes, used for both the master
	// key and per-secret data keys.
	KeySize = 32

	// AlgorithmAES256GCM is the algorithm tag stamped on secrets sealed by
	// AESEncryptor.
	AlgorithmAES256GCM = "aes256-gcm"

	// kekInfo provides HKDF domain separation for the key-encryption key.
	kekInfo = "mfakit-envelope-kek-v1"
)

// EncryptedSecret is the opaque at-rest form of a TOTP secret. Ciphertext
// holds the sealed secret, WrappedKey the sealed per-secret data key, and
// Algorithm tags the scheme so stored records survive algorithm migrations.
type EncryptedSecret struct {
	Ciphertext []byte
	WrappedKey []byte
	Algorithm  string
}

// Encryptor seals and opens TOTP secrets. Implementations may call out to
// external key-management services; any transport or key failure must
// surface as ErrEncryptionUnavailable so callers can abort before writing
// partial state.
type Encryptor interface {
	Encrypt(ctx context.Context, plaintext string) (EncryptedSecret, error)
	Decrypt(ctx context.Context, sealed EncryptedSecret) (string, error)
}

// AESEncryptor implements Encryptor with local envelope encryption: a fresh
// data key per secret, wrapped by an HKDF-derived key-encryption key.
type AESEncryptor struct {
	kek []byte
}

// NewAESEncryptor derives the key-encryption key from a 32-byte master key.
func NewAESEncryptor(masterKey []byte) (*AESEncryptor, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidMasterKey
	}

	kek := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(kekInfo)), kek); err != nil {
		return nil, errors.Join(ErrEncryptionUnavailable, err)
	}
	return &AESEncryptor{kek: kek}, nil
}

// Encrypt seals plaintext under a fresh data key and wraps that key with
// the key-encryption key.
func (e *AESEncryptor) Encrypt(_ context.Context, plaintext string) (EncryptedSecret, error) {
	dataKey := make([]byte, KeySize)
	if _, err := rand.Read(dataKey); err != nil {
		return EncryptedSecret{}, errors.Join(ErrEncryptionUnavailable, err)
	}

	ciphertext, err := gcmSeal(dataKey, []byte(plaintext))
	if err != nil {
		return EncryptedSecret{}, errors.Join(ErrEncryptionUnavailable, err)
	}

	wrappedKey, err := gcmSeal(e.kek, dataKey)
	if err != nil {
		return EncryptedSecret{}, errors.Join(ErrEncryptionUnavailable, err)
	}

	return EncryptedSecret{
		Ciphertext: ciphertext,
		WrappedKey: wrappedKey,
		Algorithm:  AlgorithmAES256GCM,
	}, nil
}

// Decrypt unwraps the data key and opens the ciphertext. The plaintext
// must only live for the duration of the calling operation.
func (e *AESEncryptor) Decrypt(_ context.Context, sealed EncryptedSecret) (string, error) {
	if sealed.Algorithm != AlgorithmAES256GCM {
		return "", ErrUnsupportedAlgorithm
	}

	dataKey, err := gcmOpen(e.kek, sealed.WrappedKey)
	if err != nil {
		return "", err
	}

	plaintext, err := gcmOpen(dataKey, sealed.Ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// gcmSeal encrypts data with AES-GCM, prepending the random nonce to the
// returned ciphertext.
func gcmSeal(key, data []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, data, nil), nil
}

// gcmOpen decrypts ciphertext produced by gcmSeal.
func gcmOpen(key, ciphertext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, ErrInvalidCiphertext
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]

	data, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}
	return data, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
