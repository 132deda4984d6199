// Package envelope protects TOTP shared secrets at rest with envelope
// encryption.
//
// Each secret is sealed with a fresh random 256-bit data key under
// AES-256-GCM; the data key itself is wrapped with a key-encryption key
// derived from the service master key via HKDF-SHA256. The resulting
// EncryptedSecret triple (ciphertext, wrapped key, algorithm tag) is the
// only form a secret ever takes outside the verification path, and rotating
// the master key never requires re-encrypting payloads that were wrapped
// under a previous derivation.
//
// The Encryptor interface is the seam the MFA service consumes; AESEncryptor
// is the local implementation, and deployments fronted by an external KMS
// can substitute their own.
package envelope
