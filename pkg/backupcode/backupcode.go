package backupcode

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultCount is the number of codes issued per batch.
	DefaultCount = 8
	// codeBytes yields 8 hex characters (32 bits) per code.
	codeBytes = 4
)

// Generate creates a batch of single-use recovery codes. Each code is an
// 8-character uppercase hexadecimal string. Codes are guaranteed pairwise
// distinct within the batch; a collision is regenerated, not returned.
//
// The returned plaintext is the only time the caller ever sees it. Store
// Hash(code) for each and discard the originals.
func Generate(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(codes) < count {
		buf := make([]byte, codeBytes)
		if _, err := rand.Read(buf); err != nil {
			return nil, errors.Join(ErrEntropyUnavailable, err)
		}
		code := fmt.Sprintf("%X", buf)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

// Hash returns the storage form of a code: lowercase hex SHA-256 over the
// normalized plaintext.
func Hash(code string) string {
	sum := sha256.Sum256([]byte(normalize(code)))
	return hex.EncodeToString(sum[:])
}

// Consume attempts to redeem code against a set of stored hashes. On a
// match it reports true and returns the set with that hash removed; the
// code is spent and cannot be redeemed again. On no match the original
// set is returned unchanged.
//
// Membership is checked in constant time per element. Consume itself is
// pure; the caller must write the shrunk set back atomically so that two
// concurrent submissions of the same code cannot both succeed.
func Consume(hashes []string, code string) (bool, []string) {
	target := []byte(Hash(code))

	matched := -1
	for i, h := range hashes {
		// Scan the whole set even after a hit to keep timing independent
		// of the match position.
		if subtle.ConstantTimeCompare([]byte(h), target) == 1 && matched < 0 {
			matched = i
		}
	}
	if matched < 0 {
		return false, hashes
	}

	remaining := make([]string, 0, len(hashes)-1)
	remaining = append(remaining, hashes[:matched]...)
	remaining = append(remaining, hashes[matched+1:]...)
	return true, remaining
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
