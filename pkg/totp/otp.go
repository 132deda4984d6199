package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// Digits is the width of generated codes.
	Digits = 6
	// Period is the length of one time step in seconds (RFC 6238 default).
	Period = 30

	codeModulo = 1_000_000 // 10^Digits
)

var validCode = regexp.MustCompile(`^\d{6}$`)

// GenerateCode computes the code for the time step containing the current
// wall-clock time.
func GenerateCode(secret string) (string, error) {
	return GenerateCodeAt(secret, time.Now())
}

// GenerateCodeAt computes the code for the time step containing t. The
// result is a deterministic function of (secret, t.Unix()/Period).
func GenerateCodeAt(secret string, t time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotp(key, t.Unix()/Period), nil
}

// ValidateCode reports whether code is valid for secret at the current
// wall-clock time. See ValidateCodeAt.
func ValidateCode(secret, code string) (bool, error) {
	return ValidateCodeAt(secret, code, time.Now())
}

// ValidateCodeAt reports whether code is valid for secret at reference
// time ref. Codes from the step containing ref and from the immediately
// preceding step are accepted; future steps are not. Candidates are
// compared in constant time.
//
// Malformed input returns an error: ErrInvalidSecret for an empty or
// non-Base32 secret, ErrInvalidCode for anything that is not a 6-digit
// string. A well-formed code that simply does not match returns
// (false, nil).
func ValidateCodeAt(secret, code string, ref time.Time) (bool, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !validCode.MatchString(code) {
		return false, ErrInvalidCode
	}

	counter := ref.Unix() / Period
	match := 0
	for step := int64(0); step <= 1; step++ {
		candidate := hotp(key, counter-step)
		// Accumulate instead of early-return so both steps are always
		// evaluated regardless of where a match lands.
		match |= subtle.ConstantTimeCompare([]byte(candidate), []byte(code))
	}
	return match == 1, nil
}

// hotp implements the RFC 4226 algorithm: HMAC-SHA1 over the 8-byte
// big-endian counter, dynamic truncation, reduction modulo 10^Digits.
func hotp(key []byte, counter int64) string {
	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes[:])
	sum := mac.Sum(nil)

	// Low nibble of the last byte selects a 4-byte window; the top bit is
	// masked off so the value is a positive 31-bit integer.
	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", Digits, value%codeModulo)
}

func normalizeSecret(secret string) string {
	return strings.TrimRight(strings.ToUpper(strings.TrimSpace(secret)), "=")
}
