package totp

import (
	"fmt"
	"net/url"
)

// ProvisioningURI builds the otpauth:// URI consumed by authenticator apps,
// following the Key Uri Format:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
//
// The label and issuer are percent-encoded so that spaces, '+', parentheses
// and similar characters survive the QR-code round trip.
func ProvisioningURI(secret, accountName, issuer string) (string, error) {
	if _, err := decodeSecret(secret); err != nil {
		return "", err
	}
	if accountName == "" {
		return "", ErrMissingAccountName
	}
	if issuer == "" {
		return "", ErrMissingIssuer
	}

	label := fmt.Sprintf("%s:%s", url.PathEscape(issuer), url.PathEscape(accountName))

	query := url.Values{}
	query.Set("secret", normalizeSecret(secret))
	query.Set("issuer", issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", Digits))
	query.Set("period", fmt.Sprintf("%d", Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}
