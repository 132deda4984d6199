package totp_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/totp"
)

func TestProvisioningURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secret  string
		account string
		issuer  string
		want    string
		wantErr error
	}{
		{
			name:    "basic",
			secret:  "ABCDEFGHIJKLMNOP",
			account: "test@example.com",
			issuer:  "Acme",
			want:    "otpauth://totp/Acme:test@example.com?algorithm=SHA1&digits=6&issuer=Acme&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name:    "special characters survive encoding",
			secret:  "ABCDEFGHIJKLMNOP",
			account: "test+user@example.com",
			issuer:  "Acme (Staging)",
			want:    "otpauth://totp/Acme%20%28Staging%29:test+user@example.com?algorithm=SHA1&digits=6&issuer=Acme+%28Staging%29&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name:    "missing account",
			secret:  "ABCDEFGHIJKLMNOP",
			account: "",
			issuer:  "Acme",
			wantErr: totp.ErrMissingAccountName,
		},
		{
			name:    "missing issuer",
			secret:  "ABCDEFGHIJKLMNOP",
			account: "test@example.com",
			issuer:  "",
			wantErr: totp.ErrMissingIssuer,
		},
		{
			name:    "invalid secret",
			secret:  "not base32!",
			account: "test@example.com",
			issuer:  "Acme",
			wantErr: totp.ErrInvalidSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.ProvisioningURI(tt.secret, tt.account, tt.issuer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProvisioningURI_RoundTrip(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	uri, err := totp.ProvisioningURI(secret, "user with spaces@example.com", "My App + Co")
	require.NoError(t, err)

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", parsed.Scheme)
	assert.Equal(t, "totp", parsed.Host)
	assert.Equal(t, secret, parsed.Query().Get("secret"))
	assert.Equal(t, "My App + Co", parsed.Query().Get("issuer"))
}
