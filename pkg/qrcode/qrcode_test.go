package qrcode_test

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/qrcode"
)

const sampleURI = "otpauth://totp/Acme:alice@example.com?secret=JBSWY3DPEHPK3PXP&issuer=Acme"

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		img, err := qrcode.Render("", 256)
		assert.Nil(t, img)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})

	t.Run("whitespace only content", func(t *testing.T) {
		t.Parallel()
		img, err := qrcode.Render("  \t\n", 256)
		assert.Nil(t, img)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})

	t.Run("valid PNG output", func(t *testing.T) {
		t.Parallel()
		img, err := qrcode.Render(sampleURI, 256)
		require.NoError(t, err)

		decoded, err := png.Decode(bytes.NewReader(img))
		require.NoError(t, err)
		assert.Equal(t, 256, decoded.Bounds().Dx())
		assert.Equal(t, 256, decoded.Bounds().Dy())
	})

	t.Run("non-positive size falls back to default", func(t *testing.T) {
		t.Parallel()
		img, err := qrcode.Render(sampleURI, 0)
		require.NoError(t, err)

		decoded, err := png.Decode(bytes.NewReader(img))
		require.NoError(t, err)
		assert.Equal(t, qrcode.DefaultSize, decoded.Bounds().Dx())
	})
}

func TestRenderDataURI(t *testing.T) {
	t.Parallel()

	uri, err := qrcode.RenderDataURI(sampleURI, 128)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}
