// Package qrcode renders enrollment payloads, typically otpauth://
// provisioning URIs, as QR code images for authenticator apps to scan.
// It wraps github.com/skip2/go-qrcode with input validation and a data-URI
// helper for embedding the image directly in an HTML page.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent = errors.New("content cannot be empty")
	ErrRenderFailed = errors.New("failed to render QR code")
)

// DefaultSize is the image edge length in pixels used when size is not
// positive.
const DefaultSize = 256

// Render encodes content into a PNG QR code of the given size. Medium
// error correction is plenty for screen-to-camera scanning.
func Render(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	return png, nil
}

// RenderDataURI returns the QR code as a base64 PNG data URI suitable for
// an <img> src attribute.
func RenderDataURI(content string, size int) (string, error) {
	png, err := Render(content, size)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
