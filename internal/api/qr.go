package api

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	pngDataURIPrefix = "data:image/png;base64,"
	qrImageSize      = 256
)

// renderQRPNG turns a gateway QR payload into PNG bytes. The gateway sends
// either a ready data URI or the raw pairing string.
func renderQRPNG(code string) ([]byte, error) {
	if strings.HasPrefix(code, pngDataURIPrefix) {
		img, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(code, pngDataURIPrefix))
		if err != nil {
			return nil, fmt.Errorf("decode qr data uri: %w", err)
		}
		return img, nil
	}

	img, err := qrcode.Encode(code, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return img, nil
}
