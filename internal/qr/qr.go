// Package qr generates and decodes QR codes for chat commands and
// incoming photos.
package qr

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrencode "github.com/skip2/go-qrcode"

	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

// MaxTextLength bounds the payload accepted for generation. Longer
// strings do not fit a readable code at the sizes Telegram previews.
const MaxTextLength = 2000

const imageSize = 512

var (
	ErrEmptyText   = errors.New("qr: empty text")
	ErrTextTooLong = errors.New("qr: text too long")
	ErrNoQRCode    = errors.New("qr: no qr code found")
)

// Generate renders text as a PNG QR code.
func Generate(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if len(text) > MaxTextLength {
		return nil, ErrTextTooLong
	}

	png, err := qrencode.Encode(text, qrencode.Low, imageSize)
	if err != nil {
		return nil, utils.WrapError(err, "failed to encode qr code", map[string]any{
			"length": len(text),
		})
	}
	return png, nil
}

// Decode extracts QR code text from an encoded image. Telegram photos
// arrive as JPEG, generated codes as PNG; both decoders are registered.
func Decode(imageData []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", utils.WrapError(err, "failed to decode image", nil)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", utils.WrapError(err, "failed to prepare image for qr detection", nil)
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", ErrNoQRCode
	}

	text := result.GetText()
	if text == "" {
		return "", ErrNoQRCode
	}
	return text, nil
}
