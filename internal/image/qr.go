package imagepkg

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	MaxQRSize     = 1024
)

func qrSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

// QRPNG returns PNG bytes of a QR code for text.
func QRPNG(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, qrSize(size))
}

// QRCode returns the QR code for text as an image for composition.
func QRCode(text string, size int) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return q.Image(qrSize(size)), nil
}
