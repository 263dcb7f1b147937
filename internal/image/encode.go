package imagepkg

import (
	"bytes"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"

	JPEGQuality = 90
)

// ParseFormat accepts "png", "jpeg" and "jpg"; anything else is PNG.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return JPEG
	}
	return PNG
}

func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode serializes img once in the requested format.
func Encode(img image.Image, f Format) ([]byte, string, error) {
	var buf bytes.Buffer
	var err error
	if f == JPEG {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	} else {
		f = PNG
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), f.ContentType(), nil
}
