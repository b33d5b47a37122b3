package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// Detect returns canonical file extension of picture data, false when data is
// not a recognized image.
func Detect(data []byte) (string, bool) {
	if !filetype.IsImage(data) {
		return "", false
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || kind.Extension == "" {
		return "", false
	}
	return kind.Extension, true
}

// Fit downscales picture wider than maxWidth keeping its format. Data is
// returned as is when nothing needs to be done or the format cannot be
// encoded back.
func Fit(data []byte, maxWidth, jpegQuality int) ([]byte, bool, error) {
	if maxWidth <= 0 {
		return data, false, nil
	}
	ext, ok := Detect(data)
	if !ok {
		return data, false, nil
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data, false, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, fmt.Errorf("unable to decode %s picture: %w", ext, err)
	}
	if img.Bounds().Dx() <= maxWidth {
		return data, false, nil
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, format,
		imaging.JPEGQuality(jpegQuality), imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, false, fmt.Errorf("unable to encode resized %s picture: %w", ext, err)
	}
	return buf.Bytes(), true, nil
}

// EncodePNG encodes image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
