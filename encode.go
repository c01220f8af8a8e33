package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"
)

const (
	maxImagePixels = 40_000_000

	jpegQuality   = 90
	jpegDataURI   = "data:image/jpeg;base64,"
	dataURIPrefix = "data:"
)

var (
	// ErrEncode is returned when an image cannot be serialised for the API.
	ErrEncode = errors.New("encode failure")

	// ErrImageTooLarge is returned for images above maxImagePixels.
	ErrImageTooLarge = errors.New("image too large")
)

// EncodeImage serialises img as a JPEG data URI. Transparency is dropped:
// the colour channels are kept and every pixel becomes opaque.
func EncodeImage(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("%w: nil image", ErrEncode)
	}
	if !isOpaque(img) {
		img = flatten(img)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return jpegDataURI + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeImage reads a PNG or JPEG image. The header is checked first so
// oversized dimensions are rejected before any pixel buffer is allocated.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, "", fmt.Errorf("decode image config: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, "", fmt.Errorf("unsupported image format %q", format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

// splitDataURI returns the MIME type and decoded payload of a base64 data URI.
func splitDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mimeType, data, nil
}
