package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// MaxEdge bounds the longer edge of a stored photo.
	MaxEdge = 1024
	// jpegQuality is the fixed re-encode quality for stored photos.
	jpegQuality = 82
)

// DecodeError reports undecodable image data. The capture UI used to hang
// forever on these; the server surfaces them instead.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("image decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Result is a downscaled, re-encoded photo.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Downscale decodes data (jpeg/png/gif), scales it uniformly so the longer
// edge does not exceed MaxEdge, and re-encodes as JPEG at fixed quality.
// An image already within bounds is re-encoded without resampling.
func Downscale(data []byte) (*Result, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return DownscaleImage(img)
}

// DownscaleImage performs the bounded scale + JPEG encode on a decoded image.
func DownscaleImage(img image.Image) (*Result, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, &DecodeError{Err: fmt.Errorf("empty image %dx%d", w, h)}
	}

	longer := w
	if h > w {
		longer = h
	}

	if longer > MaxEdge {
		scale := float64(MaxEdge) / float64(longer)
		nw := int(float64(w)*scale + 0.5)
		nh := int(float64(h)*scale + 0.5)
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
		w, h = nw, nh
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}

	return &Result{Data: buf.Bytes(), Width: w, Height: h}, nil
}

// Decode decodes raw image bytes, wrapping failures in DecodeError.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}

// DataURL wraps encoded JPEG bytes in the data URL form the record's photo
// list persists.
func DataURL(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}

// DecodeDataURL decodes a persisted photo data URL back to an image.
func DecodeDataURL(url string) (image.Image, error) {
	idx := strings.Index(url, ",")
	if idx < 0 || !strings.HasPrefix(url, "data:") {
		return nil, &DecodeError{Err: fmt.Errorf("not a data URL")}
	}
	raw, err := base64.StdEncoding.DecodeString(url[idx+1:])
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("base64: %w", err)}
	}
	return Decode(raw)
}
