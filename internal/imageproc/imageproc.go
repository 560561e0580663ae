// Package imageproc normalises uploaded images to bounded WebP.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	MaxUploadBytes = 10 << 20
	MaxEdge        = 1600
	ContentType    = "image/webp"
	quality        = 82
)

var (
	ErrTooLarge    = errors.New("image too large")
	ErrUnsupported = errors.New("unsupported image")
)

// Allowed upload MIME types, detected from content rather than the client header.
var decoders = map[string]func([]byte) (image.Image, error){
	"image/jpeg": func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
	"image/png":  func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
	"image/gif":  func(b []byte) (image.Image, error) { return gif.Decode(bytes.NewReader(b)) },
	"image/webp": func(b []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(b)) },
}

// Normalize decodes src, shrinks it to fit MaxEdge and re-encodes it as WebP.
func Normalize(src []byte) ([]byte, error) {
	if len(src) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	decode, ok := decoders[http.DetectContentType(src)]
	if !ok {
		return nil, ErrUnsupported
	}
	img, err := decode(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	img = fit(img, MaxEdge)

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out.Bytes(), nil
}

func fit(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
