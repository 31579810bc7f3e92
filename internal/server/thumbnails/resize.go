// Package thumbnails derives fixed-width renditions of uploaded images.
package thumbnails

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

// Key is the blob key of the rendition of blobRef at the given width.
func Key(blobRef string, width int) string {
	return fmt.Sprintf("%s_%d", blobRef, width)
}

// RenditionMimeType is the content type of a rendition whose original has
// content type src. WebP sources are re-encoded as PNG.
func RenditionMimeType(src string) string {
	if src == "image/webp" {
		return "image/png"
	}
	return src
}

// Resize scales the encoded image src to width pixels, keeping the aspect
// ratio, and encodes the result in the source format. Images already
// narrower than width keep their size.
func Resize(src []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	if w > width {
		h = max(1, (h*width+w/2)/w)
		w = width
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, dst, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		err = gif.Encode(&out, dst, nil)
	default:
		err = png.Encode(&out, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return out.Bytes(), nil
}
