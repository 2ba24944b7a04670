package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// Decode decodes image data, choosing the codec from the file name.
// PNG and JPEG are sniffed; TGA and WebP are selected by extension since
// TGA has no magic number.
func Decode(name string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)

	var img image.Image
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tga":
		img, err = tga.Decode(r)
	case ".webp":
		img, err = webp.Decode(r)
	default:
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

// Load decodes data and wraps it in a Texture with the default sampler.
func Load(name string, data []byte) (*Texture, error) {
	img, err := Decode(name, data)
	if err != nil {
		return nil, err
	}
	return New(name, img), nil
}
