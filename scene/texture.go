package scene

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Texture holds CPU-side pixel data for a 2D texture.
// ID is set by the OpenGL backend after upload and cleared on delete.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
	ID     uint32
}

// Uploaded reports whether the texture currently has a GPU object.
func (t *Texture) Uploaded() bool {
	return t != nil && t.ID != 0
}

// LoadTexture reads a BMP, PNG or JPEG file and converts it to RGBA8.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	tex, err := DecodeTexture(filepath.Base(path), f)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", path, err)
	}
	return tex, nil
}

// DecodeTexture decodes any registered image format from r.
func DecodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return TextureFromImage(name, img), nil
}

// TextureFromImage converts img to an RGBA8 texture whose origin is the
// top-left pixel.
func TextureFromImage(name string, img image.Image) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
}

// AlphaFromLuminance replaces each pixel's alpha with its luminance, for
// cloud maps stored without an alpha channel.
func (t *Texture) AlphaFromLuminance() {
	for i := 0; i+3 < len(t.Pixels); i += 4 {
		r, g, b := uint32(t.Pixels[i]), uint32(t.Pixels[i+1]), uint32(t.Pixels[i+2])
		t.Pixels[i+3] = uint8((299*r + 587*g + 114*b) / 1000)
	}
}
