package material

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyTexturePath is returned when a texture is created without a source path.
var ErrEmptyTexturePath = errors.New("texture path must not be empty")

// Texture references a 2D image used by a material, with UV tiling factors.
// Pixels are read lazily by Decode when the renderer first uploads the texture.
type Texture struct {
	// Path is the file path of the image. It also keys the GPU upload cache.
	Path string

	// Data holds encoded image bytes. When set it takes precedence over Path.
	Data []byte

	// UScale is the horizontal tiling factor applied to texture coordinates.
	UScale float32

	// VScale is the vertical tiling factor applied to texture coordinates.
	VScale float32
}

// TextureBuilderOption is a function that configures a Texture during construction.
type TextureBuilderOption func(*Texture)

// WithUVScale is an option builder that sets both tiling factors of the texture.
//
// Parameters:
//   - u: horizontal tiling factor
//   - v: vertical tiling factor
//
// Returns:
//   - TextureBuilderOption: a function that applies the scale option to a Texture
func WithUVScale(u, v float32) TextureBuilderOption {
	return func(t *Texture) {
		t.UScale = u
		t.VScale = v
	}
}

// NewTexture creates a Texture for the given path with unit tiling.
//
// Parameters:
//   - path: the image file path or URL
//   - options: functional options to further configure the texture
//
// Returns:
//   - *Texture: the texture
//   - error: ErrEmptyTexturePath if path is blank
func NewTexture(path string, options ...TextureBuilderOption) (*Texture, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyTexturePath
	}
	t := &Texture{Path: path, UScale: 1, VScale: 1}
	for _, opt := range options {
		opt(t)
	}
	return t, nil
}

// Decode decodes the texture to tightly packed RGBA8 pixels.
// PNG and JPEG are supported.
//
// Returns:
//   - []byte: RGBA pixel data, 4 bytes per pixel, row-major
//   - uint32: width in pixels
//   - uint32: height in pixels
//   - error: error if the image cannot be read or decoded
func (t *Texture) Decode() ([]byte, uint32, uint32, error) {
	if t == nil {
		return nil, 0, 0, errors.New("texture is nil")
	}

	var img image.Image
	var err error
	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("decode embedded image: %w", err)
		}
	} else {
		file, openErr := os.Open(t.Path)
		if openErr != nil {
			return nil, 0, 0, fmt.Errorf("open texture %s: %w", t.Path, openErr)
		}
		defer file.Close()
		img, _, err = image.Decode(file)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("decode texture %s: %w", t.Path, err)
		}
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba.Pix, uint32(bounds.Dx()), uint32(bounds.Dy()), nil
}

// CubeTexture references a prefiltered environment map used for image-based lighting.
type CubeTexture struct {
	// Path is the file path or URL of the environment file.
	Path string
}

// NewCubeTexture creates a CubeTexture for the given environment file.
// Prefiltered ".env" files and ".dds" cube maps are accepted.
//
// Parameters:
//   - path: the environment file path or URL
//
// Returns:
//   - *CubeTexture: the cube texture
//   - error: error if the path is blank or has an unsupported extension
func NewCubeTexture(path string) (*CubeTexture, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyTexturePath
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".env", ".dds":
	default:
		return nil, errors.New("unsupported environment texture extension: " + ext)
	}
	return &CubeTexture{Path: path}, nil
}
