package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	dimaging "github.com/disintegration/imaging"
	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Load reads an image file from disk into a Buffer. Supports PNG, JPEG, GIF,
// WEBP, BMP, TIFF and TGA, selected by file extension.
// The path is normalized: ~ is expanded to the user's home directory,
// and relative paths are resolved to absolute.
func Load(path string) (*Buffer, error) {
	path = ExpandPath(path)
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return FromImage(img), nil
}

func decoderFor(path string) (func(*os.File) (image.Image, error), error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return func(f *os.File) (image.Image, error) { return png.Decode(f) }, nil
	case ".jpg", ".jpeg":
		return func(f *os.File) (image.Image, error) { return jpeg.Decode(f) }, nil
	case ".gif":
		return func(f *os.File) (image.Image, error) { return gif.Decode(f) }, nil
	case ".webp":
		return func(f *os.File) (image.Image, error) { return webp.Decode(f) }, nil
	case ".bmp":
		return func(f *os.File) (image.Image, error) { return bmp.Decode(f) }, nil
	case ".tif", ".tiff":
		return func(f *os.File) (image.Image, error) { return tiff.Decode(f) }, nil
	case ".tga":
		// Decoded via the blank import of github.com/ftrvxmtrx/tga
		return func(f *os.File) (image.Image, error) {
			img, _, err := image.Decode(f)
			return img, err
		}, nil
	default:
		return nil, fmt.Errorf("%w %q (supported: png, jpg, jpeg, gif, webp, bmp, tif, tiff, tga)", ErrUnsupportedFormat, ext)
	}
}

// Save encodes the buffer to disk, choosing the format from the extension.
// WEBP output is lossless; every other format goes through
// github.com/disintegration/imaging.
// The path is normalized: ~ is expanded and relative paths are resolved.
func Save(path string, b *Buffer) error {
	path = ExpandPath(path)
	if err := CheckSaveFormat(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if ext == ".webp" {
		err = nativewebp.Encode(f, b.NRGBA(), nil)
	} else {
		format, _ := dimaging.FormatFromFilename(path)
		err = dimaging.Encode(f, b.NRGBA(), format)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", strings.TrimPrefix(ext, "."), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// CheckSaveFormat returns ErrUnsupportedFormat when Save cannot encode
// files with the extension of path.
func CheckSaveFormat(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".webp" {
		return nil
	}
	if _, err := dimaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%w %q (supported: png, jpg, jpeg, gif, webp, bmp, tif, tiff)", ErrUnsupportedFormat, ext)
	}
	return nil
}

// ExpandPath normalizes a file path by expanding ~ to the user's home
// directory and resolving relative paths to absolute.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	// On Windows, also handle ~\
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "~\\") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return filepath.Clean(path)
}
