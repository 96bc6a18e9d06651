// Package generator persists rendered images.
//
// The format is inferred from the file extension. Files are written to a
// temporary sibling and renamed into place, so a failed write never leaves a
// truncated image at the output path.
package generator

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for extensions with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported format")

// FileMode is the permission of written images.
const FileMode os.FileMode = 0o644

// Formats lists the accepted extensions.
var Formats = []string{".png", ".bmp", ".tif", ".tiff", ".jpg", ".jpeg"}

// Generate writes img to output, replacing any existing file:
//   - ".png" → PNG
//   - ".bmp" → BMP
//   - ".tif", ".tiff" → TIFF (deflate)
//   - ".jpg", ".jpeg" → JPEG quality 95
func Generate(output string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(output))
	if !Supported(ext) {
		return fmt.Errorf("%w %q: use one of %s", ErrUnsupportedFormat, ext, strings.Join(Formats, ", "))
	}

	dir := filepath.Dir(output)
	tmp, err := os.CreateTemp(dir, ".weatherart-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if err := writeAndSync(tmp, ext, img); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, FileMode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, output); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", output, err)
	}
	return nil
}

func writeAndSync(f *os.File, ext string, img image.Image) error {
	if err := Encode(f, ext, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f.Name(), err)
	}
	return nil
}

// Encode writes img to w in the format named by ext (leading dot optional).
// This is useful for in-memory generation (HTTP, WASM).
func Encode(w io.Writer, ext string, img image.Image) error {
	var err error
	switch normalizeExt(ext) {
	case ".png":
		err = png.Encode(w, img)
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", strings.TrimPrefix(normalizeExt(ext), "."), err)
	}
	return nil
}

// Supported reports whether ext has an encoder.
func Supported(ext string) bool {
	ext = normalizeExt(ext)
	for _, f := range Formats {
		if f == ext {
			return true
		}
	}
	return false
}

// ContentType returns the MIME type for ext.
func ContentType(ext string) string {
	switch normalizeExt(ext) {
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
