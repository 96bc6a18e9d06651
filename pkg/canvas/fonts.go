// fonts.go - Font management with custom TTF support and embedded fallback font.
// Uses golang.org/x/image/font for OpenType rendering. Defaults to Go Regular
// font when no custom font is specified or when custom font loading fails.
package canvas

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultDPI is used when a face is requested with a non-positive DPI.
const DefaultDPI = 72

// FontManager handles font loading with fallback.
type FontManager struct {
	parsed *opentype.Font
	custom bool
}

// NewFontManager creates a font manager with the specified font.
// If customPath is empty or unreadable, uses the embedded Go font.
func NewFontManager(customPath string, logger *slog.Logger) (*FontManager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var fontData []byte
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			logger.Warn("could not load custom font, using default", "path", customPath, "error", err)
		} else {
			fontData = data
		}
	}

	custom := fontData != nil
	if !custom {
		fontData = goregular.TTF
	}

	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return &FontManager{parsed: parsed, custom: custom}, nil
}

// NewFontManagerFromBytes parses an in-memory TTF/OTF font. Used where there
// is no filesystem (WASM).
func NewFontManagerFromBytes(data []byte) (*FontManager, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontManager{parsed: parsed, custom: true}, nil
}

// Custom reports whether a user-supplied font is in use.
func (fm *FontManager) Custom() bool {
	return fm.custom
}

// Face returns a font.Face at the specified size. Faces are not safe for
// concurrent use, so every render asks for its own.
func (fm *FontManager) Face(size, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	face, err := opentype.NewFace(fm.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}

	return face, nil
}
