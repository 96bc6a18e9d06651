// Package config loads weatherart settings from the environment. A .env file
// in the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/xob0t/weatherart/pkg/art"
	"github.com/xob0t/weatherart/pkg/canvas"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	Output            string
	DataPath          string
	Seed              uint64 // 0 = fresh seed per render
	FontPath          string
	CaptionColor      color.NRGBA
	CaptionBackground color.NRGBA
	OpenViewer        bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	seed, err := strconv.ParseUint(getenvDefault("WEATHERART_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHERART_SEED: %w", err)
	}

	fg, err := canvas.ParseHexColor(getenvDefault("WEATHERART_CAPTION_COLOR", "#ffffff"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHERART_CAPTION_COLOR: %w", err)
	}

	bg, err := canvas.ParseHexColor(getenvDefault("WEATHERART_CAPTION_BACKGROUND", "#000000"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHERART_CAPTION_BACKGROUND: %w", err)
	}
	if bg.A != 255 {
		return nil, fmt.Errorf("invalid WEATHERART_CAPTION_BACKGROUND: caption box must be opaque, got alpha %d", bg.A)
	}

	openViewer, err := strconv.ParseBool(getenvDefault("WEATHERART_OPEN_VIEWER", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHERART_OPEN_VIEWER: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(getenvDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if shutdownTimeout <= 0 {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: must be positive, got %s", shutdownTimeout)
	}

	cfg := &Config{
		Output:            getenvDefault("WEATHERART_OUTPUT", "artwork.png"),
		DataPath:          getenvDefault("WEATHERART_DATA", "data/Temp_and_rain.csv"),
		Seed:              seed,
		FontPath:          os.Getenv("WEATHERART_FONT"),
		CaptionColor:      fg,
		CaptionBackground: bg,
		OpenViewer:        openViewer,
		HTTPAddr:          getenvDefault("HTTP_ADDR", ":8080"),
		LogLevel:          getenvDefault("LOG_LEVEL", "info"),
		LogFormat:         getenvDefault("LOG_FORMAT", "text"),
		ShutdownTimeout:   shutdownTimeout,
	}

	return cfg, nil
}

// ArtOptions maps the render settings onto generator options.
func (c *Config) ArtOptions() art.Options {
	opts := art.DefaultOptions()
	opts.Seed = c.Seed
	opts.FontPath = c.FontPath
	opts.CaptionFG = c.CaptionColor
	opts.CaptionBG = c.CaptionBackground
	return opts
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
