// weatherart turns monthly temperature and rainfall into abstract artwork.
//
// Usage:
//
//	weatherart -temp <°C> -rain <mm> [-o <file>] [options]
//	weatherart interactive [-data <csv>]
//	weatherart lookup -month <1-12> -year <yyyy> [-data <csv>]
//	weatherart serve [-addr :8080] [-data <csv>]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/xob0t/weatherart/clients/server"
	"github.com/xob0t/weatherart/pkg/art"
	"github.com/xob0t/weatherart/pkg/config"
	"github.com/xob0t/weatherart/pkg/dataset"
	"github.com/xob0t/weatherart/pkg/observability"
	"github.com/xob0t/weatherart/pkg/session"
	"github.com/xob0t/weatherart/pkg/viewer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "interactive":
		err = runInteractive(cfg, logger, args[1:])
	case "lookup":
		err = runLookup(cfg, logger, args[1:], os.Stdout)
	case "serve":
		err = runServe(cfg, logger, args[1:])
	case "help", "-h", "--help":
		printUsage()
	case "render":
		err = runRender(cfg, logger, args[1:], os.Stdout)
	default:
		// Default: render mode (all flags on root).
		err = runRender(cfg, logger, args, os.Stdout)
	}
	if err != nil {
		fatal(err)
	}
}

func runRender(cfg *config.Config, logger *slog.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("weatherart", flag.ContinueOnError)

	var (
		temp, rain float64
		open       bool
	)
	fs.Float64Var(&temp, "temp", math.NaN(), "Average temperature in °C")
	fs.Float64Var(&rain, "rain", math.NaN(), "Average rainfall in mm")
	bindCommon(fs, cfg)
	fs.BoolVar(&open, "open", false, "Open the result in the default image viewer")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if math.IsNaN(temp) || math.IsNaN(rain) {
		printUsage()
		return errors.New("-temp and -rain are required")
	}

	g, err := art.NewGenerator(cfg.ArtOptions(), logger, nil)
	if err != nil {
		return err
	}

	sample := art.Sample{Temperature: temp, Rainfall: rain}
	fmt.Fprintf(out, "Generating: %s (%s)\n", cfg.Output, sample.Caption())
	path := g.Generate(sample, cfg.Output)
	if path == "" {
		return fmt.Errorf("failed to generate artwork for %s", sample.Caption())
	}
	fmt.Fprintf(out, "Done: %s\n", path)

	if open {
		if err := viewer.Open(path); err != nil {
			logger.Warn("could not open viewer", "path", path, "error", err)
		}
	}
	return nil
}

func runInteractive(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "Weather CSV (Month, Year, tem, rain)")
	bindCommon(fs, cfg)
	fs.BoolVar(&cfg.OpenViewer, "view", cfg.OpenViewer, "Open each artwork in the default image viewer")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, err := dataset.Load(cfg.DataPath, logger)
	if err != nil {
		return fmt.Errorf("failed to load data from %s: %w", cfg.DataPath, err)
	}
	lo, hi, ok := ds.YearRange()
	if !ok {
		logger.Warn("could not determine available years, using fallback range")
		lo, hi = dataset.FallbackMinYear, dataset.FallbackMaxYear
	}

	g, err := art.NewGenerator(cfg.ArtOptions(), logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := session.New(os.Stdin, os.Stdout, ds, g, session.Config{
		Output:     cfg.Output,
		MinYear:    lo,
		MaxYear:    hi,
		OpenViewer: cfg.OpenViewer,
	}, logger)
	return s.Run(ctx)
}

func runLookup(cfg *config.Config, logger *slog.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	var (
		month, year int
		asJSON      bool
	)
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "Weather CSV (Month, Year, tem, rain)")
	fs.IntVar(&month, "month", 0, "Month (1-12)")
	fs.IntVar(&year, "year", 0, "Year")
	fs.BoolVar(&asJSON, "json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, err := dataset.Load(cfg.DataPath, logger)
	if err != nil {
		return err
	}
	sample, err := ds.Lookup(month, year)
	if err != nil {
		return err
	}
	band, _ := art.SelectBand(sample.Temperature)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"month":       month,
			"year":        year,
			"temperature": sample.Temperature,
			"rainfall":    sample.Rainfall,
			"band":        band.String(),
		})
	}
	fmt.Fprintf(out, "Average Temperature: %.2f°C, Average Rainfall: %.2fmm (%s)\n",
		sample.Temperature, sample.Rainfall, band)
	return nil
}

func runServe(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "Listen address")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "Weather CSV for the lookup routes")
	bindCommon(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	g, err := art.NewGenerator(cfg.ArtOptions(), logger, metrics)
	if err != nil {
		return err
	}

	// The render routes work without a dataset.
	var data server.Lookup
	if ds, err := dataset.Load(cfg.DataPath, logger); err != nil {
		logger.Warn("dataset unavailable, lookup routes disabled", "path", cfg.DataPath, "error", err)
	} else {
		data = ds
	}

	srv, err := server.NewServer(cfg.HTTPAddr, g, data, logger, metrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, cfg.ShutdownTimeout)
}

// bindCommon registers the render flags shared by every subcommand.
func bindCommon(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Output, "o", cfg.Output, "Output file (.png, .bmp, .tif, .tiff, .jpg, .jpeg)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Output file (.png, .bmp, .tif, .tiff, .jpg, .jpeg)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed, 0 for a fresh one per render")
	fs.StringVar(&cfg.FontPath, "font", cfg.FontPath, "Caption font (TTF/OTF), empty for Go Regular")
}

func fatal(err error) {
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`weatherart - Turn weather data into abstract art

USAGE:
    weatherart -temp <°C> -rain <mm> [-o <file>] [options]
    weatherart interactive [-data <csv>] [options]
    weatherart lookup -month <1-12> -year <yyyy> [-data <csv>] [-json]
    weatherart serve [-addr :8080] [-data <csv>]

RENDER:
    -temp <°C>             Average temperature (required)
    -rain <mm>             Average rainfall (required)
    -o, -output <path>     Output file (default: artwork.png)
    -seed <n>              Fixed seed for a reproducible image
    -font <path>           Caption font
    -open                  Open the result when done

INTERACTIVE:
    Prompts for a month and year, looks up the averages in the CSV,
    renders and opens the artwork. Enter q at any prompt to quit.
    -view=false            Do not open the viewer

SERVER:
    GET  /api/render?temp=&rain=[&seed=][&format=]
    POST /api/render       {"temperature":..,"rainfall":..,"seed":..,"format":..}
    GET  /api/render/{year}/{month}
    GET  /api/lookup?month=&year=
    GET  /healthz, /metrics

ENVIRONMENT:
    WEATHERART_OUTPUT, WEATHERART_DATA, WEATHERART_SEED, WEATHERART_FONT,
    WEATHERART_CAPTION_COLOR, WEATHERART_CAPTION_BACKGROUND,
    WEATHERART_OPEN_VIEWER, HTTP_ADDR, LOG_LEVEL, LOG_FORMAT, SHUTDOWN_TIMEOUT

EXAMPLES:
    weatherart -temp 22 -rain 8
    weatherart -temp 35 -rain 50 -seed 42 -o storm.tiff
    weatherart interactive -data data/Temp_and_rain.csv
    weatherart serve -addr :9090
`)
}
