// generator.go - Render orchestration. A Generator turns one weather sample
// into an artwork by running the stages in order on a fresh canvas:
//
//	validating → band_selected → shapes_emitted → particles_applied →
//	texture_applied → labeled → saved
//
// Any failure moves the render to failed and discards the canvas.
package art

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/xob0t/weatherart/pkg/canvas"
	"github.com/xob0t/weatherart/pkg/generator"
	"github.com/xob0t/weatherart/pkg/observability"
)

// Options configures a Generator. Zero fields take the defaults.
type Options struct {
	Width       int
	Height      int
	NoisePoints int    // negative disables the texture
	Seed        uint64 // 0 draws a fresh seed from the clock per render
	FontPath    string // empty uses the embedded Go Regular
	FontData    []byte // in-memory font, takes precedence over FontPath
	CaptionFG   color.NRGBA
	CaptionBG   color.NRGBA // alpha is ignored, the caption box is always opaque
	Bands       BandTable
	Clock       clockwork.Clock
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		Width:       CanvasWidth,
		Height:      CanvasHeight,
		NoisePoints: NoisePoints,
		CaptionFG:   color.NRGBA{255, 255, 255, 255},
		CaptionBG:   color.NRGBA{0, 0, 0, 255},
		Bands:       DefaultBands,
		Clock:       clockwork.NewRealClock(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	switch {
	case o.NoisePoints == 0:
		o.NoisePoints = d.NoisePoints
	case o.NoisePoints < 0:
		o.NoisePoints = 0
	}
	if o.CaptionFG == (color.NRGBA{}) {
		o.CaptionFG = d.CaptionFG
	}
	if o.CaptionBG == (color.NRGBA{}) {
		o.CaptionBG = d.CaptionBG
	}
	o.CaptionBG.A = 255
	if len(o.Bands) == 0 {
		o.Bands = d.Bands
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	return o
}

// Stats describes one finished or failed render.
type Stats struct {
	Band        Band
	Seed        uint64
	Shapes      int
	Kinds       map[ShapeKind]int
	Particles   int
	NoisePoints int
	Stormy      bool
	Stage       Stage
	Duration    time.Duration
}

// Generator renders weather samples. It is safe for concurrent use: every
// render gets its own canvas, random source and font face.
type Generator struct {
	opts    Options
	fonts   *canvas.FontManager
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewGenerator builds a Generator. logger and metrics may be nil.
func NewGenerator(opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()

	var fonts *canvas.FontManager
	var err error
	if len(opts.FontData) > 0 {
		fonts, err = canvas.NewFontManagerFromBytes(opts.FontData)
	} else {
		fonts, err = canvas.NewFontManager(opts.FontPath, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("load caption font: %w", err)
	}

	return &Generator{
		opts:    opts,
		fonts:   fonts,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Options returns the effective options.
func (g *Generator) Options() Options {
	return g.opts
}

// Render draws s with the configured seed, or a fresh one.
func (g *Generator) Render(s Sample) (*image.RGBA, Stats, error) {
	return g.RenderWithSeed(s, 0)
}

// RenderWithSeed draws s with a fixed seed. Equal seeds and samples give
// identical pixels. A zero seed behaves like Render.
func (g *Generator) RenderWithSeed(s Sample, seed uint64) (*image.RGBA, Stats, error) {
	img, stats, err := g.render(s, seed)
	g.record(stats, err)
	return img, stats, err
}

// Generate renders s and writes it to output. It returns the written path, or
// "" if validation, drawing or persistence failed. It never panics.
func (g *Generator) Generate(s Sample, output string) (path string) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("generate panicked", "output", output, "panic", r)
			path = ""
		}
	}()

	img, stats, err := g.render(s, 0)
	if err == nil {
		if perr := generator.Generate(output, img); perr != nil {
			err = &StageError{Stage: StageLabeled, Err: fmt.Errorf("%w: %w", ErrPersist, perr)}
			stats.Stage = StageFailed
		} else {
			stats.Stage = StageSaved
			g.logger.Debug("render stage", "stage", StageSaved, "output", output)
		}
	}
	g.record(stats, err)
	if err != nil {
		return ""
	}
	return output
}

func (g *Generator) nextSeed() uint64 {
	if g.opts.Seed != 0 {
		return g.opts.Seed
	}
	return uint64(g.opts.Clock.Now().UnixNano())
}

func (g *Generator) render(s Sample, seed uint64) (img *image.RGBA, stats Stats, err error) {
	if seed == 0 {
		seed = g.nextSeed()
	}
	start := g.opts.Clock.Now()
	stats = Stats{Seed: seed, Stage: StageValidating}

	advance := func(st Stage) {
		stats.Stage = st
		g.logger.Debug("render stage", "stage", st, "seed", seed)
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = &StageError{Stage: stats.Stage, Err: fmt.Errorf("%w: %v", ErrRender, r)}
		}
		stats.Duration = g.opts.Clock.Since(start)
		if err != nil {
			stats.Stage = StageFailed
		}
	}()

	if verr := s.Validate(); verr != nil {
		return nil, stats, &StageError{Stage: StageValidating, Err: verr}
	}

	rule := g.opts.Bands.Rule(s.Temperature)
	band, bg := g.opts.Bands.Select(s.Temperature)
	stats.Band = band
	if rule != nil {
		stats.Stormy = rule.Stormy(s.Rainfall)
	}
	c := canvas.New(g.opts.Width, g.opts.Height, bg)
	rng := NewRand(seed)
	advance(StageBandSelected)

	emitted := EmitShapes(c, rule, s, rng)
	stats.Shapes, stats.Kinds = emitted.Count, emitted.Kinds
	advance(StageShapesEmitted)

	stats.Particles = ScatterParticles(c, rule, s.Rainfall, rng)
	advance(StageParticlesApplied)

	ApplyNoise(c, g.opts.NoisePoints, rng)
	stats.NoisePoints = g.opts.NoisePoints
	advance(StageTextureApplied)

	face, ferr := g.fonts.Face(CaptionFontSize, canvas.DefaultDPI)
	if ferr != nil {
		return nil, stats, &StageError{Stage: stats.Stage, Err: fmt.Errorf("%w: %w", ErrRender, ferr)}
	}
	defer face.Close()
	Annotate(c, s, face, g.opts.CaptionFG, g.opts.CaptionBG)
	advance(StageLabeled)

	return c.Image(), stats, nil
}

// Outcome maps a render error to its metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, ErrInput):
		return observability.OutcomeInputError
	case errors.Is(err, ErrPersist):
		return observability.OutcomePersistError
	default:
		return observability.OutcomeRenderError
	}
}

func (g *Generator) record(stats Stats, err error) {
	if err != nil {
		g.logger.Error("render failed",
			"seed", stats.Seed,
			"band", stats.Band,
			"error", err,
		)
	} else {
		g.logger.Info("artwork rendered",
			"seed", stats.Seed,
			"band", stats.Band,
			"shapes", stats.Shapes,
			"particles", stats.Particles,
			"stormy", stats.Stormy,
			"duration", stats.Duration,
		)
	}

	if g.metrics == nil {
		return
	}
	g.metrics.Renders.WithLabelValues(Outcome(err)).Inc()
	if err == nil || errors.Is(err, ErrPersist) {
		g.metrics.RenderDuration.Observe(stats.Duration.Seconds())
		g.metrics.ShapesEmitted.Observe(float64(stats.Shapes))
		g.metrics.ParticlesDrawn.Observe(float64(stats.Particles))
	}
}
