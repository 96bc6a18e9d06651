// Package session runs the interactive month/year prompt loop: read a month
// and a year, look up the weather, render it and show the result.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xob0t/weatherart/pkg/art"
	"github.com/xob0t/weatherart/pkg/viewer"
)

// Lookup resolves a month and year to a weather sample.
type Lookup interface {
	Lookup(month, year int) (art.Sample, error)
}

// Renderer writes the artwork for a sample and returns its path, or "" on failure.
type Renderer interface {
	Generate(s art.Sample, output string) string
}

// Opener shows a rendered file to the user.
type Opener func(path string) error

// Config holds the loop settings.
type Config struct {
	Output     string
	MinYear    int
	MaxYear    int
	OpenViewer bool
}

// Session is one interactive run over a reader and writer.
type Session struct {
	cfg      Config
	in       *bufio.Scanner
	out      io.Writer
	data     Lookup
	renderer Renderer
	logger   *slog.Logger

	// Open defaults to viewer.Open.
	Open Opener
}

var errQuit = errors.New("quit")

// inputLine is one line of input, or the error that ended input.
type inputLine struct {
	text string
	err  error
}

// New creates a session. logger may be nil.
func New(in io.Reader, out io.Writer, data Lookup, renderer Renderer, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cfg:      cfg,
		in:       bufio.NewScanner(in),
		out:      out,
		data:     data,
		renderer: renderer,
		logger:   logger,
		Open:     viewer.Open,
	}
}

// Run loops until the user enters q, input ends or ctx is cancelled. A
// cancelled ctx interrupts a pending prompt. Run must be called at most once.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.banner()
	s.printf("\nData available from %d to %d\n", s.cfg.MinYear, s.cfg.MaxYear)

	lines := s.readLines(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return s.finish(err)
		}

		s.printf("\nEnter 'q' at any prompt to quit\n")

		month, err := s.promptInt(ctx, lines, "Enter month (1-12): ", 1, 12)
		if err != nil {
			return s.finish(err)
		}
		year, err := s.promptInt(ctx, lines, fmt.Sprintf("Enter year (%d-%d): ", s.cfg.MinYear, s.cfg.MaxYear), s.cfg.MinYear, s.cfg.MaxYear)
		if err != nil {
			return s.finish(err)
		}

		s.handle(month, year)
		s.printf("\n%s\n", strings.Repeat("-", 40))
	}
}

func (s *Session) handle(month, year int) {
	s.printf("\nFetching weather data for %d/%d...\n", month, year)

	sample, err := s.data.Lookup(month, year)
	if err != nil {
		s.logger.Debug("lookup failed", "month", month, "year", year, "error", err)
		s.printf("No data found for the given month and year (%v).\n", err)
		return
	}
	s.printf("Average Temperature: %.2f°C, Average Rainfall: %.2fmm\n", sample.Temperature, sample.Rainfall)

	s.printf("\nGenerating artwork based on weather data...\n")
	path := s.renderer.Generate(sample, s.cfg.Output)
	if path == "" {
		s.printf("Failed to generate artwork.\n")
		return
	}
	s.printf("Artwork generated successfully!\n")

	if !s.cfg.OpenViewer || s.Open == nil {
		s.printf("\nArtwork saved as %s\n", path)
		return
	}
	if err := s.Open(path); err != nil {
		s.printf("Note: could not display image automatically (%v)\n", err)
		s.printf("You can view the saved image at: %s\n", absPath(path))
		return
	}
	s.printf("\nArtwork saved as %s\n", path)
}

// readLines scans input on its own goroutine so a prompt can also wait on
// ctx. The scanner may stay blocked in Read after ctx is done; it is dropped
// with the process.
func (s *Session) readLines(ctx context.Context) <-chan inputLine {
	ch := make(chan inputLine)
	go func() {
		defer close(ch)
		for s.in.Scan() {
			select {
			case ch <- inputLine{text: s.in.Text()}:
			case <-ctx.Done():
				return
			}
		}
		err := s.in.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case ch <- inputLine{err: err}:
		case <-ctx.Done():
		}
	}()
	return ch
}

// promptInt re-prompts until it reads an integer in [lo, hi]. It returns
// errQuit for q, io.EOF when input ends and ctx.Err() when interrupted.
func (s *Session) promptInt(ctx context.Context, lines <-chan inputLine, prompt string, lo, hi int) (int, error) {
	for {
		s.printf("%s", prompt)

		var in inputLine
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return 0, io.EOF
			}
			in = l
		}
		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("read input: %w", in.err)
		}

		text := strings.TrimSpace(in.text)
		if strings.EqualFold(text, "q") {
			return 0, errQuit
		}

		v, err := strconv.Atoi(text)
		if err != nil {
			s.printf("Please enter a valid number.\n")
			continue
		}
		if v < lo || v > hi {
			s.printf("Value must be between %d and %d. Please try again.\n", lo, hi)
			continue
		}
		return v, nil
	}
}

func (s *Session) finish(err error) error {
	switch {
	case errors.Is(err, errQuit), errors.Is(err, io.EOF):
		s.printf("\nThank you for using Weather Art Generator! Goodbye.\n")
		return nil
	case errors.Is(err, context.Canceled):
		s.printf("\nInterrupted. Goodbye.\n")
		return nil
	}
	return err
}

func (s *Session) banner() {
	line := strings.Repeat("=", 60)
	s.printf("\n%s\n", line)
	s.printf("   WEATHER ART GENERATOR\n")
	s.printf("       Turn weather data into beautiful art\n")
	s.printf("%s\n", line)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
