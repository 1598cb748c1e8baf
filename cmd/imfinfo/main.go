// imfinfo prints and validates OpenEXR header metadata.
//
// Usage:
//
//	imfinfo [-config limits.toml] [-check] [-quiet] <filename> [<filename> ...]
//
// Options:
//
//	-config   TOML file with image and tile size limits.
//	-check    Run full header validation on each part.
//	-quiet    Suppress per-file output; exit code indicates pass/fail.
//
// Exit codes:
//
//	0: All files parsed (and, with -check, validated)
//	1: One or more files have an invalid header
//	2: Error (file not found, not an OpenEXR file, etc.)
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/scott-wilson/go-imf/imf"
	"github.com/scott-wilson/go-imf/meta"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "TOML file with image and tile size limits")
	check := flag.Bool("check", false, "run full header validation on each part")
	quiet := flag.Bool("quiet", false, "suppress per-file output")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: imfinfo [-config limits.toml] [-check] [-quiet] <filename> [<filename> ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *quiet {
		log = log.Level(zerolog.ErrorLevel)
	}

	limits := imf.Limits{}
	if *configPath != "" {
		cfg, err := LoadConfig(*configPath)
		if err != nil {
			log.Error().Err(err).Msg("cannot load config")
			return 2
		}
		limits = cfg.Limits.ToLimits()
	}

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		return 2
	}

	invalid := false
	errored := false
	for _, filename := range files {
		switch err := inspectFile(log, filename, limits, *check, *quiet); {
		case err == nil:
		case isValidationError(err):
			log.Error().Str("file", filename).Err(err).Msg("invalid header")
			invalid = true
		default:
			log.Error().Str("file", filename).Err(err).Msg("cannot read file")
			errored = true
		}
	}

	if errored {
		return 2
	}
	if invalid {
		return 1
	}
	return 0
}

func isValidationError(err error) bool {
	var verr *imf.ValidationError
	return errors.As(err, &verr)
}

func inspectFile(log zerolog.Logger, filename string, limits imf.Limits, check, quiet bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	version, headers, err := imf.DecodeHeaders(data)
	if err != nil {
		return err
	}

	if !quiet {
		printFile(filename, version, headers)
	}

	if !check {
		return nil
	}
	for i, h := range headers {
		isTiled := h.IsTiled() || (!version.IsMultiPart() && version.IsTiled())
		if err := h.SanityCheckWithLimits(limits, isTiled, version.IsMultiPart()); err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
		log.Debug().Str("file", filename).Int("part", i).Msg("header valid")
	}
	return nil
}

func printFile(filename string, version imf.VersionField, headers []*imf.Header) {
	fmt.Printf("%s:\n", filename)
	fmt.Printf("  version %d", version.Number())
	if version.IsTiled() {
		fmt.Print(", tiled")
	}
	if version.IsDeep() {
		fmt.Print(", deep")
	}
	if version.IsMultiPart() {
		fmt.Print(", multi-part")
	}
	if version.HasLongNames() {
		fmt.Print(", long names")
	}
	fmt.Println()

	for i, h := range headers {
		printPart(i, len(headers) > 1, h)
	}
}

func printPart(index int, multiPart bool, h *imf.Header) {
	if multiPart {
		name := h.Name()
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("  part %d: %s\n", index, name)
		if it, ok := h.ImageType(); ok {
			fmt.Printf("    type: %s\n", it)
		}
	}

	indent := "  "
	if multiPart {
		indent = "    "
	}

	dw := h.DataWindow()
	fmt.Printf("%sdata window: (%d, %d) - (%d, %d), %dx%d\n", indent,
		dw.Min.X, dw.Min.Y, dw.Max.X, dw.Max.Y, h.Width(), h.Height())
	fmt.Printf("%scompression: %s\n", indent, h.Compression())
	fmt.Printf("%sline order: %s\n", indent, h.LineOrder())

	if td := h.TileDescription(); td != nil {
		fmt.Printf("%stiles: %dx%d, %s, chunks: %d\n", indent,
			td.XSize, td.YSize, td.Mode, h.ChunksInFile())
	}

	if cl := h.Channels(); cl != nil {
		fmt.Printf("%schannels:\n", indent)
		for _, c := range cl.Channels() {
			fmt.Printf("%s  %s: %s, sampling %dx%d\n", indent,
				c.Name, c.Type, c.XSampling, c.YSampling)
		}
	}

	if owner := meta.Owner(h); owner != "" {
		fmt.Printf("%sowner: %s\n", indent, owner)
	}
	if fps := meta.FramesPerSecond(h); fps != nil {
		fmt.Printf("%sframes per second: %g\n", indent, fps.Float64())
	}
	if p := h.Preview(); p != nil {
		fmt.Printf("%spreview: %dx%d\n", indent, p.Width, p.Height)
	}
}
