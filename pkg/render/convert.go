package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
)

// ConverterBinary is the external SVG converter.
const ConverterBinary = "rsvg-convert"

// ErrConverterMissing is returned when rsvg-convert is not on PATH.
var ErrConverterMissing = fmt.Errorf("%s not found: install librsvg (brew install librsvg, apt install librsvg2-bin)", ConverterBinary)

// Available reports whether rsvg-convert can be found.
func Available() bool {
	_, err := exec.LookPath(ConverterBinary)
	return err == nil
}

// ToPNG rasterizes svg at the given scale (1 = native size).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	z := strconv.FormatFloat(scale, 'f', -1, 64)
	return convert(svg, "-f", "png", "-z", z)
}

// ToPDF converts svg to a single-page PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "-f", "pdf")
}

func convert(svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(ConverterBinary)
	if err != nil {
		return nil, ErrConverterMissing
	}

	var out, stderr bytes.Buffer
	cmd := exec.Command(path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", ConverterBinary, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", ConverterBinary, err)
	}
	return out.Bytes(), nil
}
