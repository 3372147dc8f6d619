// Package palette converts configured hex color stops into the normalized
// RGB values the renderer feeds to the GPU.
package palette

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ParseError reports a color string that is not a 6-digit hex triplet.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("palette: invalid hex color %q (want 6 hex digits, optional leading #)", e.Input)
}

// HexToRGB parses a 6-digit hex color, with or without a leading '#', into
// channel values normalized to [0,1]. Anything else fails with *ParseError;
// shorthand forms like "#abc" are deliberately rejected so a typo in a
// configured palette surfaces immediately instead of rendering a wrong color.
func HexToRGB(s string) (mgl32.Vec3, error) {
	digits := s
	if len(digits) > 0 && digits[0] == '#' {
		digits = digits[1:]
	}
	if len(digits) != 6 {
		return mgl32.Vec3{}, &ParseError{Input: s}
	}

	var channels [3]float32
	for i := range channels {
		hi, ok1 := hexNibble(digits[i*2])
		lo, ok2 := hexNibble(digits[i*2+1])
		if !ok1 || !ok2 {
			return mgl32.Vec3{}, &ParseError{Input: s}
		}
		channels[i] = float32(hi<<4|lo) / 255.0
	}
	return mgl32.Vec3{channels[0], channels[1], channels[2]}, nil
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Interpolate linearly blends a and b per channel. t is expected in [0,1] but
// is not clamped; out-of-range values extrapolate.
func Interpolate(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Compile parses every stop of a configured palette up front so the per-frame
// path never touches string parsing. The first bad stop aborts with its
// *ParseError.
func Compile(stops []string) ([]mgl32.Vec3, error) {
	out := make([]mgl32.Vec3, len(stops))
	for i, s := range stops {
		rgb, err := HexToRGB(s)
		if err != nil {
			return nil, err
		}
		out[i] = rgb
	}
	return out, nil
}

// Sample maps a wrapped position in [0,1) onto a closed loop of stops: the
// palette is treated as len(stops) equally spaced segments, with the last stop
// blending back into the first.
func Sample(stops []mgl32.Vec3, pos float32) mgl32.Vec3 {
	n := len(stops)
	scaled := pos * float32(n)
	idx := int(scaled)
	if idx >= n {
		idx = n - 1
	}
	next := (idx + 1) % n
	return Interpolate(stops[idx], stops[next], scaled-float32(idx))
}
