package palette

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHexToRGB_RoundTrip(t *testing.T) {
	// Every channel byte must normalize into [0,1] and scale back to the
	// original byte value.
	for _, rgb := range [][3]uint8{
		{0, 0, 0},
		{255, 255, 255},
		{26, 26, 46},
		{0, 212, 255},
		{123, 45, 255},
		{1, 2, 3},
		{254, 128, 64},
	} {
		hex := fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
		got, err := HexToRGB(hex)
		if err != nil {
			t.Fatalf("HexToRGB(%q): %v", hex, err)
		}
		for ch := 0; ch < 3; ch++ {
			v := got[ch]
			if v < 0 || v > 1 {
				t.Errorf("HexToRGB(%q) channel %d = %v, outside [0,1]", hex, ch, v)
			}
			back := uint8(math.Round(float64(v) * 255))
			if back != rgb[ch] {
				t.Errorf("HexToRGB(%q) channel %d round-trips to %d, want %d", hex, ch, back, rgb[ch])
			}
		}
	}
}

func TestHexToRGB_CaseAndPrefix(t *testing.T) {
	a, err := HexToRGB("#A1B2C3")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HexToRGB("a1b2c3")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("case/prefix variants disagree: %v vs %v", a, b)
	}
}

func TestHexToRGB_RejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"red",
		"#12345",
		"#1234567",
		"12345",
		"#12g456",
		"#12 456",
		"##12345",
		"#ччжжхх",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := HexToRGB(in)
			if err == nil {
				t.Fatalf("HexToRGB(%q) succeeded, want ParseError", in)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("HexToRGB(%q) error = %T, want *ParseError", in, err)
			}
			if perr.Input != in {
				t.Errorf("ParseError.Input = %q, want %q", perr.Input, in)
			}
		})
	}
}

func TestInterpolate_Boundaries(t *testing.T) {
	a := mgl32.Vec3{0.1, 0.5, 0.9}
	b := mgl32.Vec3{1, 0, 0.25}
	if got := Interpolate(a, b, 0); got != a {
		t.Errorf("Interpolate(a, b, 0) = %v, want %v", got, a)
	}
	if got := Interpolate(a, b, 1); got != b {
		t.Errorf("Interpolate(a, b, 1) = %v, want %v", got, b)
	}
}

func TestInterpolate_Extrapolates(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{1, 1, 1}
	got := Interpolate(a, b, 2)
	want := mgl32.Vec3{2, 2, 2}
	if got != want {
		t.Errorf("Interpolate(a, b, 2) = %v, want %v (no clamping)", got, want)
	}
}

func TestCompile(t *testing.T) {
	stops, err := Compile([]string{"#000000", "#ffffff"})
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 2 {
		t.Fatalf("len = %d, want 2", len(stops))
	}
	if stops[0] != (mgl32.Vec3{0, 0, 0}) || stops[1] != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("unexpected stops: %v", stops)
	}

	if _, err := Compile([]string{"#000000", "nope"}); err == nil {
		t.Error("Compile accepted a malformed stop")
	}
}

func TestSample_WrapsAroundLoop(t *testing.T) {
	stops := []mgl32.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	// Exact stop positions.
	for i, want := range stops {
		pos := float32(i) / float32(len(stops))
		if got := Sample(stops, pos); got != want {
			t.Errorf("Sample at stop %d = %v, want %v", i, got, want)
		}
	}

	// Last segment blends back into the first stop.
	got := Sample(stops, 1.0-1.0/6.0) // halfway through the final segment
	want := Interpolate(stops[2], stops[0], 0.5)
	maxDiff := float32(0)
	for ch := 0; ch < 3; ch++ {
		d := got[ch] - want[ch]
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff > 1e-6 {
		t.Errorf("Sample in wrap segment = %v, want %v", got, want)
	}
}
