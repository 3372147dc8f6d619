package field

import (
	"image"
	"testing"

	"github.com/gopour/gopour/config"
)

func noGrain(cfg config.Gradient) config.Gradient {
	cfg.EnableGrain = false
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	bad := config.Default
	bad.Colors = []string{"#ffffff"}
	if _, err := New(bad); err == nil {
		t.Fatal("New accepted a single-color config")
	}
}

func TestShadeDeterministic(t *testing.T) {
	e, err := New(config.Default)
	if err != nil {
		t.Fatal(err)
	}
	a := e.Shade(320.5, 240.5, 640, 480, 12.25)
	b := e.Shade(320.5, 240.5, 640, 480, 12.25)
	if a != b {
		t.Errorf("same inputs shaded differently: %v vs %v", a, b)
	}
}

func TestCyclePeriodMatchesPreset(t *testing.T) {
	e, err := New(config.Default)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := e.CyclePeriod(), config.Default.FullCycleDuration; absDiff(got, want) > 1e-4 {
		t.Errorf("CyclePeriod = %v, want %v (preset FullCycleDuration)", got, want)
	}
}

// The field must return to its starting image after one full palette cycle.
// Grain is disabled: it is a per-frame dither, not part of the cyclic field.
func TestFieldIsCyclic(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  config.Gradient
	}{
		{"default", noGrain(config.Default)},
		{"warm", noGrain(config.Warm)},
		{"complete", noGrain(config.Complete)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New(tc.cfg)
			if err != nil {
				t.Fatal(err)
			}
			period := e.CyclePeriod()

			const width, height = 640, 480
			pixels := [][2]float32{
				{320.5, 240.5}, // center
				{0.5, 0.5},
				{639.5, 479.5},
				{123.5, 401.5},
				{510.5, 77.5},
			}
			for _, t0 := range []float32{0, 5.75, 21.0} {
				for _, px := range pixels {
					a := e.Shade(px[0], px[1], width, height, t0)
					b := e.Shade(px[0], px[1], width, height, t0+period)
					for ch := 0; ch < 3; ch++ {
						if absDiff(a[ch], b[ch]) > 0.02 {
							t.Fatalf("pixel %v channel %d at t=%v: %v, after one cycle: %v",
								px, ch, t0, a[ch], b[ch])
						}
					}
				}
			}
		})
	}
}

// With intensity zero the grain term must vanish exactly, not approximately:
// the shaded color may not depend on the grain hash at all.
func TestGrainZeroIsExact(t *testing.T) {
	off := config.Default
	off.EnableGrain = false
	off.GrainIntensity = 0

	zero := config.Default
	zero.EnableGrain = true
	zero.GrainIntensity = 0

	a, err := New(off)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(zero)
	if err != nil {
		t.Fatal(err)
	}

	for _, time := range []float32{0, 1.5, 17.125} {
		for _, px := range [][2]float32{{5.5, 9.5}, {200.5, 100.5}, {639.5, 0.5}} {
			va := a.Shade(px[0], px[1], 640, 480, time)
			vb := b.Shade(px[0], px[1], 640, 480, time)
			if va != vb {
				t.Fatalf("grain at zero intensity changed output at %v t=%v: %v vs %v", px, time, va, vb)
			}
		}
	}
}

func TestGrainPerturbsOutput(t *testing.T) {
	on := config.Default
	on.EnableGrain = true
	on.GrainIntensity = 1

	off := noGrain(config.Default)

	a, err := New(on)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(off)
	if err != nil {
		t.Fatal(err)
	}

	// At full intensity at least one of a handful of pixels must differ.
	differs := false
	for x := float32(10.5); x < 20; x++ {
		if a.Shade(x, 50.5, 640, 480, 3) != b.Shade(x, 50.5, 640, 480, 3) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("full-intensity grain left every sampled pixel untouched")
	}
}

func TestRenderFillsImage(t *testing.T) {
	e, err := New(config.Warm)
	if err != nil {
		t.Fatal(err)
	}

	img := e.Frame(64, 48, 2.5)
	if got := img.Bounds(); got != image.Rect(0, 0, 64, 48) {
		t.Fatalf("bounds = %v", got)
	}

	// Alpha is always opaque; at least two distinct colors should appear in
	// any real frame.
	seen := map[[3]uint8]bool{}
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			c := img.RGBAAt(x, y)
			if c.A != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, c.A)
			}
			seen[[3]uint8{c.R, c.G, c.B}] = true
		}
	}
	if len(seen) < 2 {
		t.Error("rendered frame is a single flat color")
	}

	// Row parallelism must not change the result.
	again := e.Frame(64, 48, 2.5)
	for i := range img.Pix {
		if img.Pix[i] != again.Pix[i] {
			t.Fatal("two renders of the same frame differ")
		}
	}
}

func absDiff(a, b float32) float32 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
