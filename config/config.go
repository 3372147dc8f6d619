// Package config holds the renderer's configuration model: the Gradient
// value object, partial overrides, validation, and the named presets.
package config

import (
	"fmt"

	"github.com/gopour/gopour/palette"
)

// MaxColors is the number of palette slots the fragment stage exposes as a
// uniform array. Palettes longer than this are rejected at validation time
// rather than silently truncated.
const MaxColors = 16

// Gradient is the full configuration for one gradient surface. It is a value
// object: the engine replaces it wholesale on every update, never mutates it
// in place.
type Gradient struct {
	// Colors are the stops of a cyclic palette, as 6-digit hex strings.
	// Order is significant; the last stop blends back into the first.
	Colors []string

	// CycleSpeed divides elapsed time before it drives the field. Larger
	// values slow the whole animation down.
	CycleSpeed float32

	// FullCycleDuration documents the intended seconds for one full palette
	// traversal at the current CycleSpeed. Informational; the shader derives
	// pacing from CycleSpeed alone.
	FullCycleDuration float32

	// EnableBreathing and EnableXInversion are carried for configuration
	// compatibility but are not read by the shader: the breathing and
	// inversion terms are always active in the field, matching the observed
	// behavior of the effect this renderer reproduces.
	EnableBreathing  bool
	EnableXInversion bool

	// EnableGrain gates the per-pixel dither; GrainIntensity in [0,1]
	// scales it.
	EnableGrain    bool
	GrainIntensity float32

	// TargetFPS is informational. Frame pacing is owned by the host's
	// refresh-synchronized scheduler, not by the engine.
	TargetFPS int
}

// Partial overrides any subset of Gradient fields. Nil fields keep the prior
// value; a shallow merge is all there is.
type Partial struct {
	Colors            []string
	CycleSpeed        *float32
	FullCycleDuration *float32
	EnableBreathing   *bool
	EnableXInversion  *bool
	EnableGrain       *bool
	GrainIntensity    *float32
	TargetFPS         *int
}

// Merge returns a copy of g with every non-nil field of p applied.
func (g Gradient) Merge(p *Partial) Gradient {
	if p == nil {
		return g
	}
	if p.Colors != nil {
		g.Colors = p.Colors
	}
	if p.CycleSpeed != nil {
		g.CycleSpeed = *p.CycleSpeed
	}
	if p.FullCycleDuration != nil {
		g.FullCycleDuration = *p.FullCycleDuration
	}
	if p.EnableBreathing != nil {
		g.EnableBreathing = *p.EnableBreathing
	}
	if p.EnableXInversion != nil {
		g.EnableXInversion = *p.EnableXInversion
	}
	if p.EnableGrain != nil {
		g.EnableGrain = *p.EnableGrain
	}
	if p.GrainIntensity != nil {
		g.GrainIntensity = *p.GrainIntensity
	}
	if p.TargetFPS != nil {
		g.TargetFPS = *p.TargetFPS
	}
	return g
}

// Validate checks the whole config, including parsing every color stop, so
// that nothing downstream of it can fail in the per-frame path.
func (g Gradient) Validate() error {
	if len(g.Colors) < 2 {
		return fmt.Errorf("config: need at least 2 colors, got %d", len(g.Colors))
	}
	if len(g.Colors) > MaxColors {
		return fmt.Errorf("config: at most %d colors supported, got %d", MaxColors, len(g.Colors))
	}
	if _, err := palette.Compile(g.Colors); err != nil {
		return err
	}
	if g.CycleSpeed <= 0 {
		return fmt.Errorf("config: cycleSpeed must be positive, got %v", g.CycleSpeed)
	}
	if g.GrainIntensity < 0 || g.GrainIntensity > 1 {
		return fmt.Errorf("config: grainIntensity must be in [0,1], got %v", g.GrainIntensity)
	}
	return nil
}

// EffectiveGrain is the grain intensity the shader actually receives: zero
// whenever grain is disabled.
func (g Gradient) EffectiveGrain() float32 {
	if !g.EnableGrain {
		return 0
	}
	return g.GrainIntensity
}

// Default is the cool-toned preset: eight cyan/blue/purple stops, one full
// palette traversal every 37.5 seconds.
var Default = Gradient{
	Colors: []string{
		"#00d4ff", // cyan
		"#0099ff",
		"#0055ff",
		"#2b2bff",
		"#5d2bff",
		"#8a2bff",
		"#b44dff",
		"#6ee7ff",
	},
	CycleSpeed:        4.5,
	FullCycleDuration: 37.5,
	EnableBreathing:   true,
	EnableXInversion:  true,
	EnableGrain:       true,
	GrainIntensity:    0.05,
	TargetFPS:         60,
}

// Warm is a six-stop amber/rose preset at the same pacing.
var Warm = Gradient{
	Colors: []string{
		"#ff9d00",
		"#ff6a00",
		"#ff3d3d",
		"#ff2e88",
		"#ff5ab8",
		"#ffc46b",
	},
	CycleSpeed:        4.5,
	FullCycleDuration: 37.5,
	EnableBreathing:   true,
	EnableXInversion:  true,
	EnableGrain:       true,
	GrainIntensity:    0.05,
	TargetFPS:         60,
}

// Complete blends both palettes into a fourteen-stop loop.
var Complete = Gradient{
	Colors: []string{
		"#00d4ff",
		"#0099ff",
		"#0055ff",
		"#2b2bff",
		"#5d2bff",
		"#8a2bff",
		"#b44dff",
		"#ff5ab8",
		"#ff2e88",
		"#ff3d3d",
		"#ff6a00",
		"#ff9d00",
		"#ffc46b",
		"#6ee7ff",
	},
	CycleSpeed:        4.5,
	FullCycleDuration: 37.5,
	EnableBreathing:   true,
	EnableXInversion:  true,
	EnableGrain:       true,
	GrainIntensity:    0.05,
	TargetFPS:         60,
}
