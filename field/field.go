// Package field evaluates the gradient color field on the CPU. It mirrors
// the fragment stage in the shader package line for line, using the same
// constants in float32, so a pixel shaded here matches the GPU within float
// tolerance. The record mode, the no-GPU fallback image, and the tests all
// run on this implementation.
package field

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gopour/gopour/config"
	"github.com/gopour/gopour/palette"
)

// Evaluator shades pixels for one fixed configuration. Compile the palette
// once; Shade performs no allocation or parsing.
type Evaluator struct {
	stops      []mgl32.Vec3
	cycleSpeed float32
	grain      float32
}

// New validates cfg and compiles its palette.
func New(cfg config.Gradient) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stops, err := palette.Compile(cfg.Colors)
	if err != nil {
		return nil, err
	}
	return &Evaluator{
		stops:      stops,
		cycleSpeed: cfg.CycleSpeed,
		grain:      cfg.EffectiveGrain(),
	}, nil
}

// CyclePeriod is the wall-clock seconds after which the field repeats
// exactly: the palette advances at 0.12 per slow-time unit.
func (e *Evaluator) CyclePeriod() float32 {
	return e.cycleSpeed / 0.12
}

// Shade returns the unclamped RGB at the given fragment coordinate. px and
// py follow GL fragment conventions: pixel centers at half-integers, origin
// at the bottom-left.
func (e *Evaluator) Shade(px, py float32, width, height int, time float32) mgl32.Vec3 {
	res := mgl32.Vec2{float32(width), float32(height)}
	uv := mgl32.Vec2{px / res[0], py / res[1]}
	aspect := res[0] / res[1]
	st := mgl32.Vec2{uv[0] * aspect, uv[1]}

	slowTime := time / e.cycleSpeed
	midTime := slowTime * 1.3
	fastTime := slowTime * 2.5

	pourHeight := sin32(st[1]*3.0-slowTime*1.508+sin32(st[0]*2.0)*0.8)*0.5 + 0.5
	dripLeft := sin32(st[1]*5.0+slowTime*2.262+1.7) * smoothstep(0.4, 0.0, uv[0])
	dripRight := sin32(st[1]*4.0-midTime*1.16+4.2) * smoothstep(0.6, 1.0, uv[0])
	dripCenter := cos32(st[1]*6.0-slowTime*0.754+2.9) * (1.0 - abs32(uv[0]-0.5)*2.0)
	spreadA := sin32(st[0]*3.5+midTime*0.58)*0.5 + 0.5
	spreadB := cos32(st[0]*5.5 - fastTime*0.6032 + 1.3)
	riseA := sin32(st[1]*2.5 + midTime*1.74 + 0.6)
	riseB := cos32(st[1]*4.5 - fastTime*0.9048 + 3.1)
	diagA := sin32((st[0]+st[1])*3.0 + slowTime*1.508 + 0.9)
	diagB := sin32((st[0]-st[1])*4.0 - midTime*2.32 + 2.2)
	mixing := fbm(st.Mul(3.0).Add(orbit(slowTime*0.754).Mul(0.6)), 4)

	centered := st.Sub(mgl32.Vec2{0.5 * aspect, 0.5})
	angle := atan232(centered[1], centered[0])
	swirl := sin32(angle*3.0 + slowTime*0.754 + centered.Len()*4.0)

	breathing := fbm(st.Mul(2.0).Add(orbit(slowTime*0.754).Mul(0.5)), 4)*0.5 +
		fbm(st.Mul(3.0).Add(orbit(midTime*1.16+2.1).Mul(0.4)), 3)*0.3 +
		fbm(st.Mul(5.0).Add(orbit(fastTime*0.9048+4.4).Mul(0.3)), 2)*0.2

	gradientPosition := pourHeight*0.35 +
		breathing*0.15 +
		dripLeft*0.06 +
		dripRight*0.06 +
		dripCenter*0.05 +
		spreadA*0.08 +
		spreadB*0.04 +
		riseA*0.07 +
		riseB*0.04 +
		diagA*0.05 +
		diagB*0.03 +
		mixing*0.10 +
		swirl*0.05

	gradientPosition = fract(gradientPosition + slowTime*0.12)

	col := palette.Sample(e.stops, gradientPosition)

	grain := (hash21(mgl32.Vec2{px + time*60.0, py + time*37.0}) - 0.5) * e.grain * 0.15
	col = col.Add(mgl32.Vec3{grain, grain, grain})

	g1 := mgl32.Vec2{(0.3 + 0.2*sin32(slowTime*0.754)) * aspect, 0.35 + 0.25*cos32(slowTime*1.508+1.0)}
	g2 := mgl32.Vec2{(0.7 + 0.18*cos32(midTime*1.16+2.5)) * aspect, 0.6 + 0.2*sin32(midTime*0.58)}
	g3 := mgl32.Vec2{(0.5 + 0.3*sin32(fastTime*0.6032+4.0)) * aspect, 0.25 + 0.15*cos32(fastTime*0.3016+0.7)}
	glow := (1.0-smoothstep(0.0, 0.45, st.Sub(g1).Len()))*0.12 +
		(1.0-smoothstep(0.0, 0.4, st.Sub(g2).Len()))*0.10 +
		(1.0-smoothstep(0.0, 0.5, st.Sub(g3).Len()))*0.06

	return col.Add(mgl32.Vec3{glow, glow, glow})
}

// Render shades every pixel of img at the given time, splitting rows across
// GOMAXPROCS workers. The image's y axis points down, so rows are flipped to
// keep the GL fragment convention.
func (e *Evaluator) Render(img *image.RGBA, time float32) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}

	rows := make(chan int, height)
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				py := float32(height-1-y) + 0.5
				for x := 0; x < width; x++ {
					rgb := e.Shade(float32(x)+0.5, py, width, height, time)
					img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, toByteColor(rgb))
				}
			}
		}()
	}
	wg.Wait()
}

// Frame allocates and renders a single frame.
func (e *Evaluator) Frame(width, height int, time float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	e.Render(img, time)
	return img
}

// toByteColor applies the display pipeline's implicit clamp: the shader never
// clamps, the output stage does.
func toByteColor(rgb mgl32.Vec3) color.RGBA {
	return color.RGBA{
		R: clampByte(rgb[0]),
		G: clampByte(rgb[1]),
		B: clampByte(rgb[2]),
		A: 255,
	}
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// GLSL-equivalent scalar helpers, float32 in and out.

func hash21(p mgl32.Vec2) float32 {
	return fract(sin32(p.Dot(mgl32.Vec2{127.1, 311.7})) * 43758.5453123)
}

func vnoise(p mgl32.Vec2) float32 {
	i := mgl32.Vec2{floor32(p[0]), floor32(p[1])}
	f := mgl32.Vec2{p[0] - i[0], p[1] - i[1]}
	u := mgl32.Vec2{f[0] * f[0] * (3.0 - 2.0*f[0]), f[1] * f[1] * (3.0 - 2.0*f[1])}
	a := hash21(i)
	b := hash21(i.Add(mgl32.Vec2{1, 0}))
	c := hash21(i.Add(mgl32.Vec2{0, 1}))
	d := hash21(i.Add(mgl32.Vec2{1, 1}))
	return mix(mix(a, b, u[0]), mix(c, d, u[0]), u[1])
}

func fbm(p mgl32.Vec2, octaves int) float32 {
	var sum float32
	amp := float32(0.5)
	for i := 0; i < octaves; i++ {
		sum += amp * vnoise(p)
		p = p.Mul(2.0)
		amp *= 0.5
	}
	return sum
}

func orbit(a float32) mgl32.Vec2 {
	return mgl32.Vec2{cos32(a), sin32(a)}
}

func fract(v float32) float32 {
	return v - floor32(v)
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3.0 - 2.0*t)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

func sin32(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

func cos32(v float32) float32 {
	return float32(math.Cos(float64(v)))
}

func atan232(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
