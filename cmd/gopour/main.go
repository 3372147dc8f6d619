package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gopour/gopour/config"
	"github.com/gopour/gopour/engine"
	"github.com/gopour/gopour/field"
	"github.com/gopour/gopour/glfwcontext"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var width = flag.Int("width", 1280, "Window or frame width in pixels")
	var height = flag.Int("height", 720, "Window or frame height in pixels")
	var paletteName = flag.String("palette", "default", "Palette preset: default, warm or complete")
	var speed = flag.Float64("speed", 0, "Override the preset cycle speed (0 keeps the preset value)")
	var grain = flag.Float64("grain", -1, "Override grain intensity in [0,1] (-1 keeps the preset value)")

	var record = flag.Bool("record", false, "Render a PNG frame sequence on the CPU instead of opening a window")
	var duration = flag.Float64("duration", 37.5, "Seconds to record")
	var fps = flag.Int("fps", 30, "Frames per second for recording")
	var output = flag.String("o", "frames", "Output directory for recorded frames")
	var still = flag.String("still", "", "Render a single frame to this PNG file and exit")
	var stillTime = flag.Float64("time", 0, "Timestamp in seconds for -still")
	var help = flag.Bool("help", false, "Show help message")

	flag.Parse()

	if *help {
		fmt.Println("gopour - animated paint-pour gradient renderer")
		flag.PrintDefaults()
		return
	}

	preset, err := presetByName(*paletteName)
	if err != nil {
		log.Fatalf("%v", err)
	}
	cfg := preset.Merge(overridesFromFlags(*speed, *grain))
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	switch {
	case *still != "":
		if err := renderStill(cfg, *width, *height, float32(*stillTime), *still); err != nil {
			log.Fatalf("Still render failed: %v", err)
		}
		log.Printf("Wrote %s", *still)
	case *record:
		if err := recordFrames(cfg, *width, *height, *duration, *fps, *output); err != nil {
			log.Fatalf("Recording failed: %v", err)
		}
	default:
		runInteractive(cfg, *width, *height)
	}
}

func presetByName(name string) (config.Gradient, error) {
	switch name {
	case "default":
		return config.Default, nil
	case "warm":
		return config.Warm, nil
	case "complete":
		return config.Complete, nil
	}
	return config.Gradient{}, fmt.Errorf("unknown palette %q (want default, warm or complete)", name)
}

func overridesFromFlags(speed, grain float64) *config.Partial {
	p := &config.Partial{}
	if speed > 0 {
		s := float32(speed)
		p.CycleSpeed = &s
	}
	if grain >= 0 {
		g := float32(grain)
		on := g > 0
		p.GrainIntensity = &g
		p.EnableGrain = &on
	}
	return p
}

func renderStill(cfg config.Gradient, width, height int, t float32, path string) error {
	eval, err := field.New(cfg)
	if err != nil {
		return err
	}
	img := eval.Frame(width, height, t)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func recordFrames(cfg config.Gradient, width, height int, duration float64, fps int, dir string) error {
	if fps < 1 {
		return fmt.Errorf("fps must be at least 1, got %d", fps)
	}
	eval, err := field.New(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	total := int(duration * float64(fps))
	log.Printf("Recording %d frames at %dx%d to %s", total, width, height, dir)
	for i := 0; i < total; i++ {
		img := eval.Frame(width, height, float32(float64(i)/float64(fps)))
		path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", i))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	log.Printf("Wrote %d frames", total)
	return nil
}

func runInteractive(cfg config.Gradient, width, height int) {
	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(width, height, "gopour")
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer ctx.Destroy()

	eng, err := engine.New(ctx, &config.Partial{
		Colors:            cfg.Colors,
		CycleSpeed:        &cfg.CycleSpeed,
		FullCycleDuration: &cfg.FullCycleDuration,
		EnableGrain:       &cfg.EnableGrain,
		GrainIntensity:    &cfg.GrainIntensity,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	eng.SetErrorCallback(func(err error) {
		log.Printf("Engine error: %v", err)
	})

	ctx.Attach(eng)
	bindKeys(ctx, eng)

	if !eng.Initialize() {
		// No usable GPU path: leave a static frame behind instead of a
		// blank window.
		if err := renderStill(cfg, width, height, 0, "gopour-fallback.png"); err != nil {
			log.Fatalf("GPU unavailable and fallback render failed: %v", err)
		}
		log.Fatalf("GPU unavailable; wrote static fallback to gopour-fallback.png")
	}

	eng.Start()
	ctx.Run()
	eng.Dispose()
}

func bindKeys(ctx *glfwcontext.Context, eng *engine.Engine) {
	usePreset := func(p config.Gradient) func() {
		return func() {
			if err := eng.UpdateConfig(&config.Partial{Colors: p.Colors}); err != nil {
				log.Printf("Palette switch failed: %v", err)
			}
		}
	}
	ctx.RegisterKeyCallback(glfw.Key1, usePreset(config.Default))
	ctx.RegisterKeyCallback(glfw.Key2, usePreset(config.Warm))
	ctx.RegisterKeyCallback(glfw.Key3, usePreset(config.Complete))

	ctx.RegisterKeyCallback(glfw.KeyG, func() {
		enabled := !eng.Config().EnableGrain
		if err := eng.UpdateConfig(&config.Partial{EnableGrain: &enabled}); err != nil {
			log.Printf("Grain toggle failed: %v", err)
		}
	})

	ctx.RegisterKeyCallback(glfw.KeySpace, func() {
		if eng.IsRunning() {
			eng.Stop()
		} else {
			eng.Start()
		}
	})
}
