// Command oxygl opens a window and renders a small lit scene of spinning boxes.
//
// Drag with the left mouse button to orbit, scroll to zoom, use the arrow keys or WASD to pan,
// P to pause the animations and R to reset the camera.
package main

import (
	"flag"
	"log"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/transform"
	"github.com/Carmen-Shannon/oxy-gl/engine/transitionable"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

const (
	fov      = 45 * math.Pi / 180
	panStep  = 20
	gridSize = 4
	boxSize  = 80
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML configuration file")
		profile    = flag.Bool("profile", false, "log frame statistics")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *profile {
		cfg.Engine.Profiling = true
	}
	common.SetLogger(cfg.Logger(os.Stderr))

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(cfg.WindowOptions()...)
	r := renderer.NewRenderer(win.GLContext(), cfg.RendererOptions()...)

	// ── Camera ──────────────────────────────────────────────────────────
	// The scene is laid out in pixels with y growing down, so the camera looks at the middle
	// of the viewport from the -z side with a flipped up vector.
	controller := camera.NewOrbitController(orbitOptions(win.Width(), win.Height())...)
	cam := camera.NewCamera(
		camera.WithFov(fov),
		camera.WithUp(0, -1, 0),
		camera.WithClipPlanes(1, 10000),
		camera.WithController(controller),
	)

	eng := engine.NewEngine(r, append(cfg.EngineOptions(),
		engine.WithWindow(win),
		engine.WithCamera(cam),
	)...)

	// ── Scene ───────────────────────────────────────────────────────────
	sc := eng.NewScene(0, "demo")
	boxes := buildScene(sc)

	// ── Input ───────────────────────────────────────────────────────────
	paused := false
	win.SetDragCallback(controller.Drag)
	win.SetScrollCallback(func(delta float32) {
		controller.Zoom(delta)
	})
	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyLeft, common.KeyA:
			controller.Pan(-panStep, 0)
		case common.KeyRight, common.KeyD:
			controller.Pan(panStep, 0)
		case common.KeyUp, common.KeyW:
			controller.Pan(0, -panStep)
		case common.KeyDown, common.KeyS:
			controller.Pan(0, panStep)
		case common.KeyR:
			resetCamera(controller, win.Width(), win.Height())
		case common.KeyP:
			paused = !paused
			for _, n := range boxes {
				if paused {
					n.Transform().Pause()
				} else {
					n.Transform().Resume()
				}
			}
		}
	})

	// Keep the orbit target on the middle of the viewport as the window resizes.
	width, height := win.Width(), win.Height()
	eng.SetTickCallback(func(time.Duration) {
		if w, h := win.Width(), win.Height(); w != width || h != height {
			width, height = w, h
			controller.SetTarget(float32(w)/2, float32(h)/2, 0)
		}
	})

	common.Logger().Info("starting", "component", "oxygl", "width", width, "height", height)
	eng.Run()
}

// buildScene lays out a grid of boxes in the middle of the viewport, lights them and starts
// their animations. It returns the box nodes.
func buildScene(sc scene.Scene) []scene.Node {
	grid := sc.Root().AddChild()
	span := float64(gridSize*boxSize*2 - boxSize)
	grid.SetAbsoluteSize(span, span, 0)
	grid.SetAlign(0.5, 0.5, 0)
	grid.SetMountPoint(0.5, 0.5, 0)

	ambient := grid.AddChild()
	light.NewLight(ambient, sc.Queue(), light.LightTypeAmbient,
		light.WithColor(common.RGB{0.15, 0.15, 0.2}),
	)

	// A point light circles the grid.
	lamp := grid.AddChild()
	lamp.SetAbsoluteSize(0, 0, 0)
	lamp.SetAlign(0.5, 0.5, 0)
	lamp.SetPosition(0, 0, -200)
	light.NewLight(lamp, sc.Queue(), light.LightTypePoint,
		light.WithColor(common.RGB{1, 0.95, 0.85}),
	)
	orbitLamp(lamp, span/2)

	pulse := newAnimatedColor(sc.Clock(), [3]float64{1, 0.3, 0.2})
	pulse.loop([3]float64{0.2, 0.4, 1}, 2*time.Second)

	var boxes []scene.Node
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			n := grid.AddChild()
			n.SetAbsoluteSize(boxSize, boxSize, boxSize)
			n.SetOrigin(0.5, 0.5, 0.5)
			n.SetPosition(float64(col*boxSize*2), float64(row*boxSize*2), 0)

			m := mesh.NewMesh(n, sc.Queue())
			if err := m.SetGeometryName("Box"); err != nil {
				log.Fatalf("Failed to resolve geometry: %v", err)
			}
			switch (row + col) % 3 {
			case 0:
				m.SetBaseColor(pulse)
			case 1:
				m.SetBaseColor(common.RGB{0.9, 0.8, 0.3})
				m.SetGlossiness(common.RGB{1, 1, 1}, 40)
			default:
				// shade along each face
				m.SetBaseColorMaterial(material.NewExpression(
					"mix(vec4(0.1, 0.6, 0.3, 1.0), vec4(0.9, 0.9, 0.9, 1.0), v_textureCoordinate.y)",
				))
				m.SetFlatShading(true)
			}

			spin(n, float64(row*gridSize+col)*0.1)
			boxes = append(boxes, n)
		}
	}
	return boxes
}

// spin rotates the node half a turn at a time, forever.
func spin(n scene.Node, phase float64) {
	n.Transform().RotateEuler(phase, math.Pi, 0,
		&transitionable.Transition{Duration: 3 * time.Second, Curve: "easeInOut"},
		func() { spin(n, 0) },
	)
}

// orbitLamp moves the node around a circle of the given radius, a quarter turn at a time.
func orbitLamp(n scene.Node, radius float64) {
	var step func(i int)
	step = func(i int) {
		a := float64(i) * math.Pi / 2
		n.Transform().SetPosition(
			transform.XYZ(radius*math.Cos(a), radius*math.Sin(a), -200),
			&transitionable.Transition{Duration: time.Second},
			func() { step((i + 1) % 4) },
		)
	}
	step(1)
}

func orbitOptions(width, height int) []camera.CameraControllerOption {
	return []camera.CameraControllerOption{
		camera.WithRadiusBounds(100, 8000),
		camera.WithTarget(float32(width)/2, float32(height)/2, 0),
		camera.WithRadius(fitRadius(height)),
		camera.WithAzimuth(math.Pi),
		camera.WithElevation(0),
		camera.WithMouseSensitivity(0.005),
		camera.WithZoomSpeed(25),
	}
}

func resetCamera(c camera.CameraController, width, height int) {
	c.SetTarget(float32(width)/2, float32(height)/2, 0)
	c.SetRadius(fitRadius(height))
	c.Orbit(math.Pi-c.Azimuth(), -c.Elevation())
}

// fitRadius is the eye distance at which a viewport of the given height exactly fills the
// vertical field of view.
func fitRadius(height int) float32 {
	return float32(float64(height) / 2 / math.Tan(fov/2))
}
