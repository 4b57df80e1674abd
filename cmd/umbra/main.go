// umbra - Terminal Illumination Viewer
// Shade STL, OBJ and GLB meshes from a point light, with hard shadows,
// and orbit the result in your terminal.
//
// Controls:
//
//	Mouse drag  - Orbit camera
//	Scroll      - Zoom in/out
//	W/S         - Orbit up/down
//	A/D         - Orbit left/right
//	[/]         - Orbit the light (reshades in the background)
//	R           - Reset view and light
//	X           - Toggle wireframe + normals mode
//	?           - Toggle HUD overlay (FPS, scene name, triangle count)
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/nmocellin/umbra/pkg/lighting"
	"github.com/nmocellin/umbra/pkg/loader"
	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
	"github.com/nmocellin/umbra/pkg/render"
	"github.com/nmocellin/umbra/pkg/tessellate"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	demoScene  = flag.Bool("demo", false, "View a built-in pyramid instead of a model file")
	demoBase   = flag.Float64("base", 2, "Demo pyramid base size")
	demoHeight = flag.Float64("height", 2, "Demo pyramid height")
	withGround = flag.Bool("ground", false, "Add a ground rectangle under the scene")
	refineN    = flag.Int("refine", 0, "Subdivide until no triangle exceeds 1/N of the largest area (0 = off)")
	lightScale = flag.Float64("light-scale", 2, "Light position as a multiple of the scene's maximum corner")
	shadows    = flag.Bool("shadows", true, "Occlusion-test every triangle against the rest of the scene")
	workers    = flag.Int("workers", runtime.NumCPU(), "Worker goroutines for the shadow pass")
	pngOut     = flag.String("png", "", "Render a single frame to this PNG file and exit")
	pngSize    = flag.String("png-size", "960x720", "PNG frame size (WxH)")
	targetFPS  = flag.Int("fps", 30, "Target FPS")
	bgColor    = flag.String("bg", "30,30,40", "Background color (R,G,B)")
)

const (
	basePitch = math.Pi / 6  // resting camera elevation
	baseYaw   = -math.Pi / 2 // resting camera azimuth, looking along +Y
	maxPitch  = math.Pi/2 - 0.01
	lightStep = math.Pi / 12 // light orbit increment per keypress
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "umbra - Terminal Illumination Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: umbra [options] <model.stl|model.obj|model.glb>\n")
		fmt.Fprintf(os.Stderr, "       umbra -demo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  [ / ]       - Orbit the light (reshades in the background)\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view and light\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe + normals\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 && !*demoScene {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// OrbitAxis tracks position and velocity for one orbit angle with spring decay
type OrbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewOrbitAxis creates an axis with harmonica spring for smooth velocity decay
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *OrbitAxis) Update() {
	// Apply velocity to position
	a.Position += a.Velocity

	// Use spring to animate velocity toward 0 (smooth deceleration)
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// OrbitState holds the camera orbit angles with harmonica spring physics
type OrbitState struct {
	Pitch, Yaw OrbitAxis
	fps        int
}

func NewOrbitState(fps int) *OrbitState {
	return &OrbitState{
		Pitch: NewOrbitAxis(fps),
		Yaw:   NewOrbitAxis(fps),
		fps:   fps,
	}
}

func (o *OrbitState) Update() {
	o.Pitch.Update()
	o.Yaw.Update()
}

func (o *OrbitState) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

func (o *OrbitState) Reset() {
	o.Pitch = NewOrbitAxis(o.fps)
	o.Yaw = NewOrbitAxis(o.fps)
}

// ViewState holds all view-related settings (UI state, not library code)
type ViewState struct {
	Wireframe  bool    // Draw edges and normals instead of shading
	ShowHUD    bool    // Whether to show the HUD overlay
	LightAngle float64 // Requested light orbit angle around the scene
	Relighting bool    // A shading pass is running in the background
}

// NewViewState creates default view state
func NewViewState() *ViewState {
	return &ViewState{ShowHUD: true}
}

// HUD renders an overlay with scene info and controls
type HUD struct {
	name      string
	triCount  int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(name string, triCount int) *HUD {
	return &HUD{
		name:     name,
		triCount: triCount,
		fpsTime:  time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, viewState *ViewState) {
	// ANSI escape codes for positioning and styling
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	// Helper to position cursor
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	// A running shading pass always shows its indicator
	if viewState.Relighting {
		msg := fmt.Sprintf("%s%s%s ◉ RELIGHTING - shading pass in progress %s",
			bgBlack, bold, fgYellow, reset)
		col := max((width-41)/2, 1)
		fmt.Print(moveTo(height, col) + msg)
		return
	}

	// If HUD is disabled, we're done (lines already cleared)
	if !viewState.ShowHUD {
		return
	}

	// Top left: FPS
	fpsStr := fmt.Sprintf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)
	fmt.Print(fpsStr)

	// Top middle: scene name
	titleStr := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.name, reset)
	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + titleStr)

	// Top right: triangle count
	triStr := fmt.Sprintf("%s%s%s %d tris %s", bgBlack, fgCyan, bold, h.triCount, reset)
	triCol := max(width-12, 1)
	fmt.Print(moveTo(1, triCol) + triStr)

	// Bottom: mode checkboxes and hint
	checkShade := "[✓]"
	checkWire := "[ ]"
	if viewState.Wireframe {
		checkShade, checkWire = "[ ]", "[✓]"
	}
	modeStr := fmt.Sprintf("%s%s %s Shaded  %s Wireframe %s",
		bgBlack, fgWhite, checkShade, checkWire, reset)
	fmt.Print(moveTo(height, 1) + modeStr)

	// Light hint (right side of bottom)
	hint := fmt.Sprintf("%s%s%s [ ]: orbit light %s", bgBlack, dim, fgYellow, reset)
	hintCol := max(width-18, 1)
	fmt.Print(moveTo(height, hintCol) + hint)
}

// orbitPosition places a camera on a sphere around target. Yaw orbits
// the vertical axis, pitch lifts toward the poles.
func orbitPosition(target math3d.Vec3, radius, pitch, yaw float64) math3d.Vec3 {
	return target.Add(math3d.V3(
		radius*math.Cos(pitch)*math.Cos(yaw),
		radius*math.Cos(pitch)*math.Sin(yaw),
		radius*math.Sin(pitch),
	))
}

// orbitLight rotates the light position by angle around the vertical
// axis through the scene center.
func orbitLight(light, center math3d.Vec3, angle float64) math3d.Vec3 {
	d := light.Sub(center)
	s, c := math.Sin(angle), math.Cos(angle)
	return center.Add(math3d.V3(d.X*c-d.Y*s, d.X*s+d.Y*c, d.Z))
}

// buildScene loads or generates the mesh and applies the scene flags.
func buildScene(modelPath string) (*mesh.Mesh, error) {
	var scene *mesh.Mesh
	if *demoScene {
		scene = mesh.Pyramid(*demoBase, *demoHeight)
	} else {
		m, err := loader.Load(modelPath)
		if err != nil {
			return nil, err
		}
		scene = m
	}
	slog.Info("loaded scene", "name", scene.Name,
		"vertices", scene.VertexCount(), "triangles", scene.TriangleCount())

	if scene.TriangleCount() == 0 {
		return nil, fmt.Errorf("scene %q has no triangles", scene.Name)
	}

	if *withGround {
		bmin, bmax := scene.Bounds()
		d := bmax.Sub(bmin).Abs()
		g := mesh.Ground(
			math3d.V3(bmin.X-d.X, bmin.Y-d.Y, bmin.Z),
			math3d.V3(bmax.X+d.X, bmax.Y+d.Y, bmin.Z),
		)
		scene = mesh.Concatenate(scene, g)
	}

	if *refineN > 0 {
		maxArea := scene.MaxTriangleArea()
		if maxArea > 0 {
			before := scene.TriangleCount()
			scene = tessellate.Refine(scene, maxArea/float64(*refineN))
			scene = scene.DedupVertices(0)
			slog.Info("refined scene", "before", before, "after", scene.TriangleCount())
		} else {
			slog.Warn("scene has no area, skipping refinement")
		}
	}

	return scene, nil
}

// lightPosition places the point source at the scene's componentwise
// maximum corner pushed out by the light-scale factor.
func lightPosition(m *mesh.Mesh) math3d.Vec3 {
	_, bmax := m.Bounds()
	return bmax.Scale(*lightScale)
}

// illuminate shades the scene from light and logs a summary.
func illuminate(scene *mesh.Mesh, light math3d.Vec3) lighting.Map {
	var illum lighting.Map
	if *shadows {
		bar := progressbar.NewOptions(scene.TriangleCount(),
			progressbar.OptionSetDescription("shadow pass"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
		illum = lighting.Shadowed(scene, light, lighting.Options{
			Workers: *workers,
			Progress: func(done, total int) {
				bar.Add(1)
			},
		})
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	} else {
		illum = lighting.Direct(scene, light)
	}

	direct := lighting.Direct(scene, light)
	var lit, occluded, dark int
	for i, v := range illum {
		switch {
		case v > 0:
			lit++
		case direct[i] > 0:
			occluded++
		default:
			dark++
		}
	}
	slog.Info("illumination",
		"mean", stat.Mean(illum, nil),
		"min", floats.Min(illum),
		"max", floats.Max(illum),
		"lit", lit,
		"shadowed", occluded,
		"facing_away", dark,
	)
	return illum
}

func run(modelPath string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// Parse background color
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	bg := render.RGB(bgR, bgG, bgB)

	scene, err := buildScene(modelPath)
	if err != nil {
		return err
	}

	light := lightPosition(scene)
	slog.Info("light source", "x", light.X, "y", light.Y, "z", light.Z)

	illum := illuminate(scene, light)

	center := scene.Center()
	size := scene.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim == 0 {
		maxDim = 1
	}

	if *pngOut != "" {
		return writeFrame(scene, illum, light, center, maxDim, bg)
	}

	return view(scene, illum, light, center, maxDim, bg)
}

// writeFrame renders one shaded frame to the -png file.
func writeFrame(scene *mesh.Mesh, illum lighting.Map, light, center math3d.Vec3, maxDim float64, bg render.Color) error {
	w, h := 960, 720
	fmt.Sscanf(*pngSize, "%dx%d", &w, &h)
	if w < 1 || h < 1 {
		return fmt.Errorf("bad png size %q", *pngSize)
	}

	radius := 2 * maxDim
	camera := render.NewCamera()
	camera.SetAspectRatio(float64(w) / float64(h))
	camera.SetClipPlanes(0.01*radius, 100*radius)
	camera.SetPosition(orbitPosition(center, radius, basePitch, baseYaw))
	camera.LookAt(center)

	fb := render.NewFramebuffer(w, h)
	rasterizer := render.NewRasterizer(camera, fb)
	fb.Clear(bg)
	rasterizer.ClearDepth()
	rasterizer.DrawMeshShaded(scene, illum, math3d.Identity())
	rasterizer.DrawLightMarker(light, render.ColorYellow)

	if err := fb.SavePNG(*pngOut); err != nil {
		return err
	}
	slog.Info("wrote frame", "path", *pngOut, "width", w, "height", h)
	return nil
}

// view runs the interactive terminal viewer.
func view(scene *mesh.Mesh, illum lighting.Map, light0, center math3d.Vec3, maxDim float64, bg render.Color) error {
	light := light0

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	// Create renderer
	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	// Create camera on an orbit sized to the scene
	radius0 := 2 * maxDim
	radius := radius0

	camera := render.NewCamera()
	camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
	camera.SetFOV(math.Pi / 3)
	camera.SetClipPlanes(0.01*radius0, 100*radius0)

	rasterizer := render.NewRasterizer(camera, fb)

	// Create HUD and view state
	hud := NewHUD(scene.Name, scene.TriangleCount())
	orbit := NewOrbitState(*targetFPS)
	viewState := NewViewState()

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Light pipeline. The event goroutine posts the requested orbit
	// angle, one worker shades at that angle, and the frame loop swaps
	// the result in between frames. Both channels keep only the latest
	// value.
	type shading struct {
		pos    math3d.Vec3
		values lighting.Map
	}
	lightReq := make(chan float64, 1)
	lightRes := make(chan shading, 1)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case angle := <-lightReq:
				pos := orbitLight(light0, center, angle)
				var values lighting.Map
				if *shadows {
					values = lighting.Shadowed(scene, pos, lighting.Options{Workers: *workers})
				} else {
					values = lighting.Direct(scene, pos)
				}
				select {
				case <-lightRes:
				default:
				}
				lightRes <- shading{pos: pos, values: values}
			}
		}
	}()

	requestLight := func(angle float64) {
		viewState.Relighting = true
		select {
		case <-lightReq:
		default:
		}
		lightReq <- angle
	}

	// Input state
	inputTorque := struct{ pitch, yaw float64 }{}
	const torqueStrength = 3.0

	// Mouse state
	var mouseDown bool
	var lastMouseX, lastMouseY int

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				rasterizer = render.NewRasterizer(camera, fb)
				camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					orbit.Reset()
					radius = radius0
					viewState.LightAngle = 0
					requestLight(0)
				case ev.MatchString("w", "up"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("["):
					viewState.LightAngle -= lightStep
					requestLight(viewState.LightAngle)
				case ev.MatchString("]"):
					viewState.LightAngle += lightStep
					requestLight(viewState.LightAngle)
				case ev.MatchString("+", "="):
					radius = math.Max(0.2*radius0, radius*0.9)
				case ev.MatchString("-", "_"):
					radius = math.Min(5*radius0, radius*1.1)
				case ev.MatchString("x"):
					viewState.Wireframe = !viewState.Wireframe
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					viewState.ShowHUD = !viewState.ShowHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					orbit.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					radius = math.Max(0.2*radius0, radius*0.9)
				case uv.MouseWheelDown:
					radius = math.Min(5*radius0, radius*1.1)
				}
			}
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// Apply input torque and decay it (key release events unreliable)
		orbit.ApplyImpulse(inputTorque.pitch*dt, inputTorque.yaw*dt)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9

		// Update springs (harmonica handles timing internally)
		orbit.Update()

		// Swap in a finished shading pass
		select {
		case s := <-lightRes:
			light = s.pos
			illum = s.values
			viewState.Relighting = false
		default:
		}

		// Place the camera on its orbit
		pitch := basePitch + orbit.Pitch.Position
		if pitch > maxPitch {
			pitch = maxPitch
		}
		if pitch < -maxPitch {
			pitch = -maxPitch
		}
		yaw := baseYaw + orbit.Yaw.Position

		camera.SetPosition(orbitPosition(center, radius, pitch, yaw))
		camera.LookAt(center)

		// Render
		fb.Clear(bg)
		rasterizer.ClearDepth()

		if viewState.Wireframe {
			rasterizer.DrawMeshWireframe(scene, math3d.Identity(), render.ColorGray)
			rasterizer.DrawMeshNormals(scene, math3d.Identity(), render.ColorWhite)
			rasterizer.DrawAxes(maxDim)
		} else {
			rasterizer.DrawMeshShaded(scene, illum, math3d.Identity())
		}
		rasterizer.DrawLightMarker(light, render.ColorYellow)

		// Display
		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		// HUD overlay (always update FPS, render clears lines when HUD off)
		hud.UpdateFPS()
		hud.Render(width, height, viewState)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
