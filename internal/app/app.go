// Package app wires the window, renderer, hint overlay and viewer
// session into the interactive application.
package app

import (
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/aa1412666/meshview/internal/assets"
	"github.com/aa1412666/meshview/internal/config"
	"github.com/aa1412666/meshview/internal/engine/debug"
	"github.com/aa1412666/meshview/internal/engine/input"
	"github.com/aa1412666/meshview/internal/engine/overlay"
	"github.com/aa1412666/meshview/internal/engine/picking"
	"github.com/aa1412666/meshview/internal/engine/renderer"
	"github.com/aa1412666/meshview/internal/engine/window"
	"github.com/aa1412666/meshview/internal/logger"
	"github.com/aa1412666/meshview/internal/viewer"
)

// Title is the window title.
const Title = "MeshView"

// maxFrameDt clamps the frame delta so control damping stays stable
// after a stall (window drag, debugger pause).
const maxFrameDt = 0.1

// App is the interactive viewer application.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	overlay  *overlay.Overlay
	input    *input.Input
	assets   *assets.Manager
	session  *viewer.Session
	capture  *debug.Capture

	// pendingOpen carries the file-dialog result back to the main
	// thread; the dialog itself blocks in a goroutine.
	pendingOpen chan string
	dialogBusy  bool
}

// New builds the application: window and GL context first, then the
// renderer and overlay, then the mounted viewer session.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:         cfg,
		pendingOpen: make(chan string, 1),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:       Title,
		Width:       cfg.Graphics.Width,
		Height:      cfg.Graphics.Height,
		VSync:       cfg.Graphics.VSync,
		MSAASamples: cfg.Graphics.MSAASamples,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// The GL surface uses drawable pixels, which exceed the window
	// size on high-DPI displays.
	drawW, drawH := a.window.DrawableSize()

	a.renderer, err = renderer.New(renderer.Config{
		Width:         drawW,
		Height:        drawH,
		ShadowMapSize: cfg.Graphics.ShadowMapSize,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	a.overlay, err = overlay.New(overlay.DefaultHint)
	if err != nil {
		a.renderer.Destroy()
		a.window.Close()
		return nil, fmt.Errorf("creating overlay: %w", err)
	}

	a.input = input.New()
	a.assets = assets.NewManager(cfg.Assets.Dirs, cfg.Assets.HTTPTimeout)
	a.capture = debug.NewCapture(cfg.Capture.Dir, cfg.Capture.Format, cfg.Capture.Supersample)

	a.session, err = viewer.Mount(a.renderer, drawW, drawH, cfg.Viewer, a.assets)
	if err != nil {
		a.overlay.Destroy()
		a.renderer.Destroy()
		a.window.Close()
		return nil, fmt.Errorf("mounting viewer: %w", err)
	}

	return a, nil
}

// Run drives the main loop until quit: poll input, tick the session,
// draw the overlay, present.
func (a *App) Run() error {
	a.running = true

	var frameDur time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		frameDur = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		if dt > maxFrameDt {
			dt = maxFrameDt
		}

		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}
		a.drainDialog()

		a.session.Tick(dt)

		drawW, drawH := a.window.DrawableSize()
		a.overlay.Draw(drawW, drawH)

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("frames", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameDur > 0 {
			if wait := frameDur - time.Since(now); wait > 0 {
				time.Sleep(wait)
			}
		}
	}

	return nil
}

// Close tears the application down: the session (which releases the
// renderer) and overlay go first, the GL context last.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.session != nil {
		a.session.Unmount()
		a.session = nil
		a.renderer = nil
	}
	if a.renderer != nil {
		a.renderer.Destroy()
		a.renderer = nil
	}
	if a.overlay != nil {
		a.overlay.Destroy()
		a.overlay = nil
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}

func (a *App) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		// The event carries window coordinates; resize with drawable
		// pixels instead.
		drawW, drawH := a.window.DrawableSize()
		a.session.Resize(drawW, drawH)

	case input.EventKeyDown:
		a.handleKey(ev.Key)

	case input.EventMouseMove:
		dx, dy := float32(ev.RelX), float32(ev.RelY)
		switch {
		case ev.Buttons&sdl.ButtonLMask() != 0:
			a.session.Controls().Rotate(dx, dy)
		case ev.Buttons&(sdl.ButtonRMask()|sdl.ButtonMMask()) != 0:
			a.session.Controls().Pan(dx, dy)
		}

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT && ev.Clicks == 2 {
			a.refocus(ev.MouseX, ev.MouseY)
		}

	case input.EventMouseWheel:
		a.session.Controls().Zoom(ev.WheelY)
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_B:
		a.session.ToggleBounds()
	case sdl.SCANCODE_L:
		a.session.ToggleDecimated()
	case sdl.SCANCODE_O:
		a.openDialog()
	case sdl.SCANCODE_F12:
		a.screenshot()
	}
}

// refocus recenters the orbit on the model point under the cursor.
func (a *App) refocus(mouseX, mouseY int) {
	sc := a.session.Scene()
	cam := a.session.Camera()
	if sc == nil || cam == nil || sc.Model == nil {
		return
	}
	// Mouse coordinates are in window points; the ray only needs the
	// cursor's fraction of the viewport, so window size matches.
	winW, winH := a.window.GetSize()
	if winW <= 0 || winH <= 0 {
		return
	}

	viewProj := cam.ProjectionMatrix().Mul(cam.ViewMatrix())
	ray := picking.ScreenToRay(
		float32(mouseX), float32(mouseY),
		float32(winW), float32(winH),
		viewProj.Inverse(),
	)
	t, hit := ray.IntersectAABB(sc.Model.Bounds())
	if !hit {
		return
	}

	p := ray.At(t)
	a.session.Controls().Retarget(p)
	logger.Debug("orbit retargeted",
		zap.Float32("x", p.X),
		zap.Float32("y", p.Y),
		zap.Float32("z", p.Z))
}

// screenshot renders the scene supersampled into an offscreen target
// and writes it at drawable size.
func (a *App) screenshot() {
	sc := a.session.Scene()
	cam := a.session.Camera()
	if sc == nil || cam == nil {
		return
	}
	drawW, drawH := a.window.DrawableSize()
	scale := a.capture.Scale()

	img, err := a.renderer.Snapshot(sc, cam, drawW*scale, drawH*scale)
	if err != nil {
		logger.Error("screenshot render failed", zap.Error(err))
		return
	}
	path, err := a.capture.Save(img, drawW, drawH)
	if err != nil {
		logger.Error("screenshot save failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// openDialog asks for a model file. The native dialog blocks, so it
// runs in a goroutine and hands the result to drainDialog.
func (a *App) openDialog() {
	if a.dialogBusy {
		return
	}
	a.dialogBusy = true

	go func() {
		path, err := dialog.File().
			Filter("glTF Models", "glb", "gltf").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Error("file dialog failed", zap.Error(err))
			}
			path = ""
		}
		a.pendingOpen <- path
	}()
}

// drainDialog applies a file-dialog result on the main thread. An
// empty path means the dialog was cancelled.
func (a *App) drainDialog() {
	select {
	case path := <-a.pendingOpen:
		a.dialogBusy = false
		if path != "" {
			a.session.Open(path)
		}
	default:
	}
}
