// Package viewer owns the mounted viewing session: scene, camera,
// orbit controls and the render loop state. Sessions are confined to
// the thread that mounted them; asset decodes run in goroutines and
// hand their results back through the session's completion queue.
package viewer

import (
	"errors"

	"go.uber.org/zap"

	"github.com/aa1412666/meshview/internal/assets"
	"github.com/aa1412666/meshview/internal/config"
	"github.com/aa1412666/meshview/internal/engine/camera"
	"github.com/aa1412666/meshview/internal/engine/environment"
	"github.com/aa1412666/meshview/internal/engine/model"
	"github.com/aa1412666/meshview/internal/engine/scene"
	"github.com/aa1412666/meshview/internal/loader"
	"github.com/aa1412666/meshview/internal/logger"
	"github.com/aa1412666/meshview/pkg/math"
)

// ErrMissingTarget is returned by Mount when no render target is given.
var ErrMissingTarget = errors.New("viewer: missing render target")

// DecimateRatio is the triangle fraction kept by ToggleDecimated.
const DecimateRatio = 0.25

const (
	fallbackWidth  = 800
	fallbackHeight = 600
)

// Target is the surface a session draws into. The renderer implements
// it; tests substitute fakes.
type Target interface {
	Resize(width, height int)
	Render(sc *scene.Scene, cam *camera.Perspective)
	Destroy()
}

// State is the render loop state.
type State int

const (
	// StateStopped is the terminal state after Unmount.
	StateStopped State = iota
	// StateRunning is the live state between Mount and Unmount.
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

// loaders resolve asset paths off the session thread. Split out so
// tests can mount without touching the real asset pipeline.
type loaders struct {
	model func(path string) (*model.Model, error)
	env   func(path string) (*environment.Map, error)
}

func managerLoaders(mgr *assets.Manager) loaders {
	return loaders{
		model: func(path string) (*model.Model, error) {
			return loader.Load(mgr, path)
		},
		env: func(path string) (*environment.Map, error) {
			data, err := mgr.Load(path)
			if err != nil {
				return nil, err
			}
			return environment.Decode(data)
		},
	}
}

// Session is one mounted viewer: the handles live together and die
// together in Unmount. All methods must be called from the thread that
// mounted the session.
type Session struct {
	cfg config.ViewerConfig
	ld  loaders

	target   Target
	scene    *scene.Scene
	cam      *camera.Perspective
	controls *camera.OrbitControls

	state  State
	alive  bool
	frames uint64

	width  int
	height int

	// completions carries deferred work from loader goroutines back to
	// the owning thread; Tick drains it.
	completions chan func(*Session)

	// fullModel keeps the undecimated asset for ToggleDecimated.
	fullModel *model.Model
	decimated bool
}

// Mount composes a scene from the config, starts the render loop and
// kicks off the configured asset loads. The caller must Unmount the
// returned session to release the target.
func Mount(target Target, width, height int, cfg config.ViewerConfig, mgr *assets.Manager) (*Session, error) {
	return mount(target, width, height, cfg, managerLoaders(mgr))
}

func mount(target Target, width, height int, cfg config.ViewerConfig, ld loaders) (*Session, error) {
	if target == nil {
		return nil, ErrMissingTarget
	}
	if width <= 0 || height <= 0 {
		width, height = fallbackWidth, fallbackHeight
	}

	sc := scene.New()
	err := sc.Compose(scene.Params{
		Background:         cfg.Background,
		HemiSkyColor:       cfg.HemiSkyColor,
		HemiGroundColor:    cfg.HemiGroundColor,
		HemiIntensity:      cfg.HemiIntensity,
		DirIntensity:       cfg.DirIntensity,
		DirPosition:        vec3(cfg.DirPosition),
		UseEnvAsBackground: cfg.UseEnvAsBackground,
		EnableShadows:      cfg.EnableShadows,
		EnableGround:       cfg.EnableGround,
		ShowBounds:         cfg.ShowBounds,
	})
	if err != nil {
		return nil, err
	}

	cam := camera.NewPerspective(camera.DefaultFOV, float32(width)/float32(height))

	s := &Session{
		cfg:         cfg,
		ld:          ld,
		target:      target,
		scene:       sc,
		cam:         cam,
		controls:    camera.NewOrbitControls(cam),
		state:       StateRunning,
		alive:       true,
		width:       width,
		height:      height,
		completions: make(chan func(*Session), 8),
	}
	target.Resize(width, height)

	if cfg.Source != "" {
		s.loadModelAsync(cfg.Source)
	}
	if cfg.EnvMap != "" {
		s.loadEnvAsync(cfg.EnvMap)
	}

	logger.Info("session mounted",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.String("src", cfg.Source))
	return s, nil
}

// Tick advances the session one frame: queued completions apply first,
// then control damping, then one draw. Reports whether a frame was
// drawn. Ticks after Unmount do nothing.
func (s *Session) Tick(dt float32) bool {
	if s.state != StateRunning {
		return false
	}

drain:
	for {
		select {
		case fn := <-s.completions:
			fn(s)
		default:
			break drain
		}
	}

	if s.controls != nil {
		s.controls.Update(dt)
	}
	if s.target == nil || s.scene == nil || s.cam == nil {
		return false
	}
	s.target.Render(s.scene, s.cam)
	s.frames++
	return true
}

// Unmount stops the render loop and releases the session's handles.
// The loop leaves RUNNING before anything is destroyed. Calling it
// again is a no-op.
func (s *Session) Unmount() {
	if !s.alive {
		return
	}
	s.alive = false
	s.state = StateStopped

	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
	s.controls = nil
	s.cam = nil
	s.scene = nil
	s.fullModel = nil

	logger.Info("session unmounted", zap.Uint64("frames", s.frames))
}

// Resize updates the render target and camera projection for new
// drawable dimensions. Repeat calls with the same size and calls after
// Unmount are no-ops.
func (s *Session) Resize(width, height int) {
	if !s.alive || width <= 0 || height <= 0 {
		return
	}
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.cam.SetViewport(width, height)
	s.target.Resize(width, height)
}

// Open swaps the displayed model: the current one is removed
// immediately, the new one loads in the background.
func (s *Session) Open(path string) {
	if !s.alive || path == "" {
		return
	}
	s.scene.SetModel(nil)
	s.fullModel = nil
	s.decimated = false
	s.loadModelAsync(path)
}

// ToggleBounds flips the bounding box overlay.
func (s *Session) ToggleBounds() {
	if !s.alive {
		return
	}
	s.scene.ShowBounds = !s.scene.ShowBounds
}

// ToggleDecimated swaps the displayed model with a reduced-triangle
// copy, and back. No-op until a model is loaded.
func (s *Session) ToggleDecimated() {
	if !s.alive || s.fullModel == nil {
		return
	}
	if s.decimated {
		s.scene.SetModel(s.fullModel)
		s.decimated = false
		return
	}
	s.scene.SetModel(s.fullModel.Decimate(DecimateRatio))
	s.decimated = true
}

// Scene returns the composed scene, nil after Unmount.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Camera returns the session camera, nil after Unmount.
func (s *Session) Camera() *camera.Perspective { return s.cam }

// Controls returns the orbit controls, nil after Unmount.
func (s *Session) Controls() *camera.OrbitControls { return s.controls }

// State reports the render loop state.
func (s *Session) State() State { return s.state }

// Frames reports how many frames the session has drawn.
func (s *Session) Frames() uint64 { return s.frames }

// Size reports the current drawable dimensions.
func (s *Session) Size() (width, height int) { return s.width, s.height }

func (s *Session) loadModelAsync(path string) {
	go func() {
		m, err := s.ld.model(path)
		if err != nil {
			logger.Error("failed to load model", zap.String("path", path), zap.Error(err))
			return
		}
		s.enqueue(func(s *Session) { s.applyModel(m) })
	}()
}

func (s *Session) loadEnvAsync(path string) {
	go func() {
		env, err := s.ld.env(path)
		if err != nil {
			logger.Error("failed to load environment map", zap.String("path", path), zap.Error(err))
			return
		}
		s.enqueue(func(s *Session) { s.applyEnvironment(env) })
	}()
}

// enqueue hands a completion to the owning thread. Completions left in
// the queue when the session unmounts are never applied.
func (s *Session) enqueue(fn func(*Session)) {
	select {
	case s.completions <- fn:
	default:
		logger.Warn("completion queue full, dropping result")
	}
}

func (s *Session) applyModel(m *model.Model) {
	if !s.alive {
		return
	}
	loader.ApplyViewerFlags(m, s.cfg.EnableShadows, s.cfg.EnableShadows, s.cfg.EnvMapIntensity)
	s.scene.SetModel(m)
	s.fullModel = m
	s.decimated = false
	camera.FitToBounds(s.cam, s.controls, m.Bounds(), camera.DefaultFitOffset)

	logger.Info("model applied",
		zap.String("name", m.Name),
		zap.Int("triangles", m.TriangleCount()))
}

func (s *Session) applyEnvironment(env *environment.Map) {
	if !s.alive {
		return
	}
	env.Intensity = s.cfg.EnvMapIntensity
	s.scene.SetEnvironment(env)

	logger.Info("environment applied",
		zap.Int("width", env.Width),
		zap.Int("height", env.Height))
}

func vec3(v [3]float32) (out math.Vec3) {
	out.X, out.Y, out.Z = v[0], v[1], v[2]
	return out
}
