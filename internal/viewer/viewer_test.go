package viewer

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/aa1412666/meshview/internal/config"
	"github.com/aa1412666/meshview/internal/engine/camera"
	"github.com/aa1412666/meshview/internal/engine/environment"
	"github.com/aa1412666/meshview/internal/engine/model"
	"github.com/aa1412666/meshview/internal/engine/scene"
	"github.com/aa1412666/meshview/internal/logger"
	"github.com/aa1412666/meshview/pkg/math"
)

const frame = float32(1.0 / 60.0)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

type fakeTarget struct {
	renders  int
	resizes  int
	destroys int
	width    int
	height   int
}

func (f *fakeTarget) Resize(w, h int) {
	f.resizes++
	f.width, f.height = w, h
}

func (f *fakeTarget) Render(sc *scene.Scene, cam *camera.Perspective) {
	f.renders++
}

func (f *fakeTarget) Destroy() { f.destroys++ }

func testModel() *model.Model {
	return &model.Model{
		Name: "test",
		Nodes: []model.Node{{
			Translation: math.Vec3{X: 10},
			Rotation:    math.QuatIdentity(),
			Scale:       math.Vec3{X: 1, Y: 1, Z: 1},
			Mesh:        0,
		}},
		Roots: []int{0},
		Meshes: []model.Mesh{{Primitives: []model.Primitive{{
			Positions: []float32{
				-1, -1, 0,
				1, -1, 0,
				1, 1, 0,
				-1, 1, 0,
			},
			Indices:  []uint32{0, 1, 2, 0, 2, 3},
			Material: 0,
		}}}},
		Materials: []model.Material{{BaseColor: [4]float32{1, 1, 1, 1}, EnvIntensity: 1}},
	}
}

// testLoaders resolves every path to the given model immediately.
func testLoaders(m *model.Model) loaders {
	return loaders{
		model: func(path string) (*model.Model, error) { return m, nil },
		env:   func(path string) (*environment.Map, error) { return nil, errors.New("no env") },
	}
}

// tickUntil pumps the session until cond holds.
func tickUntil(t *testing.T, s *Session, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.Tick(frame)
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("%s never happened", what)
}

func TestMountNilTarget(t *testing.T) {
	s, err := Mount(nil, 800, 600, config.Default().Viewer, nil)
	if !errors.Is(err, ErrMissingTarget) {
		t.Errorf("err = %v, want ErrMissingTarget", err)
	}
	if s != nil {
		t.Error("session created despite missing target")
	}
}

func TestMountDefaults(t *testing.T) {
	cfg := config.Default().Viewer

	var requested string
	ld := testLoaders(testModel())
	inner := ld.model
	ld.model = func(path string) (*model.Model, error) {
		requested = path
		return inner(path)
	}

	target := &fakeTarget{}
	s, err := mount(target, 1024, 768, cfg, ld)
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	if s.State() != StateRunning {
		t.Errorf("state = %s, want running", s.State())
	}
	if s.Scene().Background != nil {
		t.Error("default config should clear transparent, got explicit background")
	}
	if s.Scene().Ground == nil {
		t.Error("default config should compose a ground disc")
	}
	if target.width != 1024 || target.height != 768 {
		t.Errorf("target sized %dx%d, want 1024x768", target.width, target.height)
	}

	tickUntil(t, s, "model load", func() bool { return s.Scene().Model != nil })
	if requested != "/models/UtensilsJar001.glb" {
		t.Errorf("requested path = %q, want default model path", requested)
	}
}

func TestMountZeroDimensions(t *testing.T) {
	target := &fakeTarget{}
	s, err := mount(target, 0, 0, config.Default().Viewer, testLoaders(testModel()))
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	w, h := s.Size()
	if w != 800 || h != 600 {
		t.Errorf("session size = %dx%d, want 800x600 fallback", w, h)
	}
	if target.width != 800 || target.height != 600 {
		t.Errorf("target size = %dx%d, want 800x600 fallback", target.width, target.height)
	}
}

func TestMountBadBackground(t *testing.T) {
	cfg := config.Default().Viewer
	cfg.Background = "not-a-color"

	if _, err := mount(&fakeTarget{}, 800, 600, cfg, testLoaders(nil)); err == nil {
		t.Error("expected error for invalid background color, got nil")
	}
}

func TestUnmountStopsLoop(t *testing.T) {
	target := &fakeTarget{}
	cfg := config.Default().Viewer
	cfg.Source = ""

	s, err := mount(target, 800, 600, cfg, testLoaders(nil))
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if !s.Tick(frame) {
			t.Fatalf("tick %d did not draw", i)
		}
	}
	if target.renders != 3 {
		t.Errorf("renders = %d, want 3", target.renders)
	}

	s.Unmount()
	if s.State() != StateStopped {
		t.Errorf("state = %s, want stopped", s.State())
	}
	if target.destroys != 1 {
		t.Errorf("destroys = %d, want 1", target.destroys)
	}

	for i := 0; i < 5; i++ {
		if s.Tick(frame) {
			t.Error("tick after unmount drew a frame")
		}
	}
	if target.renders != 3 {
		t.Errorf("renders after unmount = %d, want 3", target.renders)
	}
	if s.Frames() != 3 {
		t.Errorf("frames = %d, want 3", s.Frames())
	}

	// Second unmount is a no-op.
	s.Unmount()
	if target.destroys != 1 {
		t.Errorf("destroys after second unmount = %d, want 1", target.destroys)
	}
}

func TestUnmountBeforeLoadCompletes(t *testing.T) {
	gate := make(chan struct{})
	ld := loaders{
		model: func(path string) (*model.Model, error) {
			<-gate
			return testModel(), nil
		},
		env: func(path string) (*environment.Map, error) { return nil, errors.New("no env") },
	}

	target := &fakeTarget{}
	s, err := mount(target, 800, 600, config.Default().Viewer, ld)
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	s.Tick(frame)
	rendered := target.renders
	s.Unmount()

	// Let the load finish late and reach the queue.
	close(gate)
	deadline := time.Now().Add(2 * time.Second)
	for len(s.completions) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if len(s.completions) == 0 {
		t.Fatal("late completion never queued")
	}

	if s.Tick(frame) {
		t.Error("tick after unmount drew a frame")
	}
	if target.renders != rendered {
		t.Errorf("renders = %d, want %d (loop stopped)", target.renders, rendered)
	}
}

func TestResize(t *testing.T) {
	target := &fakeTarget{}
	cfg := config.Default().Viewer
	cfg.Source = ""

	s, err := mount(target, 1024, 768, cfg, testLoaders(nil))
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	s.Resize(512, 384)
	if target.width != 512 || target.height != 384 {
		t.Errorf("target size = %dx%d, want 512x384", target.width, target.height)
	}
	if got, want := s.Camera().Aspect, float32(512)/float32(384); got != want {
		t.Errorf("aspect = %f, want %f", got, want)
	}

	// Same dimensions again do not touch the target.
	resizes := target.resizes
	s.Resize(512, 384)
	if target.resizes != resizes {
		t.Error("repeated identical resize hit the target")
	}

	// Bogus dimensions are ignored.
	s.Resize(0, 384)
	s.Resize(512, -1)
	if target.width != 512 || target.height != 384 {
		t.Errorf("target size after bogus resize = %dx%d, want 512x384", target.width, target.height)
	}

	s.Unmount()
	s.Resize(256, 256)
	if target.width != 512 {
		t.Error("resize after unmount touched the target")
	}
}

func TestModelApplyFitsCamera(t *testing.T) {
	target := &fakeTarget{}
	s, err := mount(target, 800, 600, config.Default().Viewer, testLoaders(testModel()))
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	tickUntil(t, s, "model load", func() bool { return s.Scene().Model != nil })

	// The quad is centered at (10,0,0); auto-fit retargets the camera.
	if got := s.Camera().Target; got.Distance(math.Vec3{X: 10}) > 1e-3 {
		t.Errorf("camera target = %v, want (10,0,0)", got)
	}
	if s.Camera().Near <= 0 {
		t.Errorf("near = %f, want > 0", s.Camera().Near)
	}
	if s.Camera().Far <= s.Camera().Near {
		t.Errorf("far = %f, want > near %f", s.Camera().Far, s.Camera().Near)
	}

	// Shadow flags and environment intensity came from the config.
	m := s.Scene().Model
	if !m.Nodes[0].CastShadow || !m.Nodes[0].ReceiveShadow {
		t.Error("shadow flags not applied from config")
	}
	if !m.Materials[0].Dirty {
		t.Error("materials not marked dirty for upload")
	}
}

func TestOpenSwapsModel(t *testing.T) {
	target := &fakeTarget{}

	var requested []string
	ld := loaders{
		model: func(path string) (*model.Model, error) {
			requested = append(requested, path)
			return testModel(), nil
		},
		env: func(path string) (*environment.Map, error) { return nil, errors.New("no env") },
	}

	s, err := mount(target, 800, 600, config.Default().Viewer, ld)
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	tickUntil(t, s, "first model load", func() bool { return s.Scene().Model != nil })

	s.Open("/models/other.glb")
	if s.Scene().Model != nil {
		t.Error("previous model still in scene right after Open")
	}
	tickUntil(t, s, "swapped model load", func() bool { return s.Scene().Model != nil })

	if len(requested) != 2 || requested[1] != "/models/other.glb" {
		t.Errorf("requested paths = %v, want default then /models/other.glb", requested)
	}
}

func TestToggleDecimated(t *testing.T) {
	target := &fakeTarget{}
	s, err := mount(target, 800, 600, config.Default().Viewer, testLoaders(testModel()))
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	// Before any model arrives the toggle is a no-op.
	s.ToggleDecimated()

	tickUntil(t, s, "model load", func() bool { return s.Scene().Model != nil })
	full := s.Scene().Model

	s.ToggleDecimated()
	if s.Scene().Model == full {
		t.Error("decimated toggle kept the full model in scene")
	}
	s.ToggleDecimated()
	if s.Scene().Model != full {
		t.Error("second toggle did not restore the full model")
	}
}

func TestToggleBounds(t *testing.T) {
	target := &fakeTarget{}
	cfg := config.Default().Viewer
	cfg.Source = ""

	s, err := mount(target, 800, 600, cfg, testLoaders(nil))
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	if s.Scene().ShowBounds {
		t.Fatal("bounds overlay on by default")
	}
	s.ToggleBounds()
	if !s.Scene().ShowBounds {
		t.Error("bounds overlay not enabled")
	}
	s.ToggleBounds()
	if s.Scene().ShowBounds {
		t.Error("bounds overlay not disabled")
	}
}

func TestEnvironmentApply(t *testing.T) {
	cfg := config.Default().Viewer
	cfg.Source = ""
	cfg.EnvMap = "studio.hdr"
	cfg.EnvMapIntensity = 3

	ld := loaders{
		model: func(path string) (*model.Model, error) { return nil, errors.New("no model") },
		env: func(path string) (*environment.Map, error) {
			return &environment.Map{Width: 2, Height: 2, Pixels: make([]float32, 12), Intensity: 1}, nil
		},
	}

	target := &fakeTarget{}
	s, err := mount(target, 800, 600, cfg, ld)
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	tickUntil(t, s, "environment load", func() bool { return s.Scene().Env != nil })
	if got := s.Scene().Env.Intensity; got != 3 {
		t.Errorf("environment intensity = %f, want 3 from config", got)
	}
}

func TestFailedLoadKeepsRunning(t *testing.T) {
	ld := loaders{
		model: func(path string) (*model.Model, error) { return nil, errors.New("boom") },
		env:   func(path string) (*environment.Map, error) { return nil, errors.New("boom") },
	}

	target := &fakeTarget{}
	s, err := mount(target, 800, 600, config.Default().Viewer, ld)
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	defer s.Unmount()

	for i := 0; i < 10; i++ {
		if !s.Tick(frame) {
			t.Fatal("loop stopped after failed load")
		}
		time.Sleep(time.Millisecond)
	}
	if s.Scene().Model != nil {
		t.Error("failed load still produced a model")
	}
}
