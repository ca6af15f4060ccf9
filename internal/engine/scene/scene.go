// Package scene composes what the viewer displays: the light rig, an
// optional ground disc, the loaded model and the environment map. The
// scene is plain data; GPU upload and drawing live in the renderer.
package scene

import (
	"fmt"

	"github.com/aa1412666/meshview/internal/engine/environment"
	"github.com/aa1412666/meshview/internal/engine/lighting"
	"github.com/aa1412666/meshview/internal/engine/model"
	"github.com/aa1412666/meshview/pkg/math"
)

// Params selects what Compose adds to the scene.
type Params struct {
	Background         string // hex color, empty for a transparent clear
	HemiSkyColor       string
	HemiGroundColor    string
	HemiIntensity      float32
	DirIntensity       float32
	DirPosition        math.Vec3
	UseEnvAsBackground bool
	EnableShadows      bool
	EnableGround       bool
	ShowBounds         bool
}

// Scene holds the composed viewer content.
type Scene struct {
	// Background is nil for a transparent clear.
	Background *[3]float32

	// Light rig, appended by Compose. The renderer consumes the first
	// hemisphere and the first two directionals (key, rim).
	Hemis []lighting.Hemisphere
	Dirs  []lighting.Directional

	Ground *Ground
	Model  *model.Model
	Env    *environment.Map

	// EnvAsBackground is set when the environment map doubles as the
	// background. An explicit background always wins.
	EnvAsBackground bool

	ShowBounds bool

	useEnvAsBackground bool
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Compose adds the light rig and optional ground disc described by the
// params. Compose is meant to be called once per scene; a second call
// appends a duplicate light rig.
func (s *Scene) Compose(p Params) error {
	if p.Background != "" {
		bg, err := ParseHexColor(p.Background)
		if err != nil {
			return fmt.Errorf("scene: background: %w", err)
		}
		s.Background = &bg
	}

	sky, err := ParseHexColor(p.HemiSkyColor)
	if err != nil {
		return fmt.Errorf("scene: hemisphere sky: %w", err)
	}
	ground, err := ParseHexColor(p.HemiGroundColor)
	if err != nil {
		return fmt.Errorf("scene: hemisphere ground: %w", err)
	}
	s.Hemis = append(s.Hemis, lighting.Hemisphere{
		SkyColor:    sky,
		GroundColor: ground,
		Intensity:   p.HemiIntensity,
	})

	key := lighting.NewDirectional(p.DirPosition, p.DirIntensity, p.EnableShadows)
	s.Dirs = append(s.Dirs, key, lighting.Rim(key))

	if p.EnableGround {
		s.Ground = NewGround(DefaultGroundRadius)
	}

	s.ShowBounds = p.ShowBounds
	s.useEnvAsBackground = p.UseEnvAsBackground
	return nil
}

// Hemisphere returns the scene's hemisphere light.
func (s *Scene) Hemisphere() lighting.Hemisphere {
	if len(s.Hemis) == 0 {
		return lighting.Hemisphere{}
	}
	return s.Hemis[0]
}

// Key returns the directional key light.
func (s *Scene) Key() (lighting.Directional, bool) {
	if len(s.Dirs) == 0 {
		return lighting.Directional{}, false
	}
	return s.Dirs[0], true
}

// RimLight returns the directional rim light.
func (s *Scene) RimLight() (lighting.Directional, bool) {
	if len(s.Dirs) < 2 {
		return lighting.Directional{}, false
	}
	return s.Dirs[1], true
}

// SetModel installs the loaded model.
func (s *Scene) SetModel(m *model.Model) {
	s.Model = m
}

// SetEnvironment installs the image-based lighting environment. The
// map becomes the background only when no explicit background was
// composed and the scene was configured to allow it.
func (s *Scene) SetEnvironment(env *environment.Map) {
	s.Env = env
	s.EnvAsBackground = env != nil && s.useEnvAsBackground && s.Background == nil
}
