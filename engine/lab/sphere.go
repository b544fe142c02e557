package lab

import (
	"context"
	"fmt"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/assets"
	"github.com/Park52/webgl-lab/engine/mesh"
	"github.com/chewxy/math32"
)

// Slider keys of the sphere lab.
const (
	ParamRadius = "radius"
	ParamStacks = "stacks"
	ParamSlices = "slices"
	ParamSpeed  = "speed"
)

// sphereGeometry is the subset of sliders that shape the mesh.
type sphereGeometry struct {
	radius float32
	stacks int
	slices int
}

// sphereLab renders a spinning, checker-textured UV sphere. Changing radius, stacks or slices
// rebuilds the whole mesh on the next frame; speed only affects the rotation.
type sphereLab struct {
	base

	sphere      *mesh.SphereMesh
	geometry    sphereGeometry
	meshVersion uint64
	texture     *common.TextureStagingData
	angle       float32
	eye         [3]float32
	fovY        float32
	initial     sphereDefaults
}

// sphereDefaults holds the initial slider values.
type sphereDefaults struct {
	radius float32
	stacks int
	slices int
	speed  float32
}

var _ Lab = &sphereLab{}

// NewSphereLab creates the sphere mesh lab with all specified options applied.
//
// Parameters:
//   - options: variadic list of SphereLabBuilderOption functions to configure the lab
//
// Returns:
//   - Lab: the sphere lab, not yet started
func NewSphereLab(options ...SphereLabBuilderOption) Lab {
	l := &sphereLab{
		base: base{
			name:  "sphere",
			title: "Sphere Mesh",
		},
		eye:     [3]float32{0, 1.5, 4},
		fovY:    common.Deg2Rad(45),
		initial: sphereDefaults{radius: 1, stacks: 16, slices: 32, speed: 0.5},
	}
	for _, opt := range options {
		opt(l)
	}
	initial := l.initial
	l.params = NewParams(
		Slider{Key: ParamRadius, Label: "Radius", Min: 0.2, Max: 2, Step: 0.05, Value: initial.radius},
		Slider{Key: ParamStacks, Label: "Stacks", Min: 1, Max: 128, Step: 1, Value: float32(initial.stacks)},
		Slider{Key: ParamSlices, Label: "Slices", Min: 1, Max: 256, Step: 1, Value: float32(initial.slices)},
		Slider{Key: ParamSpeed, Label: "Speed (rad/s)", Min: 0, Max: 3, Step: 0.05, Value: initial.speed},
	)
	return l
}

func (l *sphereLab) Start(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}
	if err := l.rebuildLocked(l.currentGeometry()); err != nil {
		return err
	}
	l.texture = assets.Checkerboard(256, 16)
	l.angle = 0
	l.started = true
	return nil
}

func (l *sphereLab) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = false
	l.sphere = nil
	l.texture = nil
}

func (l *sphereLab) Frame(dt, aspect float32) (Frame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return Frame{}, ErrNotStarted
	}

	if g := l.currentGeometry(); g != l.geometry {
		if err := l.rebuildLocked(g); err != nil {
			return Frame{}, err
		}
	}

	l.angle = math32.Mod(l.angle+l.params.Get(ParamSpeed)*dt, 2*math32.Pi)

	if aspect <= 0 {
		aspect = 1
	}
	proj := common.Perspective(l.fovY, aspect, 0.1, 100)
	view := common.LookAt(l.eye, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	model := common.RotationY(l.angle)

	return Frame{
		PipelineKey:    PipelineTextured,
		Mesh:           &l.sphere.Mesh,
		MeshVersion:    l.meshVersion,
		MVP:            proj.Mul(view).Mul(model),
		Texture:        l.texture,
		TextureVersion: 1,
		ClearColor:     defaultClearColor,
	}, nil
}

// Sphere returns the current sphere mesh, or nil when the lab is stopped.
func (l *sphereLab) Sphere() *mesh.SphereMesh {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sphere
}

func (l *sphereLab) currentGeometry() sphereGeometry {
	return sphereGeometry{
		radius: l.params.Get(ParamRadius),
		stacks: int(l.params.Get(ParamStacks) + 0.5),
		slices: int(l.params.Get(ParamSlices) + 0.5),
	}
}

func (l *sphereLab) rebuildLocked(g sphereGeometry) error {
	s, err := mesh.CreateSphereMesh(g.radius, g.stacks, g.slices)
	if err != nil {
		return fmt.Errorf("lab: sphere: %w", err)
	}
	l.sphere = s
	l.geometry = g
	l.meshVersion++
	common.Logger().Debug("lab: sphere rebuilt",
		"radius", g.radius,
		"stacks", g.stacks,
		"slices", g.slices,
		"vertices", s.VertexCount(),
		"indices", s.IndexCount(),
	)
	return nil
}
