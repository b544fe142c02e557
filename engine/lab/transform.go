package lab

import (
	"context"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/mesh"
)

// Slider keys of the transform lab.
const (
	ParamTranslateX = "tx"
	ParamTranslateY = "ty"
	ParamAngle      = "angle"
	ParamScaleX     = "sx"
	ParamScaleY     = "sy"
)

// transformLab applies a 2D affine transform, composed as T*R*S, to the colored triangle.
type transformLab struct {
	base
	mesh *mesh.Mesh
}

var _ Lab = &transformLab{}

// NewTransformLab creates the 2D transform lab with translate, rotate and scale sliders.
// The angle slider is in degrees.
func NewTransformLab() Lab {
	return &transformLab{
		base: base{
			name:  "transform",
			title: "2D Transforms",
			params: NewParams(
				Slider{Key: ParamTranslateX, Label: "Translate X", Min: -1, Max: 1, Step: 0.01},
				Slider{Key: ParamTranslateY, Label: "Translate Y", Min: -1, Max: 1, Step: 0.01},
				Slider{Key: ParamAngle, Label: "Rotation (deg)", Min: -180, Max: 180, Step: 1},
				Slider{Key: ParamScaleX, Label: "Scale X", Min: 0.1, Max: 2, Step: 0.05, Value: 1},
				Slider{Key: ParamScaleY, Label: "Scale Y", Min: 0.1, Max: 2, Step: 0.05, Value: 1},
			),
		},
	}
}

func (l *transformLab) Start(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}
	l.mesh = mesh.Triangle()
	l.started = true
	return nil
}

func (l *transformLab) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = false
	l.mesh = nil
}

func (l *transformLab) Frame(_ float32, aspect float32) (Frame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return Frame{}, ErrNotStarted
	}
	return Frame{
		PipelineKey: PipelineColor,
		Mesh:        l.mesh,
		MeshVersion: 1,
		MVP:         aspectOrtho(aspect).Mul(TransformModel(l.params)),
		ClearColor:  defaultClearColor,
	}, nil
}

// TransformModel builds T(tx,ty) * Rz(angle) * S(sx,sy) from the transform lab sliders.
func TransformModel(p *Params) common.Mat4 {
	t := common.Translation(p.Get(ParamTranslateX), p.Get(ParamTranslateY), 0)
	r := common.RotationZ(common.Deg2Rad(p.Get(ParamAngle)))
	s := common.Scaling(p.Get(ParamScaleX), p.Get(ParamScaleY), 1)
	return common.Multiply(t, common.Multiply(r, s))
}
