package lab

import (
	"context"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/mesh"
)

// triangleLab draws a static RGB triangle with an identity transform.
type triangleLab struct {
	base
	mesh *mesh.Mesh
}

var _ Lab = &triangleLab{}

// NewTriangleLab creates the rasterization lab. It has no sliders.
func NewTriangleLab() Lab {
	return &triangleLab{
		base: base{
			name:   "triangle",
			title:  "Triangle Rasterization",
			params: NewParams(),
		},
	}
}

func (l *triangleLab) Start(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}
	l.mesh = mesh.Triangle()
	l.started = true
	return nil
}

func (l *triangleLab) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = false
	l.mesh = nil
}

func (l *triangleLab) Frame(float32, float32) (Frame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return Frame{}, ErrNotStarted
	}
	return Frame{
		PipelineKey: PipelineColor,
		Mesh:        l.mesh,
		MeshVersion: 1,
		MVP:         common.Identity(),
		ClearColor:  defaultClearColor,
	}, nil
}
