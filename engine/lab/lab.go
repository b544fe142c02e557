// Package lab implements the interactive lab pages. Each lab owns a slider parameter set and
// turns the current slider values into a Frame: the mesh, transform and texture to draw.
// Labs know nothing about the GPU; the renderer consumes their frames.
package lab

import (
	"context"
	"errors"
	"sync"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/mesh"
)

// ErrNotStarted is returned by Frame when the lab is not running.
var ErrNotStarted = errors.New("lab: not started")

// Pipeline keys understood by the renderer.
const (
	PipelineColor    = "color"
	PipelineTextured = "textured"
)

// Frame is everything the renderer needs to draw one frame of a lab.
// MeshVersion and TextureVersion change whenever the corresponding data is replaced, so the
// renderer can skip uploads while they stay the same.
type Frame struct {
	PipelineKey    string
	Mesh           *mesh.Mesh
	MeshVersion    uint64
	MVP            common.Mat4
	Texture        *common.TextureStagingData
	TextureVersion uint64
	ClearColor     [4]float64
}

// Lab is a single lab page. Start and Stop follow the router's View lifecycle.
type Lab interface {
	// Name returns the route name, e.g. "sphere".
	Name() string

	// Title returns a human readable title.
	Title() string

	// Params returns the lab's slider set.
	Params() *Params

	// Start prepares the lab. Calling Start on a running lab does nothing.
	Start(ctx context.Context) error

	// Stop releases the lab's resources. Safe to call more than once.
	Stop()

	// Frame advances the lab by dt seconds and returns what to draw.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	//   - aspect: viewport width divided by height
	//
	// Returns:
	//   - Frame: the frame to render
	//   - error: ErrNotStarted when the lab is stopped
	Frame(dt, aspect float32) (Frame, error)
}

// defaultClearColor is the dark slate background shared by all labs.
var defaultClearColor = [4]float64{0.08, 0.09, 0.11, 1}

// base carries the state every lab shares. Labs embed it and guard their own fields with mu.
type base struct {
	mu      sync.Mutex
	name    string
	title   string
	params  *Params
	started bool
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Title() string {
	return b.title
}

func (b *base) Params() *Params {
	return b.params
}

// aspectOrtho returns an orthographic projection that keeps [-1,1] visible on the short axis.
func aspectOrtho(aspect float32) common.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	if aspect >= 1 {
		return common.Ortho(-aspect, aspect, -1, 1, -1, 1)
	}
	return common.Ortho(-1, 1, -1/aspect, 1/aspect, -1, 1)
}
