package lab

import (
	"context"
	"fmt"
	"time"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/assets"
	"github.com/Park52/webgl-lab/engine/mesh"
)

// Slider keys of the texture lab. ParamAngle is shared with the transform lab.
const (
	ParamScale = "scale"
)

// textureLab maps an image onto a quad. The image is decoded once during Start; with watching
// enabled it is decoded again whenever the file changes.
type textureLab struct {
	base

	loader   assets.Loader
	path     string
	watch    bool
	debounce time.Duration

	mesh       *mesh.Mesh
	texture    *common.TextureStagingData
	texVersion uint64
	watcher    assets.Watcher
}

var _ Lab = &textureLab{}

// NewTextureLab creates the texture mapping lab with all specified options applied.
//
// Parameters:
//   - options: variadic list of TextureLabBuilderOption functions to configure the lab
//
// Returns:
//   - Lab: the texture lab, not yet started
func NewTextureLab(options ...TextureLabBuilderOption) Lab {
	l := &textureLab{
		base: base{
			name:  "texture",
			title: "Texture Mapping",
			params: NewParams(
				Slider{Key: ParamAngle, Label: "Rotation (deg)", Min: -180, Max: 180, Step: 1},
				Slider{Key: ParamScale, Label: "Scale", Min: 0.1, Max: 2, Step: 0.05, Value: 1},
			),
		},
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.loader == nil {
		l.loader = assets.NewLoader()
	}
	return l
}

func (l *textureLab) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	tex := assets.Checkerboard(256, 8)
	if l.path != "" {
		var err error
		tex, err = l.loader.LoadTexture(ctx, l.path)
		if err != nil {
			return fmt.Errorf("lab: texture: %w", err)
		}
	}

	var w assets.Watcher
	if l.path != "" && l.watch {
		var err error
		w, err = assets.NewWatcher(l.path, l.reload, assets.WithDebounce(l.debounce))
		if err != nil {
			return fmt.Errorf("lab: texture: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.mesh = mesh.Quad(0.75, 0.75)
	l.texture = tex
	l.texVersion++
	l.watcher = w
	l.started = true
	return nil
}

// reload runs on the watcher goroutine after the image file changes.
func (l *textureLab) reload(path string) {
	tex, err := l.loader.LoadTexture(context.Background(), path)
	if err != nil {
		common.Logger().Warn("lab: texture reload failed", "path", path, "err", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return
	}
	l.texture = tex
	l.texVersion++
	common.Logger().Info("lab: texture reloaded", "path", path, "version", l.texVersion)
}

func (l *textureLab) Stop() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.started = false
	l.mesh = nil
	l.texture = nil
	l.mu.Unlock()

	// Close waits for an in-flight reload, which needs mu.
	if w != nil {
		if err := w.Close(); err != nil {
			common.Logger().Warn("lab: close texture watcher", "err", err)
		}
	}
}

func (l *textureLab) Frame(_ float32, aspect float32) (Frame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return Frame{}, ErrNotStarted
	}

	scale := l.params.Get(ParamScale)
	model := common.Multiply(
		common.RotationZ(common.Deg2Rad(l.params.Get(ParamAngle))),
		common.Scaling(scale, scale, 1),
	)
	return Frame{
		PipelineKey:    PipelineTextured,
		Mesh:           l.mesh,
		MeshVersion:    1,
		MVP:            aspectOrtho(aspect).Mul(model),
		Texture:        l.texture,
		TextureVersion: l.texVersion,
		ClearColor:     defaultClearColor,
	}, nil
}
