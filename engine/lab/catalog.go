package lab

import (
	"github.com/Park52/webgl-lab/engine/assets"
	"github.com/Park52/webgl-lab/engine/config"
	"github.com/Park52/webgl-lab/engine/router"
)

// Entry describes one lab in menu order.
type Entry struct {
	Path  string
	Title string
	New   func() Lab
}

// Catalog lists every lab configured from cfg, in menu order.
//
// Parameters:
//   - cfg: supplies the texture path and sphere defaults
//   - loader: decodes textures for the texture lab
//
// Returns:
//   - []Entry: the labs
func Catalog(cfg config.Config, loader assets.Loader) []Entry {
	textureOpts := []TextureLabBuilderOption{
		WithTexturePath(cfg.Texture.Path),
		WithTextureLoader(loader),
	}
	if cfg.Texture.Watch {
		textureOpts = append(textureOpts, WithTextureWatch(cfg.Texture.Debounce()))
	}

	return []Entry{
		{Path: "/triangle", Title: "Triangle Rasterization", New: NewTriangleLab},
		{Path: "/transform", Title: "2D Transforms", New: NewTransformLab},
		{Path: "/texture", Title: "Texture Mapping", New: func() Lab {
			return NewTextureLab(textureOpts...)
		}},
		{Path: "/sphere", Title: "Sphere Mesh", New: func() Lab {
			return NewSphereLab(
				WithSphere(cfg.Sphere.Radius, cfg.Sphere.Stacks, cfg.Sphere.Slices),
				WithSpinSpeed(cfg.Sphere.Speed),
			)
		}},
	}
}

// Register adds every catalog entry to r. Each navigation builds a fresh lab.
//
// Parameters:
//   - r: the router to populate
//   - entries: the labs to register
func Register(r router.Router, entries []Entry) {
	for _, e := range entries {
		r.Handle(e.Path, func() (router.View, error) {
			return e.New(), nil
		})
	}
}
