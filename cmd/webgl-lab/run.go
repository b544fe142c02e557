package main

import (
	"github.com/Park52/webgl-lab/engine"
	"github.com/Park52/webgl-lab/engine/assets"
	"github.com/Park52/webgl-lab/engine/config"
	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/renderer"
	"github.com/Park52/webgl-lab/engine/router"
	"github.com/Park52/webgl-lab/engine/window"
	"github.com/spf13/cobra"
)

func newRunCommand(load func() (config.Config, error)) *cobra.Command {
	var (
		route   string
		texture string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the lab window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			applyRunFlags(cmd, &cfg, route, texture, watch)
			if err := installLogger(cfg); err != nil {
				return err
			}
			return run(cfg)
		},
	}
	cmd.Flags().StringVarP(&route, "route", "r", "", "start route, e.g. #/sphere")
	cmd.Flags().StringVarP(&texture, "texture", "t", "", "image shown by the texture lab")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the texture when the file changes")
	return cmd
}

// applyRunFlags overrides cfg with the flags the user actually set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, route, texture string, watch bool) {
	if cmd.Flags().Changed("route") {
		cfg.Router.Start = route
	}
	if cmd.Flags().Changed("texture") {
		cfg.Texture.Path = texture
	}
	if cmd.Flags().Changed("watch") {
		cfg.Texture.Watch = watch
	}
}

func run(cfg config.Config) error {
	msaa, err := renderer.ParseMSAA(cfg.Window.MSAA)
	if err != nil {
		return err
	}

	w := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(320, 240),
	)

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, w,
		renderer.WithPresentMode(renderer.PresentModeFor(cfg.Window.VSync)),
		renderer.WithMSAA(msaa),
	)

	p, err := renderer.NewPresenter(r)
	if err != nil {
		r.Release()
		_ = w.Close()
		return err
	}

	rt := router.NewRouter(nil,
		router.WithDefault(cfg.Router.Start),
		router.WithFallback(cfg.Router.Fallback),
	)
	lab.Register(rt, lab.Catalog(cfg, assets.NewLoader()))

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithPresenter(p),
		engine.WithRouter(rt),
		engine.WithTitle(cfg.Window.Title),
		engine.WithStartRoute(cfg.Router.Start),
		engine.WithTickRate(float64(cfg.Engine.TickRate)),
		engine.WithRenderFrameLimit(float64(cfg.Engine.FrameLimit)),
		engine.WithProfiling(cfg.Engine.Profiling),
	)
	return eng.Run()
}
