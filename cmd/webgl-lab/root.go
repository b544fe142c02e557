package main

import (
	"log/slog"
	"os"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "webgl-lab.toml"

// newRootCommand builds the command tree. Each call returns independent commands and flags.
func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "webgl-lab",
		Short:         "Interactive graphics lab: triangles, transforms, textures and sphere meshes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "TOML configuration file; a missing file uses the defaults")

	load := func() (config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(
		newRunCommand(load),
		newRoutesCommand(load),
		newExportSphereCommand(load),
		newConfigCommand(load),
	)
	return root
}

// installLogger routes common.Logger to stderr at the configured level.
func installLogger(cfg config.Config) error {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
