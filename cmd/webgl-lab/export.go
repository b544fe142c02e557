package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Park52/webgl-lab/engine/config"
	"github.com/Park52/webgl-lab/engine/mesh"
	"github.com/spf13/cobra"
)

// errExportMismatch is returned by --verify when the file read back differs from the mesh.
var errExportMismatch = errors.New("exported mesh does not match")

func newExportSphereCommand(load func() (config.Config, error)) *cobra.Command {
	var (
		radius float32
		stacks int
		slices int
		output string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "export-sphere",
		Short: "Write the sphere mesh as glTF (.glb or .gltf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("radius") {
				radius = cfg.Sphere.Radius
			}
			if !cmd.Flags().Changed("stacks") {
				stacks = cfg.Sphere.Stacks
			}
			if !cmd.Flags().Changed("slices") {
				slices = cfg.Sphere.Slices
			}

			s, err := mesh.CreateSphereMesh(radius, stacks, slices)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("sphere_%dx%d", stacks, slices)
			if strings.EqualFold(filepath.Ext(output), ".gltf") {
				err = s.SaveGLTF(output, name)
			} else {
				err = s.SaveGLB(output, name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d vertices, %d indices\n", output, s.VertexCount(), s.IndexCount())
			if verify {
				return verifyExport(cmd, output, &s.Mesh)
			}
			return nil
		},
	}
	cmd.Flags().Float32Var(&radius, "radius", 1, "sphere radius (defaults to the config value)")
	cmd.Flags().IntVar(&stacks, "stacks", 16, "latitude bands, at least 1 (defaults to the config value)")
	cmd.Flags().IntVar(&slices, "slices", 32, "longitude bands, at least 1 (defaults to the config value)")
	cmd.Flags().StringVarP(&output, "output", "o", "sphere.glb", "destination file")
	cmd.Flags().BoolVar(&verify, "verify", false, "read the file back and compare it with the generated mesh")
	return cmd
}

// verifyExport re-reads path and checks the counts and every index against want.
func verifyExport(cmd *cobra.Command, path string, want *mesh.Mesh) error {
	got, err := mesh.Load(path)
	if err != nil {
		return err
	}
	if got.VertexCount() != want.VertexCount() || got.IndexCount() != want.IndexCount() {
		return fmt.Errorf("%w: %s has %d vertices, %d indices", errExportMismatch, path, got.VertexCount(), got.IndexCount())
	}
	for i, idx := range want.Indices {
		if got.Indices[i] != idx {
			return fmt.Errorf("%w: %s index %d is %d, want %d", errExportMismatch, path, i, got.Indices[i], idx)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "verified %s\n", path)
	return nil
}
