package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Park52/webgl-lab/engine/assets"
	"github.com/Park52/webgl-lab/engine/config"
	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/router"
	"github.com/spf13/cobra"
)

func newRoutesCommand(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the lab routes in the order the number keys select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, e := range lab.Catalog(cfg, assets.NewLoader()) {
				marker := ""
				if e.Path == router.Normalize(cfg.Router.Start) {
					marker = "(start)"
				}
				fmt.Fprintf(tw, "%d\t#%s\t%s\t%s\n", i+1, e.Path, e.Title, marker)
			}
			return tw.Flush()
		},
	}
}
