// Command webgl-lab opens the graphics lab in a native window and provides helpers for
// inspecting its routes and exporting the generated sphere mesh.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
