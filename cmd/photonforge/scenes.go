package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnegrid/photonforge/pkg/camera"
	"github.com/arnegrid/photonforge/pkg/scene"
)

// demoScenes maps a --demo flag value to a builder function, used by both
// the render command and the `scenes` listing command.
var demoScenes = map[string]func() (*scene.Scene, camera.Camera){
	"default":       scene.DefaultScene,
	"sphere":        scene.SingleSphereScene,
	"cornell":       scene.CornellBox,
	"caustic-glass": scene.CausticGlassScene,
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in demo scenes usable with render --demo",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"default", "sphere", "cornell", "caustic-glass"} {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
