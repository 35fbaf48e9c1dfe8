package main

import (
	"github.com/spf13/cobra"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "photonforge",
		Short: "A physically-based Monte-Carlo path tracer and photon mapper",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable development-mode (human-readable, debug-level) logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newScenesCmd())
	return root
}
