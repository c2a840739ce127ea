package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stencil/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Render every page and re-render on file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.app.Watch(cmd.Context(), app.WatchOptions{NoCache: noCache})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Disable the render cache and always evaluate templates")
	return cmd
}
