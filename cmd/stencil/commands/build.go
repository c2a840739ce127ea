package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stencil/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.app.Build(cmd.Context(), app.BuildOptions{NoCache: noCache})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Disable the render cache and always evaluate templates")
	return cmd
}
