package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/capitals/pkg/capitals"
)

const modulePath = "github.com/mesh-intelligence/capitals"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the capitals version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "capitals v%s\nmodule: %s\n", capitals.Version, modulePath)
			return nil
		},
	}
}
