package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/capitals/internal/config"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize capitals storage",
		Long:  "Create the configuration and data directories, write a default config.yaml,\nthen create the database schema.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeStore, err := e.openService(cmd.Context())
			if err != nil {
				return err
			}
			closeStore()

			dataDir, err := e.dataDir()
			if err != nil {
				return sysError("could not resolve the data directory", err)
			}
			result := struct {
				ConfigFile string `json:"config_file"`
				Database   string `json:"database"`
			}{
				ConfigFile: filepath.Join(e.configDir, config.FileName),
				Database:   filepath.Join(dataDir, e.settings.StoreConfig(dataDir).DBFile()),
			}

			if e.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "capitals initialized successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "config:   %s\ndatabase: %s\n", result.ConfigFile, result.Database)
			return nil
		},
	}
}
