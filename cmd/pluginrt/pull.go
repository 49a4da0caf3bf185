package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hearthforge/pluginrt/internal/infrastructure/distribution"
)

func newPullCmd() *cobra.Command {
	var pluginsDir string
	var username string

	cmd := &cobra.Command{
		Use:   "pull <reference>",
		Short: "Pull a plugin from an OCI registry",
		Long: `pull fetches a plugin artifact from an OCI registry (e.g.
ghcr.io/org/plugins/enemy-ai:1.0.0) and stores its wasm binary in
--plugins-dir, ready for load_plugins_from_directory to pick up.`,
		Example: `  pluginrt pull ghcr.io/org/plugins/enemy-ai:1.0.0 --plugins-dir ./plugins`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := distribution.Credentials{
				Username: username,
				Password: os.Getenv("PLUGINRT_REGISTRY_PASSWORD"),
			}
			path, jobID, err := distribution.NewPuller(creds).Pull(cmd.Context(), args[0], pluginsDir)
			if err != nil {
				return fmt.Errorf("pull plugin: %w", err)
			}
			fmt.Printf("Pulled %s -> %s (job %s)\n", args[0], path, jobID)
			return nil
		},
	}

	cmd.Flags().StringVar(&pluginsDir, "plugins-dir", "./plugins", "destination directory")
	cmd.Flags().StringVar(&username, "username", "", "registry username (password via PLUGINRT_REGISTRY_PASSWORD)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newPullCmd())
}
