package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var pluginsDir string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List *.wasm plugins in a directory",
		Long:    `list enumerates every *.wasm file in --plugins-dir and shows its optional plugin.json sidecar metadata, without loading it into the sandbox.`,
		Example: `  pluginrt list --plugins-dir ./plugins`,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listPlugins(pluginsDir)
		},
	}

	cmd.Flags().StringVar(&pluginsDir, "plugins-dir", "./plugins", "directory to enumerate")
	return cmd
}

func listPlugins(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No plugins directory found.")
			return nil
		}
		return fmt.Errorf("read plugins directory: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tNAME\tVERSION\tCUSTOM CHANNELS")

	found := false
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".wasm" {
			continue
		}
		found = true
		name, version, channels := "-", "-", "-"
		if manifestBytes, err := os.ReadFile(manifestSidecarPath(dir, entry.Name())); err == nil {
			if m, err := parseManifestJSON(manifestBytes); err == nil {
				name, version = m.Name, m.Version
				if len(m.CustomChannels) > 0 {
					channels = fmt.Sprintf("%v", m.CustomChannels)
				}
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Name(), name, version, channels)
	}

	if !found {
		fmt.Println("No plugins found.")
		return nil
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(newListCmd())
}
