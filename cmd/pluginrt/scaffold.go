package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

type scaffoldOptions struct {
	Name          string
	Language      string
	Exports       []string
	OutputDir     string
	NoInteractive bool
}

func newScaffoldCmd() *cobra.Command {
	opts := scaffoldOptions{OutputDir: "."}

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate a starter guest-side plugin project",
		Long:  `scaffold interactively collects a plugin's name, guest language, and which lifecycle exports to stub, then writes a starter project directory.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runScaffold(&opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "plugin name")
	cmd.Flags().StringVar(&opts.Language, "language", "", "guest language: rust, tinygo, assemblyscript")
	cmd.Flags().StringSliceVar(&opts.Exports, "exports", nil, "lifecycle exports to stub: on_init, on_frame")
	cmd.Flags().StringVar(&opts.OutputDir, "output", opts.OutputDir, "directory to write the scaffold into")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "fail instead of prompting for missing fields")

	return cmd
}

func runScaffold(opts *scaffoldOptions) error {
	if !opts.NoInteractive {
		if opts.Name == "" {
			if err := huh.NewInput().
				Title("Plugin name").
				Value(&opts.Name).
				Run(); err != nil {
				return err
			}
		}

		if opts.Language == "" {
			if err := huh.NewSelect[string]().
				Title("Guest language").
				Options(
					huh.NewOption("Rust", "rust").Selected(true),
					huh.NewOption("TinyGo", "tinygo"),
					huh.NewOption("AssemblyScript", "assemblyscript"),
				).
				Value(&opts.Language).
				Run(); err != nil {
				return err
			}
		}

		if len(opts.Exports) == 0 {
			if err := huh.NewMultiSelect[string]().
				Title("Lifecycle exports to stub").
				Options(
					huh.NewOption("on_init", "on_init").Selected(true),
					huh.NewOption("on_frame", "on_frame").Selected(true),
				).
				Value(&opts.Exports).
				Run(); err != nil {
				return err
			}
		}
	}

	if opts.Name == "" {
		return fmt.Errorf("plugin name is required")
	}

	dir := filepath.Join(opts.OutputDir, opts.Name)
	srcPath := filepath.Join(dir, scaffoldFileName(opts.Language))
	if err := os.MkdirAll(filepath.Dir(srcPath), 0o755); err != nil {
		return fmt.Errorf("create scaffold directory: %w", err)
	}

	src, err := scaffoldSource(opts.Language, opts.Name, opts.Exports)
	if err != nil {
		return err
	}

	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		return fmt.Errorf("write scaffold source: %w", err)
	}

	fmt.Printf("Scaffolded %s plugin %q at %s\n", opts.Language, opts.Name, dir)
	return nil
}

func scaffoldFileName(language string) string {
	switch language {
	case "tinygo":
		return "main.go"
	case "assemblyscript":
		return "assembly/index.ts"
	default:
		return "src/lib.rs"
	}
}

func scaffoldSource(language, name string, exports []string) (string, error) {
	has := func(export string) bool {
		for _, e := range exports {
			if e == export {
				return true
			}
		}
		return false
	}

	switch language {
	case "rust", "":
		var body string
		if has("on_init") {
			body += "#[no_mangle]\npub extern \"C\" fn on_init() {}\n\n"
		}
		if has("on_frame") {
			body += "#[no_mangle]\npub extern \"C\" fn on_frame() {}\n"
		}
		return fmt.Sprintf("// %s: scaffolded plugin entry points.\n\n%s", name, body), nil
	case "tinygo":
		var body string
		if has("on_init") {
			body += "//export on_init\nfunc onInit() {}\n\n"
		}
		if has("on_frame") {
			body += "//export on_frame\nfunc onFrame() {}\n"
		}
		return fmt.Sprintf("package main\n\n// %s: scaffolded plugin entry points.\n\n%sfunc main() {}\n", name, body), nil
	case "assemblyscript":
		var body string
		if has("on_init") {
			body += "export function on_init(): void {}\n\n"
		}
		if has("on_frame") {
			body += "export function on_frame(): void {}\n"
		}
		return fmt.Sprintf("// %s: scaffolded plugin entry points.\n\n%s", name, body), nil
	default:
		return "", fmt.Errorf("scaffold: unsupported language %q", language)
	}
}

func init() {
	rootCmd.AddCommand(newScaffoldCmd())
}
