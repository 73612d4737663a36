package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ember/internal/layout"
	"ember/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an ember.toml manifest",
	Long: `Create an ember.toml manifest in [path] (the current directory by default).
The directory is created when missing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("target", "", "target preset recorded in the manifest")
	initCmd.Flags().String("entry", "main::main", "entry function recorded in the manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	preset, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		return fmt.Errorf("failed to get entry flag: %w", err)
	}
	if preset == "" {
		preset = layout.Default().Name
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	content := defaultManifest(preset, entry)
	// validate before writing so a bad --target or --entry leaves no file behind
	if _, err := project.ParseManifest(manifestPath, []byte(content)); err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ember project in %s\n", target)
	return nil
}

// defaultManifest returns a minimal manifest naming a preset and an entry.
func defaultManifest(preset, entry string) string {
	return fmt.Sprintf(`# ember project manifest
[target]
preset = %q

[build]
entry = %q
output = "out.ll"
`, preset, entry)
}
