package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ember/internal/driver"
	"ember/internal/layout"
	"ember/internal/project"
)

type toggleMode string

const (
	toggleAuto toggleMode = "auto"
	toggleOn   toggleMode = "on"
	toggleOff  toggleMode = "off"
)

func readToggle(flag, value string) (toggleMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return toggleAuto, nil
	case "on":
		return toggleOn, nil
	case "off":
		return toggleOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

func (m toggleMode) enabled(f *os.File) bool {
	switch m {
	case toggleOn:
		return true
	case toggleOff:
		return false
	default:
		return isTerminal(f)
	}
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	manifestPath   string
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var g globalOptions

	colorValue, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readToggle("color", colorValue)
	if err != nil {
		return g, err
	}
	g.color = mode.enabled(os.Stderr)

	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.manifestPath, err = flags.GetString("manifest"); err != nil {
		return g, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	return g, nil
}

// loadManifest reads the manifest named by --manifest or the nearest
// ember.toml above the working directory. A missing manifest is not an
// error.
func loadManifest(g globalOptions) (*project.Manifest, error) {
	if g.manifestPath != "" {
		return project.LoadManifest(g.manifestPath)
	}
	m, _, err := project.FindAndLoad(".")
	return m, err
}

// resolveTarget picks the --target preset, then the manifest target, then
// the default preset.
func resolveTarget(preset string, m *project.Manifest) (layout.Target, error) {
	if preset != "" {
		t, ok := layout.Preset(preset)
		if !ok {
			return layout.Target{}, fmt.Errorf("unknown target preset %q (known: %s)", preset, strings.Join(layout.PresetNames(), ", "))
		}
		return t, nil
	}
	if m != nil {
		return m.Target()
	}
	return layout.Default(), nil
}

// compileOptions builds driver options for stage from the shared flags,
// the manifest and the command's --target flag.
func compileOptions(cmd *cobra.Command, g globalOptions, m *project.Manifest, stage driver.Stage) (driver.Options, error) {
	preset, err := cmd.Flags().GetString("target")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get target flag: %w", err)
	}
	tgt, err := resolveTarget(preset, m)
	if err != nil {
		return driver.Options{}, err
	}
	return driver.Options{
		Target:         tgt,
		Stage:          stage,
		MaxDiagnostics: g.maxDiagnostics,
	}, nil
}
