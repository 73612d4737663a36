package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/driver"
	"ember/internal/ui"
)

// unitExt is the extension of syntax tree units written by the front end.
const unitExt = ".emb"

var checkCmd = &cobra.Command{
	Use:   "check [flags] <unit.emb|directory>...",
	Short: "Type-check syntax tree units",
	Long: `Run interface resolution and body validation on syntax tree units. Directories
are searched recursively for *.emb files. Exits with status 1 when any unit
reports an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel units (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("emit", false, "also run code generation")
	checkCmd.Flags().String("target", "", "target preset (overrides the manifest)")
	checkCmd.Flags().String("ui", "auto", "progress view for several units (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatValue)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	withEmit, err := cmd.Flags().GetBool("emit")
	if err != nil {
		return fmt.Errorf("failed to get emit flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiMode, err := readToggle("ui", uiValue)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rep := &reporter{out: out, format: format, color: g.color, withNotes: withNotes, timings: g.timings && format != formatJSON}

	manifest, err := loadManifest(g)
	if err != nil {
		return reportConfigFailure(rep, g.manifestPath, err)
	}
	stage := driver.StageCheck
	if withEmit {
		stage = driver.StageEmit
	}
	opts, err := compileOptions(cmd, g, manifest, stage)
	if err != nil {
		return reportConfigFailure(rep, g.manifestPath, err)
	}
	opts.Timings = g.timings && format == formatJSON

	paths, err := collectUnits(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s units found", unitExt)
	}

	var results []*driver.Result
	if len(paths) > 1 && !g.quiet && format != formatJSON && uiMode.enabled(os.Stderr) {
		results, err = ui.RunWithProgress(cmd.Context(), "checking", paths, opts, jobs, cmd.ErrOrStderr())
	} else {
		results, err = driver.CheckUnits(cmd.Context(), paths, opts, jobs)
	}
	if err != nil {
		return err
	}

	failed := 0
	total := diag.NewBag(1)
	for _, res := range results {
		if err := rep.unit(res); err != nil {
			return err
		}
		if res.Failed() {
			failed++
		}
		total.Merge(res.Bag)
	}
	if err := rep.flush(); err != nil {
		return err
	}
	if !g.quiet && format != formatJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d unit(s): %s\n", len(results), diagfmt.Summary(total))
	}
	if failed > 0 {
		return errDiagnostics
	}
	return nil
}

// reportConfigFailure prints a configuration problem as a diagnostic.
func reportConfigFailure(rep *reporter, path string, err error) error {
	if path == "" {
		path = "ember.toml"
	}
	if rerr := rep.loadFailure(diag.ProjectBadConfig, path, err); rerr != nil {
		return rerr
	}
	if rerr := rep.flush(); rerr != nil {
		return rerr
	}
	return errDiagnostics
}

// collectUnits expands directories into their *.emb files and keeps file
// arguments as given. The result is sorted and free of duplicates.
func collectUnits(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			add(arg)
			continue
		}
		files, err := listUnits(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	sort.Strings(out)
	return out, nil
}

func listUnits(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			// skip hidden directories
			if path != dir && len(name) > 1 && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == unitExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
