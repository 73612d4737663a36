package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/driver"
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] <unit.emb>",
	Short: "Lower a syntax tree unit to LLVM IR",
	Long: `Check a syntax tree unit and write its textual LLVM IR. The entry function,
target and output path default to the [build] and [target] tables of
ember.toml.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringP("output", "o", "", "output file (\"-\" for stdout; default from the manifest, else stdout)")
	emitCmd.Flags().String("entry", "", "qualified name of the entry function, e.g. main::main")
	emitCmd.Flags().Bool("no-entry", false, "do not emit the platform entry wrapper")
	emitCmd.Flags().String("target", "", "target preset (overrides the manifest)")
	emitCmd.Flags().String("format", "pretty", "diagnostic format (pretty|short|json)")
	emitCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
}

func runEmit(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	output, err := flags.GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	entry, err := flags.GetString("entry")
	if err != nil {
		return fmt.Errorf("failed to get entry flag: %w", err)
	}
	noEntry, err := flags.GetBool("no-entry")
	if err != nil {
		return fmt.Errorf("failed to get no-entry flag: %w", err)
	}
	formatValue, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatValue)
	if err != nil {
		return err
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if entry != "" && noEntry {
		return fmt.Errorf("--entry and --no-entry are mutually exclusive")
	}

	// IR owns stdout, so diagnostics go to stderr.
	rep := &reporter{out: cmd.ErrOrStderr(), format: format, color: g.color, withNotes: withNotes, timings: g.timings && format != formatJSON}

	manifest, err := loadManifest(g)
	if err != nil {
		return reportConfigFailure(rep, g.manifestPath, err)
	}
	opts, err := compileOptions(cmd, g, manifest, driver.StageEmit)
	if err != nil {
		return reportConfigFailure(rep, g.manifestPath, err)
	}
	opts.Timings = g.timings && format == formatJSON
	if manifest != nil {
		if entry == "" {
			entry = manifest.Config.Build.Entry
		}
		if output == "" {
			output = manifest.OutputPath()
		}
	}
	if !noEntry {
		opts.Entry = entry
	}

	res, err := driver.CompileFile(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	if err := rep.unit(res); err != nil {
		return err
	}
	if err := rep.flush(); err != nil {
		return err
	}
	if res.Failed() {
		return errDiagnostics
	}
	if err := writeIR(cmd.OutOrStdout(), output, res.IR); err != nil {
		return err
	}
	if !g.quiet && output != "" && output != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
	}
	return nil
}

func writeIR(stdout io.Writer, path, ir string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, ir)
		return err
	}
	if err := os.WriteFile(path, []byte(ir), 0o600); err != nil {
		return fmt.Errorf("failed to write IR: %w", err)
	}
	return nil
}
