package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ember/internal/layout"
	"ember/internal/ui"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List target presets",
	Args:  cobra.NoArgs,
	RunE:  runTargets,
}

func init() {
	targetsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type targetJSON struct {
	Name         string `json:"name"`
	Triple       string `json:"triple"`
	PtrSize      int    `json:"pointer_size"`
	PtrAlign     int    `json:"pointer_align"`
	IntAlign     [4]int `json:"int_align"`
	Float32Align int    `json:"f32_align"`
	Float64Align int    `json:"f64_align"`
	ExitCodeBits int    `json:"exit_code_bits"`
	EntrySymbol  string `json:"entry_symbol"`
	Default      bool   `json:"default,omitempty"`
}

func runTargets(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	var targets []layout.Target
	for _, name := range layout.PresetNames() {
		t, _ := layout.Preset(name)
		targets = append(targets, t)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		_, err = fmt.Fprintln(out, ui.TargetTable(targets))
		return err
	case "json":
		def := layout.Default().Name
		payload := make([]targetJSON, 0, len(targets))
		for _, t := range targets {
			payload = append(payload, targetJSON{
				Name:         t.Name,
				Triple:       t.Triple,
				PtrSize:      t.PtrSize,
				PtrAlign:     t.PtrAlign,
				IntAlign:     t.IntAlign,
				Float32Align: t.Float32Align,
				Float64Align: t.Float64Align,
				ExitCodeBits: t.ExitCodeBits,
				EntrySymbol:  t.EntrySymbol,
				Default:      t.Name == def,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}
