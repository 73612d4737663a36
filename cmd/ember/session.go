package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cleanups run in reverse order once the command returns.
var cleanups []func()

func startSession(cmd *cobra.Command, _ []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProfiling)

	stopTracing, err := setupTracing(cmd)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	cleanups = append(cleanups, stopTracing)
	return nil
}

func stopSession(*cobra.Command) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}
