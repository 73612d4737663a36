package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"ember/internal/driver"
)

type checkOutcome struct {
	results []*driver.Result
	err     error
}

// RunWithProgress checks paths like driver.CheckUnits while a progress view
// renders to out. It returns once both the batch and the view are done.
func RunWithProgress(ctx context.Context, title string, paths []string, opts driver.Options, jobs int, out io.Writer) ([]*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.CheckUnits(ctx, paths, runOpts, jobs)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the producer from blocking on a view that stopped reading
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
