package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"rubric/internal/driver"
	"rubric/internal/source"
	"rubric/internal/ui"
)

type inspectOutcome struct {
	result *driver.Result
	err    error
}

type measureOutcome struct {
	fileSet *source.FileSet
	results []driver.MeasureResult
	err     error
}

// runWithUI runs fn in the background and renders its progress events until
// fn returns.
func runWithUI(title string, fn func(sink driver.ProgressSink)) error {
	events := make(chan driver.Event, 256)
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		fn(driver.ChanSink(events))
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI умер: дочитываем события, чтобы воркеры не встали на канале
		go func() {
			for range events {
			}
		}()
	}
	<-finished
	return uiErr
}

func inspectWithUI(ctx context.Context, title string, targets []string, opts driver.Options, autocorrect bool) (*driver.Result, error) {
	var outcome inspectOutcome
	uiErr := runWithUI(title, func(sink driver.ProgressSink) {
		opts.Progress = sink
		if autocorrect {
			outcome.result, outcome.err = driver.Autocorrect(ctx, targets, opts)
		} else {
			outcome.result, outcome.err = driver.Inspect(ctx, targets, opts)
		}
	})
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	return outcome.result, uiErr
}

func measureWithUI(ctx context.Context, targets []string, opts driver.MeasureOptions) (*source.FileSet, []driver.MeasureResult, error) {
	var outcome measureOutcome
	uiErr := runWithUI("measuring", func(sink driver.ProgressSink) {
		opts.Progress = sink
		outcome.fileSet, outcome.results, outcome.err = driver.Measure(ctx, targets, opts)
	})
	if outcome.err != nil {
		return outcome.fileSet, outcome.results, outcome.err
	}
	return outcome.fileSet, outcome.results, uiErr
}
