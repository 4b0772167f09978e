package main

import (
	"bytes"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ghannotate/internal/driver"
	"ghannotate/internal/ui"
)

type workOutcome struct {
	code int
	err  error
}

// runWithUI runs work while drawing progress from events on stderr. Whatever
// work writes to stderr is held back until the view is gone. events is
// closed when work returns.
func runWithUI(title string, events chan driver.Event, work func(stderr io.Writer) (int, error)) (int, error) {
	var stderr bytes.Buffer
	outcomeCh := make(chan workOutcome, 1)

	go func() {
		code, err := work(&stderr)
		close(events)
		outcomeCh <- workOutcome{code: code, err: err}
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	// the view may stop before the producer does
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if _, err := os.Stderr.Write(stderr.Bytes()); err != nil && outcome.err == nil {
		outcome.err = err
	}
	if uiErr != nil {
		return outcome.code, uiErr
	}
	return outcome.code, outcome.err
}
