package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ghannotate/internal/driver"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// writeReport prints the one-line outcome of a run.
func writeReport(w io.Writer, o driver.Outcome) error {
	status := passColor.Sprint("passed")
	if o.Failed() {
		status = failColor.Sprint("failed")
	}

	var skipped []string
	add := func(name string, n int) {
		if n > 0 {
			skipped = append(skipped, fmt.Sprintf("%s=%d", name, n))
		}
	}
	add("duplicates", o.Stats.Duplicates)
	add("excluded", o.Stats.Excluded)
	add("unlocated", o.Stats.NoPrimary+o.Stats.Invalid)
	add("preloaded", o.Stats.Preloaded)

	line := fmt.Sprintf("ghannotate: %s: %s (fails on %s)", status, o.Counts.TotalsLine(), o.Threshold)
	if len(skipped) > 0 {
		line += " [" + strings.Join(skipped, " ") + "]"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
