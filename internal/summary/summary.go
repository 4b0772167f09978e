// Package summary accumulates diagnostics for the job summary page and
// renders them as markdown.
package summary

import (
	"ghannotate/internal/annotation"
	"ghannotate/internal/cargo"
)

// Location is the primary position of a diagnostic.
type Location struct {
	File string
	Line int
}

// Summary is the owned, per-diagnostic record shown in the summary table.
type Summary struct {
	Level    cargo.Level
	Message  string
	Location *Location
}

// FromDiagnostic captures d's level, message and first primary location.
func FromDiagnostic(d *cargo.Diagnostic) Summary {
	s := Summary{
		Level:   d.Level,
		Message: d.Message,
	}
	if sp, ok := d.PrimarySpan(); ok {
		s.Location = &Location{File: sp.FileName, Line: sp.LineStart}
	}
	return s
}

// Kind classifies the summary like the matching annotation.
func (s Summary) Kind() annotation.Kind {
	return annotation.Classify(s.Level)
}

// Counts tallies summaries per annotation kind.
type Counts struct {
	Errors   int
	Warnings int
	Notices  int
}

// Add counts one occurrence of k.
func (c *Counts) Add(k annotation.Kind) {
	switch k {
	case annotation.KindError:
		c.Errors++
	case annotation.KindWarning:
		c.Warnings++
	default:
		c.Notices++
	}
}

// Total returns the number of counted summaries.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Notices
}

// Aggregator keeps summaries in the order they were added.
type Aggregator struct {
	items  []Summary
	counts Counts
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends s.
func (a *Aggregator) Add(s Summary) {
	a.items = append(a.items, s)
	a.counts.Add(s.Kind())
}

// Len returns the number of accumulated summaries.
func (a *Aggregator) Len() int {
	return len(a.items)
}

// Items returns the accumulated summaries. Do not modify the returned slice.
func (a *Aggregator) Items() []Summary {
	return a.items
}

// Counts returns the per-kind tally.
func (a *Aggregator) Counts() Counts {
	return a.counts
}
