package cargo

import (
	"encoding/json"
	"errors"
)

var (
	errMissingField = errors.New("missing required field")
)

// Span is a location in the source code attached to a diagnostic.
//
// FileName may not exist on disk; it can point into the source of an
// external crate. Coordinates are kept as decoded and validated by the
// consumer.
type Span struct {
	FileName    string
	LineStart   int // 1-based, inclusive
	LineEnd     int // 1-based, inclusive
	ColumnStart int // 1-based, inclusive
	ColumnEnd   int // 1-based, exclusive
	IsPrimary   bool
}

type rawSpan struct {
	FileName    *string `json:"file_name"`
	LineStart   *int    `json:"line_start"`
	LineEnd     *int    `json:"line_end"`
	ColumnStart *int    `json:"column_start"`
	ColumnEnd   *int    `json:"column_end"`
	IsPrimary   *bool   `json:"is_primary"`
}

// UnmarshalJSON requires every span field to be present.
func (s *Span) UnmarshalJSON(data []byte) error {
	var raw rawSpan
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.FileName == nil || raw.LineStart == nil || raw.LineEnd == nil ||
		raw.ColumnStart == nil || raw.ColumnEnd == nil || raw.IsPrimary == nil {
		return errMissingField
	}
	*s = Span{
		FileName:    *raw.FileName,
		LineStart:   *raw.LineStart,
		LineEnd:     *raw.LineEnd,
		ColumnStart: *raw.ColumnStart,
		ColumnEnd:   *raw.ColumnEnd,
		IsPrimary:   *raw.IsPrimary,
	}
	return nil
}

// Diagnostic is a rustc diagnostic as relayed by cargo.
type Diagnostic struct {
	// Message is the primary, single-sentence message.
	Message string
	Level   Level
	Spans   []Span
	// Rendered is the diagnostic as rustc would print it on a terminal.
	Rendered    string
	HasRendered bool
}

type rawDiagnostic struct {
	Message  *string `json:"message"`
	Level    *Level  `json:"level"`
	Spans    *[]Span `json:"spans"`
	Rendered *string `json:"rendered"`
}

// UnmarshalJSON requires message, level and spans; rendered may be null or absent.
func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var raw rawDiagnostic
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Message == nil || raw.Level == nil || raw.Spans == nil {
		return errMissingField
	}
	*d = Diagnostic{
		Message: *raw.Message,
		Level:   *raw.Level,
		Spans:   *raw.Spans,
	}
	if raw.Rendered != nil {
		d.Rendered = *raw.Rendered
		d.HasRendered = true
	}
	return nil
}

// PrimarySpan returns the first span marked primary.
func (d *Diagnostic) PrimarySpan() (Span, bool) {
	for _, sp := range d.Spans {
		if sp.IsPrimary {
			return sp, true
		}
	}
	return Span{}, false
}
