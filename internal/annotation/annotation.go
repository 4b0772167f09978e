package annotation

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"ghannotate/internal/cargo"
)

var (
	// ErrMissingPrimarySpan is returned for diagnostics without a primary span.
	ErrMissingPrimarySpan = errors.New("missing primary span")
	// ErrInvalidPosition is returned when a primary span has negative coordinates.
	ErrInvalidPosition = errors.New("invalid span position")
)

// Annotation is a single workflow command. It is a comparable value: two
// annotations are duplicates exactly when they are ==.
//
// Positions are 1-based, so a zero EndLine, Col or EndColumn means the field
// is absent. An empty Title is absent as well.
type Annotation struct {
	Kind      Kind
	File      string
	Line      uint
	EndLine   uint
	Col       uint
	EndColumn uint
	Title     string
	Message   string
}

// FromDiagnostic builds the annotation for d's first primary span.
//
// When rustc provided a rendered form, it becomes the message and the short
// message becomes the title.
func FromDiagnostic(d *cargo.Diagnostic) (Annotation, error) {
	sp, ok := d.PrimarySpan()
	if !ok {
		return Annotation{}, ErrMissingPrimarySpan
	}
	pos, err := convertSpan(sp)
	if err != nil {
		return Annotation{}, err
	}

	a := Annotation{
		Kind:      Classify(d.Level),
		File:      sp.FileName,
		Line:      pos[0],
		EndLine:   pos[1],
		Col:       pos[2],
		EndColumn: pos[3],
		Message:   d.Message,
	}
	if d.HasRendered {
		a.Title = d.Message
		a.Message = d.Rendered
	}
	return a, nil
}

func convertSpan(sp cargo.Span) ([4]uint, error) {
	var out [4]uint
	for i, v := range [4]int{sp.LineStart, sp.LineEnd, sp.ColumnStart, sp.ColumnEnd} {
		u, err := safecast.Conv[uint](v)
		if err != nil {
			return out, fmt.Errorf("%w: %s: %w", ErrInvalidPosition, sp.FileName, err)
		}
		out[i] = u
	}
	return out, nil
}
