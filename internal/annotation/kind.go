package annotation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ghannotate/internal/cargo"
)

// Kind is the severity of an annotation. Kinds are ordered
// KindNotice < KindWarning < KindError.
type Kind uint8

const (
	KindNotice Kind = iota
	KindWarning
	KindError
)

var titleCaser = cases.Title(language.English)

// Classify maps a rustc level to the annotation kind used to report it.
func Classify(level cargo.Level) Kind {
	switch level {
	case cargo.LevelError, cargo.LevelInternalCompilerError:
		return KindError
	case cargo.LevelWarning:
		return KindWarning
	default:
		return KindNotice
	}
}

// String returns the workflow command name: notice, warning or error.
func (k Kind) String() string {
	switch k {
	case KindNotice:
		return "notice"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Label returns the capitalised kind name, e.g. "Warning".
func (k Kind) Label() string {
	return titleCaser.String(k.String())
}

// Emoji returns the GitHub markdown emoji shortcode for the kind.
func (k Kind) Emoji() string {
	switch k {
	case KindWarning:
		return ":warning:"
	case KindError:
		return ":x:"
	default:
		return ":information_source:"
	}
}

// ParseKind converts a command name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "notice":
		return KindNotice, nil
	case "warning":
		return KindWarning, nil
	case "error":
		return KindError, nil
	default:
		return KindNotice, fmt.Errorf("invalid annotation kind: %q (expected: notice|warning|error)", s)
	}
}
