package cargo

import (
	"encoding/json"
	"fmt"
)

// Level is the severity vocabulary used by rustc diagnostics.
type Level uint8

const (
	// LevelError is a fatal error that prevents compilation.
	LevelError Level = iota + 1
	// LevelWarning is a possible error of concern.
	LevelWarning
	// LevelNote adds context about another diagnostic.
	LevelNote
	// LevelHelp suggests how to resolve a diagnostic.
	LevelHelp
	// LevelFailureNote is a note attached to a failure for further information.
	LevelFailureNote
	// LevelInternalCompilerError indicates a bug within the compiler.
	LevelInternalCompilerError
)

var levelNames = map[string]Level{
	"error":                          LevelError,
	"warning":                        LevelWarning,
	"note":                           LevelNote,
	"help":                           LevelHelp,
	"failure-note":                   LevelFailureNote,
	"error: internal compiler error": LevelInternalCompilerError,
}

// String returns the wire name of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	case LevelFailureNote:
		return "failure-note"
	case LevelInternalCompilerError:
		return "error: internal compiler error"
	}
	return "unknown"
}

// ParseLevel converts a wire name into a Level.
func ParseLevel(s string) (Level, error) {
	if l, ok := levelNames[s]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("unknown diagnostic level %q", s)
}

// UnmarshalJSON accepts only the known level names.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("diagnostic level: %w", err)
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
