package cargo

import (
	"encoding/json"
)

// Reason is the discriminant of a cargo message envelope.
type Reason string

const (
	ReasonCompilerMessage  Reason = "compiler-message"
	ReasonCompilerArtifact Reason = "compiler-artifact"
	ReasonBuildFinished    Reason = "build-finished"
)

// Target identifies the crate target an artifact was produced for.
type Target struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// Artifact reports a finished compilation unit.
type Artifact struct {
	PackageID string `json:"package_id"`
	Target    Target `json:"target"`
	Fresh     bool   `json:"fresh"`
}

// BuildFinished is the last message cargo prints for a build.
type BuildFinished struct {
	Success bool `json:"success"`
}

// Message is a decoded envelope. Exactly one payload matching Reason is set.
type Message struct {
	Reason        Reason
	Diagnostic    *Diagnostic
	Artifact      *Artifact
	BuildFinished *BuildFinished
}

type envelope struct {
	Reason  Reason          `json:"reason"`
	Message json.RawMessage `json:"message"`
}

// Decode decodes one line of cargo output. It reports false for lines that
// are not JSON, carry an unknown reason, or do not match the payload shape.
func Decode(line []byte) (Message, bool) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Message{}, false
	}
	switch env.Reason {
	case ReasonCompilerMessage:
		if len(env.Message) == 0 {
			return Message{}, false
		}
		var d Diagnostic
		if err := json.Unmarshal(env.Message, &d); err != nil {
			return Message{}, false
		}
		return Message{Reason: env.Reason, Diagnostic: &d}, true
	case ReasonCompilerArtifact:
		var a Artifact
		if err := json.Unmarshal(line, &a); err != nil {
			return Message{}, false
		}
		return Message{Reason: env.Reason, Artifact: &a}, true
	case ReasonBuildFinished:
		var b BuildFinished
		if err := json.Unmarshal(line, &b); err != nil {
			return Message{}, false
		}
		return Message{Reason: env.Reason, BuildFinished: &b}, true
	default:
		return Message{}, false
	}
}
