package driver

import "ghannotate/internal/annotation"

// EventKind classifies progress events.
type EventKind uint8

const (
	// EventArtifact is sent when cargo finishes a compilation unit.
	EventArtifact EventKind = iota + 1
	// EventAnnotation is sent for every emitted annotation.
	EventAnnotation
	// EventFinished is sent for cargo's build-finished message.
	EventFinished
)

// Event is a progress notification for interactive front ends.
type Event struct {
	Kind       EventKind
	Name       string // crate target for artifacts, file for annotations
	Fresh      bool
	Annotation annotation.Kind
	Success    bool
}

// Sink receives progress events.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }
