package ui

import (
	"strings"
	"testing"

	"ghannotate/internal/annotation"
	"ghannotate/internal/driver"
)

func TestProgressModel_ApplyEvent(t *testing.T) {
	m := NewProgressModel("cargo check", nil).(*progressModel)
	for i := range recentLimit + 2 {
		m.applyEvent(driver.Event{Kind: driver.EventArtifact, Name: string(rune('a' + i)), Fresh: i%2 == 0})
	}
	m.applyEvent(driver.Event{Kind: driver.EventAnnotation, Annotation: annotation.KindWarning})
	m.applyEvent(driver.Event{Kind: driver.EventAnnotation, Annotation: annotation.KindError})
	m.applyEvent(driver.Event{Kind: driver.EventAnnotation, Annotation: annotation.KindNotice})
	m.applyEvent(driver.Event{Kind: driver.EventFinished, Success: true})

	if m.compiled != recentLimit+2 || m.fresh != 4 {
		t.Errorf("compiled=%d fresh=%d", m.compiled, m.fresh)
	}
	if len(m.recent) != recentLimit || m.recent[0].name != "c" {
		t.Errorf("recent = %+v", m.recent)
	}
	if m.errors != 1 || m.warnings != 1 || m.notices != 1 {
		t.Errorf("counts = %d/%d/%d", m.errors, m.warnings, m.notices)
	}
	if !m.finished || !m.success {
		t.Error("expected finished build")
	}
}

func TestProgressModel_ClosedChannelQuits(t *testing.T) {
	ch := make(chan driver.Event)
	close(ch)
	m := NewProgressModel("cargo check", ch).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T, want doneMsg", msg)
	}
	m.Update(msg)
	if !m.done {
		t.Fatal("model not done after channel close")
	}
	if !strings.Contains(m.View(), "done: cargo check") {
		t.Errorf("view = %q", m.View())
	}
}

func TestProgressModel_FinishedHeader(t *testing.T) {
	cases := []struct {
		success bool
		want    string
	}{
		{true, "(build finished)"},
		{false, "(build failed)"},
	}
	for _, tc := range cases {
		m := NewProgressModel("cargo check", nil).(*progressModel)
		m.applyEvent(driver.Event{Kind: driver.EventFinished, Success: tc.success})
		if view := m.View(); !strings.Contains(view, tc.want) {
			t.Errorf("success=%v: view = %q, want %q", tc.success, view, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"serde_json", 20, "serde_json"},
		{"serde_json", 8, "serde..."},
		{"serde_json", 3, "ser"},
		{"serde_json", 0, "serde_json"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
