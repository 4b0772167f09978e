package driver_test

import (
	"testing"

	"ghannotate/internal/driver"
)

func TestPathFilter(t *testing.T) {
	f, err := driver.NewPathFilter([]string{"vendor/**", "**/generated/*.rs", "build.rs"})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path string
		want bool
	}{
		{"vendor/dep/src/lib.rs", true},
		{"src/generated/bindings.rs", true},
		{"crates/a/src/generated/x.rs", true},
		{"build.rs", true},
		{"src/build.rs", false},
		{"src/lib.rs", false},
	}
	for _, tt := range tests {
		if got := f.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPathFilter_Empty(t *testing.T) {
	f, err := driver.NewPathFilter(nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Match("src/lib.rs") {
		t.Error("nil filter must match nothing")
	}
}

func TestPathFilter_Invalid(t *testing.T) {
	if _, err := driver.NewPathFilter([]string{"src/[lib.rs"}); err == nil {
		t.Fatal("expected error for unterminated class")
	}
}
