package annotation

import (
	"slices"
	"testing"
)

func TestSet_InsertIdempotent(t *testing.T) {
	a := Annotation{Kind: KindWarning, File: "src/lib.rs", Line: 10, EndLine: 10, Col: 5, EndColumn: 8, Message: "unused variable"}
	for _, n := range []int{1, 2, 7} {
		s := NewSet()
		accepted := 0
		for range n {
			if s.Insert(a) {
				accepted++
			}
		}
		if accepted != 1 {
			t.Errorf("n=%d: accepted %d insertions, want 1", n, accepted)
		}
		if s.Len() != 1 {
			t.Errorf("n=%d: Len() = %d, want 1", n, s.Len())
		}
	}
}

func TestSet_DistinctMessagesAtSameLocation(t *testing.T) {
	s := NewSet()
	a := Annotation{Kind: KindWarning, File: "a.rs", Line: 1, Col: 1, Message: "first"}
	b := a
	b.Message = "second"
	if !s.Insert(a) || !s.Insert(b) {
		t.Fatal("expected both annotations to be accepted")
	}
	if !s.Contains(a) || !s.Contains(b) {
		t.Error("expected set to contain both annotations")
	}
}

func TestSet_PathSpellingsAreDistinct(t *testing.T) {
	a := Annotation{Kind: KindWarning, File: "src/lib.rs", Line: 10, Col: 5, Message: "unused variable"}
	for _, file := range []string{"src//lib.rs", "src/./lib.rs", "./src/lib.rs"} {
		s := NewSet()
		b := a
		b.File = file
		if !s.Insert(a) || !s.Insert(b) {
			t.Errorf("%q: expected both spellings to be accepted", file)
		}
		if s.Len() != 2 {
			t.Errorf("%q: Len() = %d, want 2", file, s.Len())
		}
		if Compare(a, b) == 0 {
			t.Errorf("Compare(%q, %q) = 0 for distinct annotations", a.File, b.File)
		}
	}
}

func TestSet_AllInOrder(t *testing.T) {
	s := NewSet()
	in := []Annotation{
		{Kind: KindNotice, File: "b.rs", Line: 1},
		{Kind: KindError, File: "a.rs", Line: 9},
		{Kind: KindWarning, File: "a.rs", Line: 2},
	}
	for _, a := range in {
		s.Insert(a)
	}
	got := slices.Collect(s.All())
	want := []Annotation{in[2], in[1], in[0]}
	if !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}
