package driver_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"ghannotate/internal/annotation"
	"ghannotate/internal/driver"
)

func TestStateFile_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.mp")
	sf := driver.OpenStateFile(path)

	got, err := sf.Load()
	if err != nil || got != nil {
		t.Fatalf("Load on missing file = %v, %v", got, err)
	}

	set := annotation.NewSet()
	set.Insert(annotation.Annotation{Kind: annotation.KindError, File: "src/main.rs", Line: 3, EndLine: 3, Col: 9, EndColumn: 12, Message: "mismatched types"})
	set.Insert(annotation.Annotation{Kind: annotation.KindWarning, File: "src/lib.rs", Line: 10, Title: "unused variable", Message: "warning: unused variable\n"})
	if err := sf.Save(set); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = sf.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := slices.Collect(set.All())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestStateFile_Schema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.mp")
	data, err := msgpack.Marshal(map[string]any{"Schema": 99})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := driver.OpenStateFile(path).Load(); !errors.Is(err, driver.ErrStateSchema) {
		t.Fatalf("Load = %v, want ErrStateSchema", err)
	}
}

func TestStateFile_Nil(t *testing.T) {
	var sf *driver.StateFile
	if got, err := sf.Load(); got != nil || err != nil {
		t.Errorf("nil Load = %v, %v", got, err)
	}
	if err := sf.Save(annotation.NewSet()); err != nil {
		t.Errorf("nil Save = %v", err)
	}
}
