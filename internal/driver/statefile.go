package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"ghannotate/internal/annotation"
)

// Current schema version - increment when statePayload format changes
const stateSchemaVersion uint16 = 1

// ErrStateSchema is returned when a state file was written by an
// incompatible version.
var ErrStateSchema = errors.New("unsupported state file schema")

// StateFile persists the set of reported annotations between runs, so a
// workflow that invokes cargo several times annotates each finding once.
// Thread-safe for concurrent access.
type StateFile struct {
	mu   sync.Mutex
	path string
}

type statePayload struct {
	Schema      uint16
	Annotations []stateRecord
}

type stateRecord struct {
	Kind      uint8  `msgpack:"k"`
	File      string `msgpack:"f"`
	Line      uint   `msgpack:"l"`
	EndLine   uint   `msgpack:"el,omitempty"`
	Col       uint   `msgpack:"c,omitempty"`
	EndColumn uint   `msgpack:"ec,omitempty"`
	Title     string `msgpack:"t,omitempty"`
	Message   string `msgpack:"m"`
}

// OpenStateFile returns a handle for path. The file need not exist.
func OpenStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Path returns the file location.
func (s *StateFile) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Load reads the stored annotations. A missing file yields no annotations
// and no error.
func (s *StateFile) Load() ([]annotation.Annotation, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var payload statePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode state file %s: %w", s.path, err)
	}
	if payload.Schema != stateSchemaVersion {
		return nil, fmt.Errorf("%s: %w %d", s.path, ErrStateSchema, payload.Schema)
	}

	out := make([]annotation.Annotation, 0, len(payload.Annotations))
	for _, r := range payload.Annotations {
		kind := annotation.Kind(r.Kind)
		if kind > annotation.KindError {
			return nil, fmt.Errorf("%s: unknown annotation kind %d", s.path, r.Kind)
		}
		out = append(out, annotation.Annotation{
			Kind:      kind,
			File:      r.File,
			Line:      r.Line,
			EndLine:   r.EndLine,
			Col:       r.Col,
			EndColumn: r.EndColumn,
			Title:     r.Title,
			Message:   r.Message,
		})
	}
	return out, nil
}

// Save replaces the file with the contents of set.
func (s *StateFile) Save(set *annotation.Set) (err error) {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := statePayload{
		Schema:      stateSchemaVersion,
		Annotations: make([]stateRecord, 0, set.Len()),
	}
	for a := range set.All() {
		payload.Annotations = append(payload.Annotations, stateRecord{
			Kind:      uint8(a.Kind),
			File:      a.File,
			Line:      a.Line,
			EndLine:   a.EndLine,
			Col:       a.Col,
			EndColumn: a.EndColumn,
			Title:     a.Title,
			Message:   a.Message,
		})
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".ghannotate-state-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(&payload); err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), s.path)
}
