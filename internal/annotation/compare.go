package annotation

import (
	"cmp"
	"strings"
)

// Compare orders annotations by file path, line, column (absent first) and
// kind, most severe first. Remaining fields break ties so that Compare
// returns 0 only for identical annotations.
func Compare(a, b Annotation) int {
	if c := comparePaths(a.File, b.File); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Col, b.Col); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Kind, a.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EndLine, b.EndLine); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EndColumn, b.EndColumn); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Message, b.Message); c != 0 {
		return c
	}
	// spellings of one path, such as "src//lib.rs" and "src/lib.rs", stay distinct
	return strings.Compare(a.File, b.File)
}

// Less reports whether a sorts before b.
func Less(a, b Annotation) bool {
	return Compare(a, b) < 0
}

type componentRank uint8

const (
	rankRoot componentRank = iota
	rankCurDir
	rankParentDir
	rankNormal
)

type pathComponent struct {
	rank componentRank
	name string
}

// comparePaths compares slash-separated paths component by component, so
// "a/b" < "a.b" and "a//b" == "a/./b" == "a/b".
func comparePaths(a, b string) int {
	if a == b {
		return 0
	}
	ca, cb := splitPath(a), splitPath(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := cmp.Compare(ca[i].rank, cb[i].rank); c != 0 {
			return c
		}
		if c := strings.Compare(ca[i].name, cb[i].name); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ca), len(cb))
}

func splitPath(p string) []pathComponent {
	out := make([]pathComponent, 0, strings.Count(p, "/")+1)
	if strings.HasPrefix(p, "/") {
		out = append(out, pathComponent{rank: rankRoot})
	} else if p == "." || strings.HasPrefix(p, "./") {
		out = append(out, pathComponent{rank: rankCurDir})
	}
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			out = append(out, pathComponent{rank: rankParentDir})
		default:
			out = append(out, pathComponent{rank: rankNormal, name: part})
		}
	}
	return out
}
