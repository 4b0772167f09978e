package annotation

import (
	"strconv"
	"strings"
)

var dataEscaper = strings.NewReplacer("%", "%25", "\n", "%0A", "\r", "%0D")

// String renders the workflow command:
//
//	::<kind> file=<file>,line=<line>[,endLine=<n>][,col=<n>[,endColumn=<n>]][,title=<title>]::<message>
//
// endColumn is only written together with col. The message is trimmed and
// escaped; properties are written verbatim.
func (a Annotation) String() string {
	var b strings.Builder
	b.Grow(len(a.File) + len(a.Title) + len(a.Message) + 64)

	b.WriteString("::")
	b.WriteString(a.Kind.String())
	b.WriteString(" file=")
	b.WriteString(a.File)
	b.WriteString(",line=")
	b.WriteString(strconv.FormatUint(uint64(a.Line), 10))
	if a.EndLine != 0 {
		b.WriteString(",endLine=")
		b.WriteString(strconv.FormatUint(uint64(a.EndLine), 10))
	}
	if a.Col != 0 {
		b.WriteString(",col=")
		b.WriteString(strconv.FormatUint(uint64(a.Col), 10))
		if a.EndColumn != 0 {
			b.WriteString(",endColumn=")
			b.WriteString(strconv.FormatUint(uint64(a.EndColumn), 10))
		}
	}
	if a.Title != "" {
		b.WriteString(",title=")
		b.WriteString(a.Title)
	}
	b.WriteString("::")
	b.WriteString(EscapeData(strings.TrimSpace(a.Message)))
	return b.String()
}

// EscapeData percent-encodes '%', '\n' and '\r' for use as the data segment
// of a workflow command.
func EscapeData(s string) string {
	// A single pass never re-encodes the '%' it inserts.
	return dataEscaper.Replace(s)
}
