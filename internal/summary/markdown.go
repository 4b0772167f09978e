package summary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ghannotate/internal/annotation"
)

const (
	errorsKey   = "%d Error"
	warningsKey = "%d Warning"
	noticesKey  = "%d Notice"
)

var printer *message.Printer

func init() {
	for key, label := range map[string]string{
		errorsKey:   "Error",
		warningsKey: "Warning",
		noticesKey:  "Notice",
	} {
		err := message.Set(language.English, key, plural.Selectf(1, "%d",
			"=1", "%d "+label,
			"other", "%d "+label+"s",
		))
		if err != nil {
			panic(fmt.Sprintf("summary: register plural %q: %v", key, err))
		}
	}
	printer = message.NewPrinter(language.English)
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")

// TotalsLine renders the tally, e.g. "0 Errors, 1 Warning, 0 Notices".
func (c Counts) TotalsLine() string {
	return printer.Sprintf(errorsKey, c.Errors) + ", " +
		printer.Sprintf(warningsKey, c.Warnings) + ", " +
		printer.Sprintf(noticesKey, c.Notices)
}

// WriteMarkdown renders the diagnostics section. Nothing is written when the
// aggregator is empty.
func (a *Aggregator) WriteMarkdown(w io.Writer) error {
	if a.Len() == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Diagnostics")
	fmt.Fprintf(bw, "> **TOTAL:** %s\n", a.counts.TotalsLine())
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "|Level|Message|Location|")
	fmt.Fprintln(bw, "|:--|:--|--:|")
	for _, s := range a.items {
		fmt.Fprintf(bw, "|%s|%s|%s|\n", levelCell(s.Kind()), cellEscaper.Replace(s.Message), locationCell(s.Location))
	}
	return bw.Flush()
}

func levelCell(k annotation.Kind) string {
	return k.Emoji() + " " + k.Label()
}

func locationCell(loc *Location) string {
	if loc == nil {
		return ""
	}
	return fmt.Sprintf("`%s:%d`", cellEscaper.Replace(loc.File), loc.Line)
}
