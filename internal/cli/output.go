package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var headerFmt = color.New(color.FgGreen, color.Underline).SprintfFunc()
var firstColumnFmt = color.New(color.FgYellow).SprintfFunc()

// newTable creates a table with the CLI's header styling writing to w.
func newTable(w io.Writer, headers ...any) table.Table {
	return table.New(headers...).
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(firstColumnFmt).
		WithPadding(2).
		WithWriter(w)
}

// printSectionHeader prints a title line such as "Sessions (2):".
func printSectionHeader(w io.Writer, title string, count int) {
	fmt.Fprintf(w, "%s (%d):\n", cases.Title(language.English).String(title), count)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
