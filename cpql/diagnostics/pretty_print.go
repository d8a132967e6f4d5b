package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Colorer selects the title and highlight color for a diagnostic.
type Colorer interface {
	Title() string
	PrimaryColor(text string) string
}

// ErrorColorer renders diagnostics as errors.
type ErrorColorer struct{}

func (ErrorColorer) Title() string {
	return "error"
}

func (ErrorColorer) PrimaryColor(text string) string {
	return color.New(color.FgRed, color.Bold).Sprint(text)
}

// WarningColorer renders diagnostics as warnings.
type WarningColorer struct{}

func (WarningColorer) Title() string {
	return "warning"
}

func (WarningColorer) PrimaryColor(text string) string {
	return color.New(color.FgYellow, color.Bold).Sprint(text)
}

// PrettyPrint writes a diagnostic with the offending portion of the query
// text highlighted. Diagnostics without a span are printed as a plain
// message.
func PrettyPrint(w io.Writer, fileName, source string, d Diagnostic, colorer Colorer) {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	titleColor := color.New(color.Bold)
	arrowColor := color.New(color.FgCyan, color.Bold)
	filePathColor := color.New(color.Underline)
	lineNumColor := color.New(color.FgCyan, color.Bold)

	titleColor.Fprintf(w, "%s: ", colorer.Title())
	titleColor.Fprintf(w, "%s\n", d.Message)

	if !d.HasSpan() {
		// No location, or the error sits at end of input: no excerpt.
		arrowColor.Fprintf(w, "  --> ")
		filePathColor.Fprintf(w, "%s\n", fileName)
		return
	}

	span := d.Span
	startLine := strings.Count(source[:span.Start], "\n")
	lines := strings.Split(source, "\n")

	bytesBefore := 0
	for i := 0; i < startLine; i++ {
		bytesBefore += len(lines[i]) + 1
	}

	line := lines[startLine]
	startInLine := span.Start - bytesBefore
	endInLine := startInLine + (span.End - span.Start)
	if endInLine > len(line) {
		endInLine = len(line)
	}

	arrowColor.Fprintf(w, "  --> ")
	filePathColor.Fprintf(w, "%s:%d\n", fileName, startLine+1)

	lineNumColor.Fprintf(w, "   | \n")
	if startLine > 0 {
		lineNumColor.Fprintf(w, "%2d | ", startLine)
		fmt.Fprintf(w, "%s\n", lines[startLine-1])
	}

	lineNumColor.Fprintf(w, "%2d | ", startLine+1)
	fmt.Fprintf(w, "%s", line[:startInLine])
	fmt.Fprintf(w, "%s", colorer.PrimaryColor(line[startInLine:endInLine]))
	fmt.Fprintf(w, "%s\n", line[endInLine:])

	lineNumColor.Fprintf(w, "   | ")
	fmt.Fprintf(w, "%s", strings.Repeat(" ", startInLine))
	fmt.Fprintf(w, "%s\n", colorer.PrimaryColor(strings.Repeat("^", max(endInLine-startInLine, 1))))

	lineNumColor.Fprintf(w, "   | \n")
}
