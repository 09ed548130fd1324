package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/andyballingall/swagger-mock-validator/internal/result"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset      = "\033[0m"
	colRed        = "\033[31m"
	colYellow     = "\033[33m"
	colGrey       = "\033[90m"
	colWhite      = "\033[37m"
	colBoldRed    = "\033[1;31m"
	colBoldGreen  = "\033[1;32m"
	colBoldYellow = "\033[1;33m"
	colBoldWhite  = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, r *Report) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "SWAGGER MOCK VALIDATOR REPORT\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Spec:    "), tr.cs(colWhite, r.SpecFile))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Mock:    "), tr.cs(colWhite, r.MockFile))
	if !r.StartTime.IsZero() {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started: "), tr.cs(colWhite, r.StartTime.Format("15:04:05")))
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration:"), tr.cs(colWhite, r.EndTime.Sub(r.StartTime).String()))
	}
	fmt.Fprintf(w, "%s\n", divider)

	for _, e := range r.Errors {
		tr.writeResult(w, &e, tr.cs(colRed, "[ERROR]"))
	}
	for _, wr := range r.Warnings {
		tr.writeResult(w, &wr, tr.cs(colYellow, "[WARN] "))
	}
	if len(r.Errors)+len(r.Warnings) > 0 {
		fmt.Fprintf(w, "%s\n", divider)
	}

	verdict := "COMPATIBLE"
	verdictCol := colBoldGreen
	switch {
	case !r.Compatible():
		verdict = "NOT COMPATIBLE"
		verdictCol = colBoldRed
	case len(r.Warnings) > 0:
		verdictCol = colBoldYellow
	}
	summaryLabel := tr.cs(colBoldWhite, "Summary: ")
	summaryStats := fmt.Sprintf("%s (%d %s, %d %s)", verdict,
		len(r.Errors), plural(len(r.Errors), "error"),
		len(r.Warnings), plural(len(r.Warnings), "warning"))
	fmt.Fprintf(w, "%s%s\n", summaryLabel, tr.cs(verdictCol, summaryStats))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}

func (tr *TextReporter) writeResult(w io.Writer, r *result.ValidationResult, label string) {
	fmt.Fprintf(w, "%s %s %s\n", label, r.Message, tr.cs(colGrey, "("+string(r.Code)+")"))
	if r.MockDetails.InteractionDescription != "" {
		fmt.Fprintf(w, "  %s %s\n", tr.cs(colGrey, "interaction:"), r.MockDetails.InteractionDescription)
		fmt.Fprintf(w, "  %s %s\n", tr.cs(colGrey, "state:      "), r.MockDetails.InteractionState)
	}
	if r.SpecDetails.PathName != "" {
		fmt.Fprintf(w, "  %s %s %s\n", tr.cs(colGrey, "operation:  "),
			strings.ToUpper(r.SpecDetails.PathMethod), r.SpecDetails.PathName)
	}
	fmt.Fprintf(w, "  %s %s\n", tr.cs(colGrey, "mock:       "), r.MockDetails.Location)
	fmt.Fprintf(w, "  %s %s\n", tr.cs(colGrey, "spec:       "), r.SpecDetails.Location)

	if tr.Verbose {
		fmt.Fprintf(w, "  %s %s\n", tr.cs(colGrey, "mock value: "), compact(r.MockDetails.Value))
		fmt.Fprintf(w, "  %s %s\n", tr.cs(colGrey, "spec value: "), compact(r.SpecDetails.Value))
	}
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
