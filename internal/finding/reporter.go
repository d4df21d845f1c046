package finding

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for audit reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes audit reports.
type Reporter struct {
	out    io.Writer
	format Format

	// Strict marks warnings as validation failures in the text output.
	Strict bool
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the audit report to the output.
func (r *Reporter) Report(rep *Report) error {
	if rep == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(rep)
	default:
		return r.reportText(rep)
	}
}

// reportJSON writes the report as JSON.
func (r *Reporter) reportJSON(rep *Report) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(rep), "encoding JSON report")
}

// reportText writes the report as human-readable text.
func (r *Reporter) reportText(rep *Report) error {
	if len(rep.Findings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ %d skill(s) validated, no findings", rep.Summary.Skills))
		if rep.Summary.Waived > 0 {
			fmt.Fprintln(r.out, color.New(color.FgHiBlack).Sprintf("%d finding(s) waived", rep.Summary.Waived))
		}
		return nil
	}

	errs := rep.Errors()
	warnings := rep.Warnings()

	// Print summary line
	summary := []string{}
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	if rep.Failed(r.Strict) {
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))
	} else {
		fmt.Fprintf(r.out, "Validation passed: %s\n\n", strings.Join(summary, ", "))
	}

	// Print Errors
	if len(errs) > 0 {
		fmt.Fprintln(r.out, "Errors:")
		for _, f := range errs {
			r.printFinding(f, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	// Print Warnings
	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		for _, f := range warnings {
			r.printFinding(f, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "%d skill(s) checked\n", rep.Summary.Skills)
	if rep.Summary.Waived > 0 {
		fmt.Fprintln(r.out, color.New(color.FgHiBlack).Sprintf("%d finding(s) waived", rep.Summary.Waived))
	}
	if r.Strict && len(warnings) > 0 {
		fmt.Fprintln(r.out, color.New(color.FgHiBlack).Sprint("strict mode: warnings treated as errors"))
	}

	return nil
}

func (r *Reporter) printFinding(f Finding, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	// Format:  • [skill] message [kind] (path)

	var sb strings.Builder
	sb.WriteString("  • ")

	if f.Skill != "" {
		sb.WriteString(printer(f.Skill))
		sb.WriteString(": ")
	}

	sb.WriteString(f.Message)

	sb.WriteString(" ")
	sb.WriteString(color.New(color.FgHiBlack).Sprintf("[%s]", f.Kind))

	if f.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", f.Path))
	}

	fmt.Fprintln(r.out, sb.String())
}
