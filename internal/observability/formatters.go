package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/nkhl07/cold-email-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewChars is how much of a long text block is shown in summaries
	previewChars = 200
)

// Printer handles formatted output for the CLI
type Printer struct {
	out   io.Writer
	title *color.Color
	faint *color.Color
}

// NewPrinter creates a new Printer that writes to the given writer.
// When colored is false no ANSI escape codes are emitted.
func NewPrinter(out io.Writer, colored bool) *Printer {
	title := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.Faint)
	if colored {
		title.EnableColor()
		faint.EnableColor()
	} else {
		title.DisableColor()
		faint.DisableColor()
	}
	return &Printer{out: out, title: title, faint: faint}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s%s │\n", p.title.Sprint(title), strings.Repeat(" ", max(0, boxWidth-4-utf8.RuneCountInString(title))))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequest outputs a summary of a validated outreach request.
func (p *Printer) PrintRequest(req *types.OutreachRequest) {
	if req == nil {
		return
	}

	var sb strings.Builder
	switch src := req.Student.(type) {
	case *types.UploadedDocument:
		sb.WriteString(fmt.Sprintf("Résumé:   %s (%d bytes)\n", src.Filename, src.Size))
	case *types.FreeText:
		sb.WriteString(fmt.Sprintf("Profile:  %d chars\n", utf8.RuneCountInString(src.Text)))
	}
	if req.Goal != "" {
		sb.WriteString(fmt.Sprintf("Goal:     %s\n", req.Goal))
	}

	sb.WriteString(fmt.Sprintf("Targets:  %d\n", len(req.TargetURLs)))
	count := min(len(req.TargetURLs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", req.TargetURLs[i]))
	}
	if len(req.TargetURLs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(req.TargetURLs)-maxItemsToShow))
	}

	p.printBox("OUTREACH REQUEST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintContext outputs the sizes and a preview of the aggregated context.
func (p *Printer) PrintContext(ctx types.AggregatedContext) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target text:  %d chars\n", utf8.RuneCountInString(ctx.TargetText)))
	sb.WriteString(fmt.Sprintf("Student text: %d chars\n", utf8.RuneCountInString(ctx.StudentText)))
	if ctx.TargetText != "" {
		sb.WriteString("\n")
		sb.WriteString(preview(ctx.TargetText))
	}
	p.printBox("AGGREGATED CONTEXT", sb.String())
}

// PrintEmail writes the generated email in full, without box wrapping.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEmail(email types.GeneratedEmail) {
	p.title.Fprintln(p.out, "GENERATED EMAIL")
	p.faint.Fprintln(p.out, strings.Repeat("─", boxWidth))
	fmt.Fprintln(p.out, string(email))
}

// preview returns the first previewChars characters of text.
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewChars {
		return text
	}
	return string([]rune(text)[:previewChars]) + "..."
}
