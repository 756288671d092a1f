package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
)

// ExplainMarkdown builds the full decision report for one routing
// pass. The report is markdown so the console and the CLI can both
// render it through glamour.
func ExplainMarkdown(res *selector.Result) string {
	var b strings.Builder

	b.WriteString("# Decision Report\n\n")
	fmt.Fprintf(&b, "**Message:** %q\n\n", res.Message)

	switch {
	case res.Primary == nil && convo.ShouldSkip(res.Message):
		b.WriteString("**Outcome:** skipped. The message reads as plain conversation, so no detector ran.\n")
		return b.String()
	case res.Primary == nil:
		b.WriteString("**Outcome:** no match. No detector scored at or above the viability floor.\n")
	case res.NeedsDisambiguation:
		fmt.Fprintf(&b, "**Outcome:** too close to call. `%s` leads at %.2f but the runner-up is within the decision gap.\n\n",
			res.Primary.Tool, res.Primary.Confidence)
		fmt.Fprintf(&b, "> %s\n", res.DisambiguationPrompt)
	default:
		fmt.Fprintf(&b, "**Outcome:** `%s` selected at %.2f confidence.\n", res.Primary.Tool, res.Primary.Confidence)
	}

	if res.Primary != nil {
		b.WriteString("\n## Ranking\n\n")
		writeRankLine(&b, 1, *res.Primary)
		for i, alt := range res.Alternatives {
			writeRankLine(&b, i+2, alt)
		}

		if params := formatParams(res.Primary.Params); params != "" {
			b.WriteString("\n## Extracted Parameters\n\n")
			fmt.Fprintf(&b, "```\n%s\n```\n", params)
		}

		if len(res.Primary.NegativeSignals) > 0 {
			b.WriteString("\n## Negative Signals\n\n")
			for _, sig := range res.Primary.NegativeSignals {
				fmt.Fprintf(&b, "- %s\n", sig)
			}
		}
	}

	b.WriteString("\n## Pass Details\n\n")
	fmt.Fprintf(&b, "- compound request: %s\n", yesNo(res.CompoundRequest))
	fmt.Fprintf(&b, "- detector faults: %d\n", len(res.DetectorFaults))
	for _, f := range res.DetectorFaults {
		fmt.Fprintf(&b, "  - `%s`: %v\n", f.Detector, f.Value)
	}
	fmt.Fprintf(&b, "- elapsed: %s\n", res.Elapsed.Round(time.Microsecond))

	return b.String()
}

func writeRankLine(b *strings.Builder, pos int, in intent.Intent) {
	fmt.Fprintf(b, "%d. `%s` at %.2f, %s priority. %s\n", pos, in.Tool, in.Confidence, in.Priority, in.Reason)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// RenderMarkdown renders markdown through glamour with the given style
// name and wrap width. When the renderer cannot be built or the render
// fails, the raw markdown comes back instead so the report is never
// lost.
func RenderMarkdown(markdown, style string, width int) string {
	if style == "" {
		style = "auto"
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}
