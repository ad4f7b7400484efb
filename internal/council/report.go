package council

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/council-agents/council/internal/domain"
)

// DefaultReportName is the report filename written into the target directory.
const DefaultReportName = "COUNCIL_REPORT.md"

const reportSeparator = "------------------------------------------------"

// RenderReport assembles the final report document. Sections appear in the
// order results were produced (registration order), one per agent, with the
// raw output verbatim. This text is the wire contract consumed by the fixer
// phase, so the structure must stay stable.
func RenderReport(target string, when time.Time, results []domain.AgentResult) string {
	var b strings.Builder

	b.WriteString("# Council of Agents Report\n")
	fmt.Fprintf(&b, "Target: %s\n", target)
	fmt.Fprintf(&b, "Date: %s\n", when.Format(time.RFC1123))
	b.WriteString(reportSeparator + "\n")

	for _, r := range results {
		fmt.Fprintf(&b, "## Agent: %s\n", r.AgentName)
		b.WriteString(r.RawOutput)
		if r.RawOutput != "" && !strings.HasSuffix(r.RawOutput, "\n") {
			b.WriteString("\n")
		}
		if !r.Succeeded {
			fmt.Fprintf(&b, "**Agent failed:** %s\n", r.ErrorDetail)
		}
		b.WriteString(reportSeparator + "\n")
	}

	return b.String()
}

// WriteReport persists the rendered report to path.
func WriteReport(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
