// Package observability provides formatted console output for profiles, rows and run summaries.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/referral-scout/internal/types"
	"github.com/rivo/uniseg"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// summaryRule separates the run summary from row output
	summaryRule = "============================================================"
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(clip(line, boxWidth-4), boxWidth-4))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most width display columns.
func clip(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var sb strings.Builder
	used := 0
	state := -1
	rest := s
	for rest != "" {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width-3 {
			break
		}
		sb.WriteString(cluster)
		used += w
	}
	return sb.String() + "..."
}

func pad(s string, width int) string {
	if gap := width - uniseg.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintResumeProfile outputs a human-readable summary of the derived resume profile.
func (p *Printer) PrintResumeProfile(profile *types.ResumeProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Experience: %s\n", profile.ExperienceYears))
	if profile.Education != "" {
		sb.WriteString(fmt.Sprintf("Education:  %s\n", profile.Education))
	}
	sb.WriteString(fmt.Sprintf("Skills:     %d   Tools: %d\n\n", len(profile.Skills), len(profile.Tools)))
	writeList(&sb, "Top skills", profile.Skills, maxItemsToShow)
	writeList(&sb, "Projects", profile.Projects, 3)
	writeList(&sb, "Certifications", profile.Certifications, 3)

	p.printBox("RESUME PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobProfile outputs a human-readable summary of the parsed job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", profile.CompanyName))
	sb.WriteString(fmt.Sprintf("Role:       %s\n", profile.JobTitle))
	sb.WriteString(fmt.Sprintf("Location:   %s\n", profile.Location))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", profile.ExperienceRequired))
	sb.WriteString(fmt.Sprintf("Domain:     %s\n\n", profile.Domain))
	writeList(&sb, "Required", profile.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Nice-to-haves", profile.PreferredSkills, 3)
	writeList(&sb, "Responsibilities", profile.KeyResponsibilities, types.MaxResponsibilities)

	p.printBox("PARSED JOB PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReferrals outputs the located candidates with any drafted messages.
func (p *Printer) PrintReferrals(candidates []types.ReferralCandidate, messages []string) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("#%d  %s (%s)\n", i+1, c.Name, c.Relationship))
		sb.WriteString(fmt.Sprintf("    %s\n", c.Title))
		sb.WriteString(fmt.Sprintf("    %s\n", c.URL))
		if i < len(messages) {
			sb.WriteString(fmt.Sprintf("    \"%s\"\n", messages[i]))
		}
		if i < len(candidates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("REFERRAL CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the end-of-run report.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(summary *types.RunSummary) {
	if summary == nil {
		return
	}

	succeeded, failed := summary.Succeeded(), summary.Failed()
	fmt.Fprintln(p.out, summaryRule)
	fmt.Fprintf(p.out, "Done! Processed %d job(s) in %s.\n\n", len(summary.Outcomes), summary.Elapsed.Round(time.Second))

	if len(succeeded) > 0 {
		fmt.Fprintf(p.out, "Succeeded (%d):\n", len(succeeded))
		for _, o := range succeeded {
			fmt.Fprintf(p.out, "  Row %d: %s at %s, %d%% match\n", o.RowID, o.JobTitle, o.CompanyName, o.MatchPercentage)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(p.out, "\nFailed (%d):\n", len(failed))
		for _, o := range failed {
			fmt.Fprintf(p.out, "  Row %d: %s\n", o.RowID, o.Error)
		}
	}

	fmt.Fprintf(p.out, "\nResults saved to: %s\n", summary.TrackerPath)
	fmt.Fprintf(p.out, "Run ID: %s\n", summary.RunID)
}
