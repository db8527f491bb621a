// Package observability provides logging and formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/dashboard"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// timestampLayout renders timestamps in boxes
	timestampLayout = "2006-01-02 15:04"
)

// Printer handles formatted output for CLI commands
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMessage outputs a single confirmation or notice.
func (p *Printer) PrintMessage(title, text string) {
	p.printBox(title, strings.TrimSpace(text))
}

// PrintDashboard outputs the pending/error state of every domain.
func (p *Printer) PrintDashboard(views []dashboard.DomainView) {
	var sb strings.Builder
	for _, v := range views {
		state := "idle"
		if v.Pending {
			state = "loading"
		}
		sb.WriteString(fmt.Sprintf("%-8s %-8s", v.Name, state))
		if v.Error != nil {
			sb.WriteString(fmt.Sprintf(" %s: %s", v.Error.Operation, v.Error.Message))
		}
		sb.WriteString("\n")
	}
	p.printBox("DASHBOARD", strings.TrimRight(sb.String(), "\n"))
}

// PrintErrors outputs every recorded error, oldest first.
func (p *Printer) PrintErrors(errs []store.ErrorInfo) {
	if len(errs) == 0 {
		return
	}
	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("[%s/%s] %s\n", e.Domain, e.Operation, e.Message))
	}
	p.printBox("ERRORS", strings.TrimRight(sb.String(), "\n"))
}

// PrintParsedResume outputs the candidate record extracted from an upload.
func (p *Printer) PrintParsedResume(r *types.ParsedResume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", r.FullName))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", r.Email))
	sb.WriteString(fmt.Sprintf("Phone:  %s\n", r.PhoneNumber))
	sb.WriteString("\n")

	if len(r.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(r.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", r.Skills[i]))
		}
		if len(r.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(r.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Experience: %d positions\n", len(r.WorkExperience)))
	for _, w := range r.WorkExperience[:min(len(r.WorkExperience), 3)] {
		sb.WriteString(fmt.Sprintf("  • %s, %s\n", w.Position, w.Company))
	}
	sb.WriteString(fmt.Sprintf("Education:  %d qualifications", len(r.Education)))

	p.printBox("PARSED RESUME", sb.String())
}

// PrintResumes outputs the parsed-candidate listing.
func (p *Printer) PrintResumes(resp types.ResumeSummaryResponse) {
	if len(resp.Resumes) == 0 {
		msg := resp.Message
		if msg == "" {
			msg = "No resumes uploaded yet"
		}
		p.printBox("RESUMES", msg)
		return
	}

	rows := make([][]string, 0, len(resp.Resumes))
	for _, r := range resp.Resumes {
		rows = append(rows, []string{
			r.FullName,
			r.Email,
			strconv.Itoa(r.SkillsCount),
			strconv.Itoa(r.ExperienceCount),
			strconv.Itoa(r.EducationCount),
		})
	}
	p.printTable(fmt.Sprintf("RESUMES (%d)", resp.TotalResumes), []string{"Name", "Email", "Skills", "Experience", "Education"}, rows)
}

// PrintJobs outputs a job listing.
func (p *Printer) PrintJobs(title string, jobs []types.Job) {
	if len(jobs) == 0 {
		p.printBox(title, "No jobs found")
		return
	}
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{strconv.Itoa(j.JobID), j.Title, j.JobType, j.EmploymentType, j.Status})
	}
	p.printTable(title, []string{"ID", "Title", "Type", "Employment", "Status"}, rows)
}

// PrintJob outputs a single job.
func (p *Printer) PrintJob(j types.Job) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:          %d\n", j.JobID))
	sb.WriteString(fmt.Sprintf("Title:       %s\n", j.Title))
	sb.WriteString(fmt.Sprintf("Type:        %s\n", j.JobType))
	sb.WriteString(fmt.Sprintf("Employment:  %s\n", j.EmploymentType))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", j.Status))
	sb.WriteString(fmt.Sprintf("Created:     %s", j.CreatedDate))
	if j.Description != "" {
		sb.WriteString("\n\n" + j.Description)
	}
	p.printBox("JOB", sb.String())
}

// PrintStatistics outputs aggregate job statistics.
func (p *Printer) PrintStatistics(s types.JobStatistics) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total jobs:        %d\n", s.TotalJobs))
	sb.WriteString(fmt.Sprintf("Total candidates:  %d\n", s.TotalCandidates))

	if len(s.JobsByStatus) > 0 {
		sb.WriteString("\nBy status:\n")
		statuses := make([]string, 0, len(s.JobsByStatus))
		for status := range s.JobsByStatus {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			sb.WriteString(fmt.Sprintf("  %-16s %d\n", status, s.JobsByStatus[status]))
		}
	}
	if len(s.EmploymentTypes) > 0 {
		sb.WriteString(fmt.Sprintf("\nEmployment types: %s\n", strings.Join(s.EmploymentTypes, ", ")))
	}
	if len(s.JobTypes) > 0 {
		sb.WriteString(fmt.Sprintf("Job types: %s\n", strings.Join(s.JobTypes, ", ")))
	}
	p.printBox("JOB STATISTICS", strings.TrimRight(sb.String(), "\n"))
}

// PrintMatches outputs scored candidates for a job title.
func (p *Printer) PrintMatches(jobTitle string, matches []types.JobMatchResult) {
	title := fmt.Sprintf("MATCHES: %s", jobTitle)
	if len(matches) == 0 {
		p.printBox(title, "No matching candidates")
		return
	}

	var sb strings.Builder
	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("%d. %s <%s> (%.1f)\n", i+1, m.CandidateName, m.CandidateEmail, m.MatchScore))
		if len(m.MatchingSkills) > 0 {
			count := min(len(m.MatchingSkills), maxItemsToShow)
			sb.WriteString(fmt.Sprintf("   Skills: %s\n", strings.Join(m.MatchingSkills[:count], ", ")))
		}
		if m.Summary != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", m.Summary))
		}
	}
	p.printBox(title, strings.TrimRight(sb.String(), "\n"))
}

// PrintEmailStats outputs the email counters and the most recent log entries.
func (p *Printer) PrintEmailStats(snap store.EmailSnapshot) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total sent:  %d\n", snap.Stats.TotalSent))
	sb.WriteString(fmt.Sprintf("Sent today:  %d\n", snap.Stats.SentToday))
	if !snap.Stats.LastEmailTimestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("Last email:  %s\n", snap.Stats.LastEmailTimestamp.Format(timestampLayout)))
	}

	if len(snap.Logs) > 0 {
		sb.WriteString("\nRecent:\n")
		count := min(len(snap.Logs), maxItemsToShow)
		for _, entry := range snap.Logs[len(snap.Logs)-count:] {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", entry.Status, entry.Recipient, entry.Subject))
		}
		if len(snap.Logs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d earlier\n", len(snap.Logs)-maxItemsToShow))
		}
	}
	p.printBox("EMAIL ACTIVITY", strings.TrimRight(sb.String(), "\n"))
}

// PrintTimeline outputs the merged chat timeline as plain text.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTimeline(timeline []conversation.Message) {
	for _, m := range timeline {
		fmt.Fprintf(p.out, "[%s] %s\n", m.Origin, m.Text)
		if m.HasTable() {
			fmt.Fprintln(p.out, RenderTable(m.Table.Headers, m.Table.Rows))
		}
		for _, prompt := range m.SuggestedPrompts {
			fmt.Fprintf(p.out, "  → %s\n", prompt)
		}
	}
}

// PrintTable outputs a tabular assistant payload.
func (p *Printer) PrintTable(title string, t *types.TableData) {
	if t == nil || len(t.Headers) == 0 {
		return
	}
	p.printTable(title, t.Headers, t.Rows)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printTable(title string, headers []string, rows [][]string) {
	fmt.Fprintln(p.out, title)
	fmt.Fprintln(p.out, RenderTable(headers, rows))
}

// RenderTable lays out headers and rows with a rounded border.
func RenderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}
