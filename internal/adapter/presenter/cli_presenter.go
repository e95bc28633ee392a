package presenter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
)

const dateTimeLayout = "2006-01-02 15:04"

// CLIPresenter implements output.Presenter for CLI output
// Formats output in a human-readable text format. Colors are only emitted
// when the writer is a color-capable terminal.
type CLIPresenter struct {
	output io.Writer
	styles cliStyles
}

type cliStyles struct {
	ok      lipgloss.Style
	fail    lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	groups  map[string]lipgloss.Style
}

func newCLIStyles(r *lipgloss.Renderer) cliStyles {
	badge := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return cliStyles{
		ok:      badge("#8BC34A"),
		fail:    badge("#e53935"),
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Faint(true),
		groups: map[string]lipgloss.Style{
			"G1_DOING":       badge("#2196F3"),
			"G2_OVERDUE":     badge("#e53935"),
			"G3_DUE_SOON":    badge("#FFC107"),
			"G4_P1":          badge("#ff8a65"),
			"G5_HABIT_TODAY": badge("#4db6ac"),
		},
	}
}

// NewCLIPresenter creates a new CLI presenter
func NewCLIPresenter(output io.Writer) output.Presenter {
	return &CLIPresenter{
		output: output,
		styles: newCLIStyles(lipgloss.NewRenderer(output)),
	}
}

// PresentSuccess presents a successful result
func (p *CLIPresenter) PresentSuccess(message string, data interface{}) error {
	fmt.Fprintf(p.output, "%s %s\n", p.styles.ok.Render("✓"), message)

	switch v := data.(type) {
	case nil:
		return nil
	case *dto.TaskDTO:
		p.presentTask(v)
	case *dto.ListTasksResponse:
		p.presentTaskList(v)
	case *dto.ProjectDTO:
		p.presentProject(v)
	case []dto.ProjectDTO:
		p.presentProjectList(v)
	case *dto.CompletionResult:
		p.presentCompletion(v)
	case *dto.UncompleteResult:
		fmt.Fprintf(p.output, "Reopened occurrence %s of %s\n", v.RemovedLog.OccurrenceKey, v.Task.Title)
		if v.Task.NextOccurrenceDueAt != nil {
			fmt.Fprintf(p.output, "Next occurrence: %s\n", formatTime(*v.Task.NextOccurrenceDueAt))
		}
	case *dto.StartResult:
		if !v.Changed {
			fmt.Fprintf(p.output, "%s\n", p.styles.muted.Render("already doing"))
		}
		p.presentTask(&v.Task)
	case *dto.SummaryDTO:
		p.presentSummary(v)
	case *dto.PublishResult:
		p.presentSummary(&v.Summary)
		fmt.Fprintln(p.output)
		for _, obj := range v.Objects {
			fmt.Fprintf(p.output, "  → %s (%d bytes)\n", obj.StoragePath, obj.Size)
		}
	case map[string]string:
		p.presentKeyValues(v)
	default:
		// Fallback for unknown types
		fmt.Fprintf(p.output, "%+v\n", data)
	}
	return nil
}

// PresentError presents an error
func (p *CLIPresenter) PresentError(err error) error {
	fmt.Fprintf(p.output, "%s Error: %v\n", p.styles.fail.Render("✗"), err)
	return err
}

func (p *CLIPresenter) presentTask(t *dto.TaskDTO) {
	fmt.Fprintf(p.output, "\n%s\n", p.styles.heading.Render(t.Title))
	fmt.Fprintf(p.output, "ID: %s\n", t.ID)
	fmt.Fprintf(p.output, "Project: %s\n", t.ProjectID)
	fmt.Fprintf(p.output, "State: %s\n", t.WorkflowState)
	fmt.Fprintf(p.output, "Priority: %s\n", t.Priority)

	if t.DueAt != nil {
		fmt.Fprintf(p.output, "Due: %s\n", formatTime(*t.DueAt))
	}
	if t.StartAt != nil {
		fmt.Fprintf(p.output, "Start: %s\n", formatTime(*t.StartAt))
	}
	if t.SectionID != nil {
		fmt.Fprintf(p.output, "Section: %s\n", *t.SectionID)
	}
	if len(t.TagIDs) > 0 {
		fmt.Fprintf(p.output, "Tags: %s\n", strings.Join(t.TagIDs, ", "))
	}
	if t.Recurrence != nil {
		fmt.Fprintf(p.output, "Repeats: %s (%s)\n", t.Recurrence.Rule, t.Recurrence.Behavior)
	}
	if t.NextOccurrenceDueAt != nil {
		fmt.Fprintf(p.output, "Next occurrence: %s\n", formatTime(*t.NextOccurrenceDueAt))
	}
	if len(t.BlockedByTaskIDs) > 0 {
		fmt.Fprintf(p.output, "Blocked by: %s\n", strings.Join(t.BlockedByTaskIDs, ", "))
	}
	if t.Note != nil && *t.Note != "" {
		fmt.Fprintf(p.output, "\nNote:\n%s\n", *t.Note)
	}
}

func (p *CLIPresenter) presentTaskList(resp *dto.ListTasksResponse) {
	fmt.Fprintf(p.output, "Total: %d tasks\n\n", resp.Total)
	rows := make([][]string, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		due := "-"
		if t.DueAt != nil {
			due = formatTime(*t.DueAt)
		}
		rows = append(rows, []string{t.ID, t.Priority, t.WorkflowState, due, t.Title})
	}
	p.table([]string{"ID", "PRI", "STATE", "DUE", "TITLE"}, rows)
}

func (p *CLIPresenter) presentProject(pr *dto.ProjectDTO) {
	fmt.Fprintf(p.output, "\n%s\n", p.styles.heading.Render(pr.Title))
	fmt.Fprintf(p.output, "ID: %s\n", pr.ID)
	fmt.Fprintf(p.output, "Status: %s\n", pr.Status)
	fmt.Fprintf(p.output, "Start: %s\n", pr.StartDate.Format("2006-01-02"))
	if pr.DueDate != nil {
		fmt.Fprintf(p.output, "Due: %s\n", pr.DueDate.Format("2006-01-02"))
	}
	if pr.Note != nil && *pr.Note != "" {
		fmt.Fprintf(p.output, "\nNote:\n%s\n", *pr.Note)
	}
}

func (p *CLIPresenter) presentProjectList(projects []dto.ProjectDTO) {
	fmt.Fprintf(p.output, "Total: %d projects\n\n", len(projects))
	rows := make([][]string, 0, len(projects))
	for _, pr := range projects {
		rows = append(rows, []string{pr.ID, pr.Status, pr.Title})
	}
	p.table([]string{"ID", "STATUS", "TITLE"}, rows)
}

func (p *CLIPresenter) presentCompletion(r *dto.CompletionResult) {
	if r.WasAlreadyCompleted {
		fmt.Fprintf(p.output, "%s was already completed for %s\n", r.Task.Title, r.Log.OccurrenceKey)
	} else {
		fmt.Fprintf(p.output, "Completed %s for %s\n", r.Task.Title, r.Log.OccurrenceKey)
	}
	if r.Task.NextOccurrenceDueAt != nil {
		fmt.Fprintf(p.output, "Next occurrence: %s\n", formatTime(*r.Task.NextOccurrenceDueAt))
	}
}

func (p *CLIPresenter) presentSummary(s *dto.SummaryDTO) {
	scope := s.Scope
	if s.FallbackReason != "" {
		scope += " (" + s.FallbackReason + ")"
	}
	fmt.Fprintf(p.output, "\n%s %s\n", p.styles.heading.Render(s.DateKey), p.styles.muted.Render(scope))

	if len(s.DisplayList) == 0 {
		fmt.Fprintln(p.output, "Nothing outstanding")
	}
	for i, it := range s.DisplayList {
		badge := it.Group
		if style, ok := p.styles.groups[it.Group]; ok {
			badge = style.Render(it.Group)
		}
		line := fmt.Sprintf("%d. %s %s [%s]", i+1, badge, it.Title, it.Priority)
		if it.DueAt != nil {
			line += " due " + formatTime(*it.DueAt)
		}
		fmt.Fprintln(p.output, line)
	}

	c := s.Counters
	fmt.Fprintf(p.output, "\nOutstanding: %d  Overdue: %d  Due soon: %d  P1: %d  Doing: %d  Blocked: %d  Recurring: %d\n",
		c.OutstandingTotal, c.OverdueCount, c.DueSoonCount, c.P1Count, c.DoingCount, c.BlockedCount, c.RecurringTotal)
}

func (p *CLIPresenter) presentKeyValues(kv map[string]string) {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, kv[k]})
	}
	p.table(nil, rows)
}

// table renders left-aligned columns sized to their widest cell
func (p *CLIPresenter) table(headers []string, rows [][]string) {
	cols := len(headers)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	render := func(row []string, style *lipgloss.Style) {
		cells := make([]string, len(row))
		for i, cell := range row {
			padded := cell
			if i < len(row)-1 {
				padded += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			}
			if style != nil {
				padded = style.Render(padded)
			}
			cells[i] = padded
		}
		fmt.Fprintln(p.output, strings.Join(cells, "  "))
	}
	if len(headers) > 0 {
		render(headers, &p.styles.muted)
	}
	for _, row := range rows {
		render(row, nil)
	}
}

func formatTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}
