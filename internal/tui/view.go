package tui

import (
	"fmt"
	"strings"

	"taskflow/internal/client"
	"taskflow/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeFilter  = lipgloss.NewStyle().Bold(true).Underline(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	formStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	priorityStyle = map[domain.Priority]lipgloss.Style{
		domain.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		domain.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TaskFlow"))
	if m.live {
		b.WriteString(mutedStyle.Render("  ● live"))
	}
	if m.busy {
		b.WriteString(mutedStyle.Render("  working..."))
	}
	b.WriteString("\n\n")

	if m.state.Editor.Open() {
		b.WriteString(m.viewEditor())
	} else {
		b.WriteString(m.viewFilters())
		b.WriteString(m.viewList())
	}

	if n := m.state.Notice; n != nil {
		style := successStyle
		if n.Kind == client.NoticeError {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(client.Sanitize(n.Message)) + "\n")
	}
	if m.pendingDelete != "" {
		b.WriteString("\n" + errorStyle.Render("Press d again to delete this task.") + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render(m.help()) + "\n")
	return b.String()
}

func (m *Model) viewFilters() string {
	labels := []struct {
		key    string
		filter client.Filter
	}{{"1", client.FilterAll}, {"2", client.FilterActive}, {"3", client.FilterCompleted}}

	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		text := fmt.Sprintf("%s %s", l.key, l.filter)
		if m.state.Filter == l.filter {
			text = activeFilter.Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "  ") + "\n\n"
}

func (m *Model) viewList() string {
	visible := m.state.Visible()
	if len(visible) == 0 {
		return mutedStyle.Render("No tasks to show.") + "\n"
	}

	var b strings.Builder
	for i, t := range visible {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		check := "[ ]"
		title := client.Sanitize(t.Title)
		if t.Completed {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		prio := priorityStyle[t.Priority].Render(fmt.Sprintf("%-6s", t.Priority))
		fmt.Fprintf(&b, "%s%s %s %s  %s\n", marker, check, prio, title, mutedStyle.Render(dueText(t)))
		if i == m.cursor && t.Description != "" {
			b.WriteString("      " + mutedStyle.Render(client.Sanitize(t.Description)) + "\n")
		}
	}
	return b.String()
}

func dueText(t domain.Task) string {
	if t.DueDate == nil {
		return "No due date"
	}
	return "Due: " + t.DueDate.Format("2006-01-02")
}

func (m *Model) viewEditor() string {
	ed := m.state.Editor
	heading := "New task"
	if ed.Mode() == client.EditorEdit {
		heading = "Edit task"
	}

	rows := []struct {
		label string
		value string
	}{
		{"Title", ed.Title},
		{"Description", ed.Description},
		{"Priority", "< " + string(ed.Priority) + " >"},
		{"Due date", ed.DueDate},
	}

	var b strings.Builder
	b.WriteString(heading + "\n\n")
	for i, row := range rows {
		label := fmt.Sprintf("%-12s", row.label)
		value := client.Sanitize(row.value)
		if i == m.field {
			label = focusedStyle.Render(label)
			if i != fieldPriority {
				value += "_"
			}
		}
		b.WriteString(label + " " + value + "\n")
	}
	b.WriteString(mutedStyle.Render("Due date format: YYYY-MM-DD"))
	return formStyle.Render(b.String()) + "\n"
}

func (m *Model) help() string {
	if m.state.Editor.Open() {
		return "tab next field • ←/→ priority • enter save • esc cancel"
	}
	return "↑/↓ move • space toggle • a add • e edit • d delete • r refresh • 1/2/3 filter • q quit"
}
