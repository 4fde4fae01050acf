// Package tui is the terminal client for the task board.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"taskflow/internal/client"
	"taskflow/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Editor fields in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDueDate
	fieldCount
)

// Run starts the program against api and blocks until the user quits.
func Run(ctx context.Context, api *client.Client) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := NewModel(ctx, client.NewApp(api))
	if events, err := api.Subscribe(ctx); err == nil {
		m.events = events
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Model is the bubbletea model. State is only touched inside Update.
type Model struct {
	ctx    context.Context
	app    *client.App
	state  *client.State
	events <-chan domain.TaskEvent
	now    func() time.Time

	cursor        int
	field         int
	busy          bool
	pendingDelete string
	live          bool
}

type tickMsg time.Time

type eventMsg domain.TaskEvent

type eventsClosedMsg struct{}

func NewModel(ctx context.Context, app *client.App) *Model {
	return &Model{
		ctx:   ctx,
		app:   app,
		state: client.NewState(),
		now:   time.Now,
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refresh(), tickCmd()}
	if m.events != nil {
		m.live = true
		cmds = append(cmds, waitForEvent(m.events))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state.Editor.Open() {
			return m, m.updateEditor(msg)
		}
		return m, m.updateList(msg)

	case client.Result:
		m.busy = false
		m.state.Apply(msg, m.now())
		m.clampCursor()
		return m, nil

	case eventMsg:
		m.state.ApplyEvent(domain.TaskEvent(msg))
		m.clampCursor()
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.live = false
		return m, nil

	case tickMsg:
		m.state.ExpireNotice(time.Time(msg))
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key != "d" {
		m.pendingDelete = ""
	}

	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Visible())-1 {
			m.cursor++
		}
	case "1":
		m.setFilter(client.FilterAll)
	case "2":
		m.setFilter(client.FilterActive)
	case "3":
		m.setFilter(client.FilterCompleted)
	case "r":
		return m.refresh()
	case "a":
		m.state.Editor.OpenCreate()
		m.field = fieldTitle
	case "e":
		if t, ok := m.selected(); ok {
			m.state.Editor.OpenEdit(t)
			m.field = fieldTitle
		}
	case " ":
		if t, ok := m.selected(); ok {
			return m.run(func(ctx context.Context) client.Result { return m.app.Toggle(ctx, t) })
		}
	case "d":
		t, ok := m.selected()
		if !ok {
			return nil
		}
		if m.pendingDelete != t.ID {
			m.pendingDelete = t.ID
			return nil
		}
		m.pendingDelete = ""
		return m.run(func(ctx context.Context) client.Result { return m.app.Delete(ctx, t.ID) })
	}
	return nil
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	ed := &m.state.Editor
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		ed.Cancel()
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.field = (m.field + 1) % fieldCount
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.field = (m.field + fieldCount - 1) % fieldCount
		return nil
	case tea.KeyEnter:
		snapshot := *ed
		return m.run(func(ctx context.Context) client.Result { return m.app.Submit(ctx, snapshot) })
	case tea.KeyLeft, tea.KeyRight:
		if m.field == fieldPriority {
			ed.Priority = cyclePriority(ed.Priority, msg.Type == tea.KeyRight)
		}
		return nil
	case tea.KeyBackspace:
		if p := m.focused(); p != nil && *p != "" {
			r := []rune(*p)
			*p = string(r[:len(r)-1])
		}
		return nil
	case tea.KeySpace:
		if p := m.focused(); p != nil {
			*p += " "
		}
		return nil
	case tea.KeyRunes:
		if p := m.focused(); p != nil {
			*p += string(msg.Runes)
		}
		return nil
	}
	return nil
}

// focused returns the text field under the cursor; priority is not free text.
func (m *Model) focused() *string {
	ed := &m.state.Editor
	switch m.field {
	case fieldTitle:
		return &ed.Title
	case fieldDescription:
		return &ed.Description
	case fieldDueDate:
		return &ed.DueDate
	}
	return nil
}

func cyclePriority(p domain.Priority, forward bool) domain.Priority {
	n := len(domain.Priorities)
	idx := 0
	for i, candidate := range domain.Priorities {
		if candidate == p {
			idx = i
		}
	}
	if forward {
		return domain.Priorities[(idx+1)%n]
	}
	return domain.Priorities[(idx+n-1)%n]
}

func (m *Model) setFilter(f client.Filter) {
	m.state.Filter = f
	m.cursor = 0
}

func (m *Model) selected() (domain.Task, bool) {
	visible := m.state.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return domain.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := len(m.state.Visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refresh() tea.Cmd {
	return m.run(m.app.Refresh)
}

// run performs op off the update loop; its Result comes back as a message.
func (m *Model) run(op func(context.Context) client.Result) tea.Cmd {
	m.busy = true
	ctx := m.ctx
	return func() tea.Msg {
		return op(ctx)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(ch <-chan domain.TaskEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}
