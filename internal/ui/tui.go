package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/camrohlof/todolist/internal/model"
)

// Changes is what the interactive list wants written back once it exits.
type Changes struct {
	Finished  []string          // names marked finished
	Described map[string]string // name -> new details
}

// Empty reports whether nothing was changed.
func (c Changes) Empty() bool { return len(c.Finished) == 0 && len(c.Described) == 0 }

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	item     model.Item
	finished bool // marked in this session, not yet stored
	original string
}

func (i listItem) Title() string       { return i.item.Name }
func (i listItem) Description() string { return i.item.Details }
func (i listItem) FilterValue() string { return i.item.Name + " " + i.item.Details }

// itemDelegate renders each row on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := Current()
	box := t.Muted.Render(t.BoxUnchecked)
	text := it.item.Name + t.Muted.Render(": "+it.item.Details)
	if it.finished {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(it.item.Name + ": " + it.item.Details)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type listModel struct {
	list    list.Model
	aborted bool

	// inline details edit
	editing   bool
	editIndex int
	editErr   string
	ti        textinput.Model

	width, height int
}

func newListModel(items []model.Item) listModel {
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{item: it, original: it.Details})
	}

	t := Current()
	l := list.New(li, itemDelegate{}, 80, 20)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	finishBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "finish"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit details"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{finishBind, editBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{finishBind, editBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New details..."
	ti.CharLimit = 500

	return listModel{list: l, ti: ti, width: 80, height: 24}
}

// Init implements tea.Model.
func (m listModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.list.SetSize(ws.Width-4, m.listHeight())
		return m, nil
	}

	if m.editing {
		return m.updateEditing(msg)
	}

	kmsg, isKey := msg.(tea.KeyMsg)
	if isKey && kmsg.String() == "ctrl+c" {
		m.aborted = true
		return m, tea.Quit
	}
	if !isKey || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch kmsg.String() {
	case "q", "esc":
		if m.list.FilterState() == list.FilterApplied && kmsg.String() == "esc" {
			break
		}
		return m, tea.Quit
	case " ":
		if li, i, ok := m.selected(); ok {
			li.finished = !li.finished
			m.list.SetItem(i, li)
		}
		return m, nil
	case "e":
		if li, i, ok := m.selected(); ok {
			m.editing = true
			m.editIndex = i
			m.editErr = ""
			m.ti.SetValue(li.item.Details)
			m.ti.CursorEnd()
			m.ti.Focus()
			m.list.SetSize(m.width-4, m.listHeight())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			details := strings.TrimSpace(m.ti.Value())
			if details == "" {
				m.editErr = "Details cannot be empty"
				return m, nil
			}
			if li, ok := m.list.Items()[m.editIndex].(listItem); ok {
				li.item.Details = details
				m.list.SetItem(m.editIndex, li)
			}
			return m.stopEditing(), nil
		case "esc":
			return m.stopEditing(), nil
		case "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m listModel) stopEditing() listModel {
	m.editing = false
	m.editErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.list.SetSize(m.width-4, m.listHeight())
	return m
}

// selected returns the highlighted row and its index in the unfiltered list.
func (m listModel) selected() (listItem, int, bool) {
	i := m.list.GlobalIndex()
	items := m.list.Items()
	if i < 0 || i >= len(items) {
		return listItem{}, 0, false
	}
	li, ok := items[i].(listItem)
	return li, i, ok
}

func (m listModel) listHeight() int {
	h := m.height - 4
	if m.editing {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	return h
}

// changes collects the session's edits in list order.
func (m listModel) changes() Changes {
	var c Changes
	for _, it := range m.list.Items() {
		li, ok := it.(listItem)
		if !ok {
			continue
		}
		if li.item.Details != li.original {
			if c.Described == nil {
				c.Described = make(map[string]string)
			}
			c.Described[li.item.Name] = li.item.Details
		}
		if li.finished {
			c.Finished = append(c.Finished, li.item.Name)
		}
	}
	return c
}

func (m listModel) header() string {
	t := Current()
	c := m.changes()
	total := len(m.list.Items())
	return fmt.Sprintf("%s %d  %s %s",
		t.Pending.Render(t.BoxUnchecked), total-len(c.Finished),
		t.Accent.Render("marked"), ProgressBar(len(c.Finished), total, 20))
}

// View implements tea.Model.
func (m listModel) View() string {
	t := Current()
	content := m.header() + "\n" + m.list.View()
	if m.editing {
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Edit details"
		if m.editErr != "" {
			title += " - " + t.Error.Render(m.editErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(content)
}

// RunList shows items in a full-screen list and returns the edits the user
// made. Quitting with ctrl+c discards them.
func RunList(items []model.Item, opts ...tea.ProgramOption) (Changes, error) {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	p := tea.NewProgram(newListModel(items), opts...)
	final, err := p.Run()
	if err != nil {
		return Changes{}, err
	}
	fm, ok := final.(listModel)
	if !ok || fm.aborted {
		return Changes{}, nil
	}
	return fm.changes(), nil
}
