// Package tui renders the navigation drawer and the login form in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/backoffice/internal/app"
	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/navigation"
)

const reloadTimeout = 30 * time.Second

// treeReloadedMsg reports the outcome of a background tree reload.
type treeReloadedMsg struct {
	err error
}

// DrawerModel is the bubbletea model for the navigation drawer. The drawer
// state itself lives in app.App; the model only adds a cursor.
type DrawerModel struct {
	app    *app.App
	keys   KeyMap
	styles Styles

	cursor    int
	reloading bool
	status    string
	err       error
	quitting  bool
}

// NewDrawerModel builds a model over a. The drawer starts open.
func NewDrawerModel(a *app.App) DrawerModel {
	a.Drawer.Open()
	m := DrawerModel{app: a, keys: DefaultKeyMap(), styles: DefaultStyles()}
	m.cursor = m.activeIndex()
	return m
}

// Init implements tea.Model.
func (m DrawerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DrawerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case treeReloadedMsg:
		m.reloading = false
		if msg.err != nil {
			m.status = "menu unavailable; showing the last known menu"
			return m, nil
		}
		m.app.SyncNavigation()
		m.status = ""
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Menu):
			if m.app.Drawer.IsOpen() {
				m.app.Drawer.Close()
			} else {
				m.app.Drawer.Open()
				m.cursor = m.activeIndex()
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.reloading {
				return m, nil
			}
			m.reloading = true
			return m, m.reload()
		}

		if !m.app.Drawer.IsOpen() {
			return m, nil
		}

		rows := m.app.Drawer.Rows()
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if m.cursor >= len(rows) {
				return m, nil
			}
			m.activate(rows[m.cursor].Node)
		}
	}
	return m, nil
}

func (m *DrawerModel) activate(node domain.ModuleNode) {
	m.err = nil
	if node.IsGroup() {
		m.app.Drawer.ToggleExpand(node.Name)
		return
	}
	if err := m.app.Drawer.SelectLeaf(node); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("opened %s", node.Label())
}

func (m DrawerModel) reload() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		_, err := a.ReloadTree(ctx)
		return treeReloadedMsg{err: err}
	}
}

func (m *DrawerModel) clampCursor() {
	if n := len(m.app.Drawer.Rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m DrawerModel) activeIndex() int {
	active := m.app.Drawer.Active()
	for i, row := range m.app.Drawer.Rows() {
		if row.Node.Name == active {
			return i
		}
	}
	return 0
}

// View implements tea.Model.
func (m DrawerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	sess := m.app.Session.Current()
	title := "Back office"
	if sess.DisplayName != "" {
		title = fmt.Sprintf("Back office · %s", sess.DisplayName)
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.styles.Route.Render("route: " + m.app.Router.Current()))
	b.WriteString("\n\n")

	if m.reloading || m.app.Registry.Loading() {
		b.WriteString(m.styles.Loading.Render("loading menu…"))
		b.WriteString("\n")
	}

	if m.app.Drawer.IsOpen() {
		rows := m.app.Drawer.Rows()
		if len(rows) == 0 {
			b.WriteString(m.styles.Status.Render("no modules available"))
			b.WriteString("\n")
		}
		for i, row := range rows {
			b.WriteString(m.renderRow(row, i == m.cursor))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(helpLine(m.keys)))
	return b.String()
}

func (m DrawerModel) renderRow(row navigation.Row, selected bool) string {
	pointer := "  "
	if selected {
		pointer = m.styles.Cursor.Render("> ")
	}
	indent := strings.Repeat("  ", row.Depth)

	label := row.Glyph + " " + row.Node.Label()
	switch {
	case row.Group:
		marker := "▸"
		if row.Expanded {
			marker = "▾"
		}
		label = m.styles.Group.Render(marker + " " + label)
	case row.Active:
		label = m.styles.Active.Render("  " + label)
	default:
		label = m.styles.Leaf.Render("  " + label)
	}
	return pointer + indent + label
}

func helpLine(k KeyMap) string {
	parts := make([]string, 0, len(k.help()))
	for _, b := range k.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
