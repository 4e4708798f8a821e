package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice/internal/api/dto"
	"github.com/spec-kit/backoffice/internal/app"
	"github.com/spec-kit/backoffice/internal/credstore"
	"github.com/spec-kit/backoffice/internal/domain"
)

type stubAPI struct {
	tree     []domain.ModuleNode
	fetchErr error
}

func (s *stubAPI) Login(context.Context, string, string) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{Token: "t1", User: dto.UserResponse{ID: "1", Name: "A"}}, nil
}

func (s *stubAPI) Logout(context.Context, string) error { return nil }

func (s *stubAPI) FetchModuleTree(context.Context, string) ([]domain.ModuleNode, error) {
	return s.tree, s.fetchErr
}

func sampleTree() []domain.ModuleNode {
	return []domain.ModuleNode{
		{Name: "HR", Title: "HR", Icon: "people", Children: []domain.ModuleNode{
			{Name: "Leaves", Title: "Leaves", Path: "/leaves", Icon: "calendar"},
		}},
		{Name: "CRM", Title: "CRM", Path: "/crm"},
	}
}

func loggedIn(t *testing.T, api *stubAPI) *app.App {
	t.Helper()
	a := app.New(app.Deps{Store: credstore.NewMemoryStore(), API: api})
	require.NoError(t, a.Login(context.Background(), "a", "b"))
	return a
}

func press(t *testing.T, m DrawerModel, msgs ...tea.KeyMsg) DrawerModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(DrawerModel)
	}
	return m
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestDrawerModelExpandsAndSelects(t *testing.T) {
	a := loggedIn(t, &stubAPI{tree: sampleTree()})
	m := NewDrawerModel(a)

	assert.Equal(t, "Leaves", a.Drawer.Active())
	assert.Contains(t, m.View(), "HR")
	assert.NotContains(t, m.View(), "Leaves")

	m = press(t, m, enter)
	assert.True(t, a.Drawer.Expanded("HR"))
	assert.Contains(t, m.View(), "Leaves")

	m = press(t, m, down, enter)
	assert.Equal(t, "/leaves", a.Router.Current())
	assert.False(t, a.Drawer.IsOpen())
	assert.Contains(t, m.View(), "route: /leaves")
	assert.Contains(t, m.View(), "opened Leaves")
}

func TestDrawerModelCursorStaysInBounds(t *testing.T) {
	a := loggedIn(t, &stubAPI{tree: sampleTree()})
	m := NewDrawerModel(a)

	m = press(t, m, up, up, down, down, down, down)
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, enter)
	assert.Equal(t, "/crm", a.Router.Current())
}

func TestDrawerModelMenuToggle(t *testing.T) {
	a := loggedIn(t, &stubAPI{tree: sampleTree()})
	m := NewDrawerModel(a)
	menu := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}

	m = press(t, m, menu)
	assert.False(t, a.Drawer.IsOpen())
	m = press(t, m, enter)
	assert.False(t, a.Drawer.Expanded("HR"), "keys other than menu are ignored while closed")

	press(t, m, menu)
	assert.True(t, a.Drawer.IsOpen())
}

func TestDrawerModelReload(t *testing.T) {
	api := &stubAPI{tree: sampleTree()}
	a := loggedIn(t, api)
	m := NewDrawerModel(a)

	api.tree = []domain.ModuleNode{{Name: "CRM", Title: "CRM", Path: "/crm"}}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	m = next.(DrawerModel)
	assert.Contains(t, m.View(), "loading menu")

	next, _ = m.Update(cmd())
	m = next.(DrawerModel)
	assert.NotContains(t, m.View(), "loading menu")
	assert.NotContains(t, m.View(), "HR")
	assert.Len(t, a.Router.Routes(), 1)

	api.fetchErr = errors.New("down")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(DrawerModel)
	next, _ = m.Update(cmd())
	m = next.(DrawerModel)
	assert.Contains(t, m.View(), "CRM")
	assert.Contains(t, m.View(), "menu unavailable")
}

func TestDrawerModelQuit(t *testing.T) {
	a := loggedIn(t, &stubAPI{tree: sampleTree()})
	m := NewDrawerModel(a)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestRequiredValidator(t *testing.T) {
	assert.Error(t, required("secret")("  "))
	assert.NoError(t, required("secret")("x"))
}
