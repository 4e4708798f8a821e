package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterReplaceDoesNotGrowHistory(t *testing.T) {
	r := NewRouter("/login")
	r.Register([]Route{{Name: "CRM", Path: "/crm"}, {Name: "Leaves", Path: "/leaves"}})

	require.NoError(t, r.Push("/crm"))
	require.NoError(t, r.Replace("/leaves"))
	require.NoError(t, r.Replace("/crm"))

	assert.Equal(t, "/crm", r.Current())
	assert.Equal(t, 2, r.Depth())
	assert.True(t, r.Back())
	assert.Equal(t, "/login", r.Current())
	assert.False(t, r.Back())
}

func TestRouterRejectsUnknownPaths(t *testing.T) {
	r := NewRouter("/login")
	r.Register([]Route{{Name: "HR"}, {Name: "CRM", Path: "/crm"}})

	assert.Error(t, r.Replace("/missing"))
	assert.Error(t, r.Push(""))
	assert.Equal(t, "/login", r.Current())
}

func TestRouterLastRegistrationWins(t *testing.T) {
	r := NewRouter("/")
	r.Register([]Route{{Name: "CRM", Path: "/crm"}, {Name: "HR"}, {Name: "CRM", Path: "/crm/v2"}})

	rt, ok := r.Lookup("CRM")
	require.True(t, ok)
	assert.Equal(t, "/crm/v2", rt.Path)
	assert.Equal(t, []Route{{Name: "CRM", Path: "/crm/v2"}, {Name: "HR"}}, r.Routes())
}

func TestRouterReset(t *testing.T) {
	r := NewRouter("/login")
	r.Register([]Route{{Name: "CRM", Path: "/crm"}})
	require.NoError(t, r.Push("/crm"))

	r.Reset("/login")

	assert.Equal(t, "/login", r.Current())
	assert.Equal(t, 1, r.Depth())
	assert.Empty(t, r.Routes())
	assert.Error(t, r.Replace("/crm"))
}
