package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/events"
	"github.com/spec-kit/backoffice/internal/navigation"
)

type fakeFetcher struct {
	tree    []domain.ModuleNode
	err     error
	tokens  []string
	observe func()
}

func (f *fakeFetcher) FetchModuleTree(_ context.Context, token string) ([]domain.ModuleNode, error) {
	f.tokens = append(f.tokens, token)
	if f.observe != nil {
		f.observe()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.tree, nil
}

func tree() []domain.ModuleNode {
	return []domain.ModuleNode{
		{Name: "HR", Children: []domain.ModuleNode{{Name: "Leaves", Path: "/leaves"}}},
		{Name: "CRM", Path: "/crm"},
	}
}

func TestRefreshReplacesTree(t *testing.T) {
	fetcher := &fakeFetcher{tree: tree()}
	r := New(fetcher, nil, zap.NewNop())

	got, err := r.Refresh(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, tree(), got)
	assert.Equal(t, tree(), r.Tree())
	assert.Equal(t, []string{"t1"}, fetcher.tokens)
	assert.Equal(t, uint64(1), r.Generation())
	assert.Equal(t, []navigation.Route{
		{Name: "HR", Title: "HR"},
		{Name: "Leaves", Title: "Leaves", Path: "/leaves"},
		{Name: "CRM", Title: "CRM", Path: "/crm"},
	}, r.Routes())

	fetcher.tree = []domain.ModuleNode{{Name: "CRM", Path: "/crm"}}
	_, err = r.Refresh(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, fetcher.tree, r.Tree())
	assert.Equal(t, uint64(2), r.Generation())
}

func TestRefreshFailureKeepsPreviousTree(t *testing.T) {
	fetcher := &fakeFetcher{tree: tree()}
	r := New(fetcher, nil, nil)
	_, err := r.Refresh(context.Background(), "t1")
	require.NoError(t, err)

	fetcher.err = errors.New("network down")
	got, err := r.Refresh(context.Background(), "t1")

	assert.Error(t, err)
	assert.Equal(t, tree(), got)
	assert.Equal(t, tree(), r.Tree())
	assert.Equal(t, uint64(1), r.Generation())
}

func TestLoadingFlagDuringRefresh(t *testing.T) {
	fetcher := &fakeFetcher{tree: tree()}
	r := New(fetcher, nil, nil)

	var during bool
	fetcher.observe = func() { during = r.Loading() }

	_, err := r.Refresh(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, during)
	assert.False(t, r.Loading())
}

func TestSessionClearedInvalidatesTree(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	r := New(&fakeFetcher{tree: tree()}, dispatcher, nil)
	_, err := r.Refresh(context.Background(), "t1")
	require.NoError(t, err)

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventSessionCleared, "1")))

	assert.Nil(t, r.Tree())
	assert.Empty(t, r.Routes())
	assert.Equal(t, uint64(2), r.Generation())
}

func TestTreeIsACopy(t *testing.T) {
	r := New(&fakeFetcher{tree: tree()}, nil, nil)
	_, err := r.Refresh(context.Background(), "t1")
	require.NoError(t, err)

	got := r.Tree()
	got[0].Children[0].Name = "mutated"

	assert.Equal(t, "Leaves", r.Tree()[0].Children[0].Name)
}

func TestRefreshDiscardsTreeFetchedAcrossSessionClear(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	fetcher := &fakeFetcher{tree: tree()}
	r := New(fetcher, dispatcher, nil)
	_, err := r.Refresh(context.Background(), "t1")
	require.NoError(t, err)

	fetcher.observe = func() {
		require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventSessionCleared, "1")))
	}
	got, err := r.Refresh(context.Background(), "t1")

	assert.ErrorIs(t, err, ErrInvalidated)
	assert.Nil(t, got)
	assert.Nil(t, r.Tree())
	assert.Empty(t, r.Routes())
	assert.Equal(t, uint64(2), r.Generation())
}

func TestFirstRefreshDiscardedWhenClearedBeforeItLands(t *testing.T) {
	fetcher := &fakeFetcher{tree: tree()}
	r := New(fetcher, nil, nil)
	fetcher.observe = r.Invalidate

	_, err := r.Refresh(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrInvalidated)
	assert.Nil(t, r.Tree())

	fetcher.observe = nil
	_, err = r.Refresh(context.Background(), "t2")
	require.NoError(t, err)
	assert.Equal(t, tree(), r.Tree())
}
