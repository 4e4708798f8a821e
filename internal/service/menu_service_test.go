package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/navigation"
	"github.com/spec-kit/backoffice/internal/repository"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

type failingModules struct{ err error }

func (f failingModules) List(context.Context) ([]domain.ModuleRecord, error) { return nil, f.err }

func names(routes []navigation.Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Name)
	}
	return out
}

func TestTreeForFiltersByPrivilegeAndPrunesGroups(t *testing.T) {
	svc := NewMenuService(repository.NewMemoryModuleRepository(repository.SeedModules()...), nil)

	tree, err := svc.TreeFor(context.Background(), []string{"hr.leaves"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Dashboard", "HR", "Leaves"}, names(navigation.RoutesFrom(tree)))
	require.Len(t, tree, 2)
	assert.True(t, tree[0].IsLeaf())
	assert.True(t, tree[1].IsGroup())
	assert.NoError(t, navigation.Validate(tree))
}

func TestFullTreeKeepsCatalogueOrder(t *testing.T) {
	svc := NewMenuService(repository.NewMemoryModuleRepository(repository.SeedModules()...), nil)

	tree, err := svc.FullTree(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Dashboard", "HR", "Employees", "Leaves", "Payroll", "Payslips",
		"CRM", "Customers", "Leads", "Inventory", "Stock",
	}, names(navigation.RoutesFrom(tree)))
}

func TestTreeForWithoutPrivilegesReturnsOpenModulesOnly(t *testing.T) {
	svc := NewMenuService(repository.NewMemoryModuleRepository(repository.SeedModules()...), nil)

	tree, err := svc.TreeFor(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.ModuleNode{{Name: "Dashboard", Title: "Dashboard", Path: "/dashboard", Icon: "dashboard"}}, tree)
}

func TestTreeSkipsOrphansAndEmptyCatalogue(t *testing.T) {
	svc := NewMenuService(repository.NewMemoryModuleRepository(
		domain.ModuleRecord{Name: "Lost", Title: "Lost", Path: "/lost", ParentName: "Missing"},
	), nil)

	tree, err := svc.FullTree(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestTreeRejectsDuplicateNames(t *testing.T) {
	svc := NewMenuService(repository.NewMemoryModuleRepository(
		domain.ModuleRecord{Name: "A", Title: "A", Path: "/a"},
		domain.ModuleRecord{Name: "G", Title: "G"},
		domain.ModuleRecord{Name: "A", Title: "A", Path: "/a2", ParentName: "G"},
	), nil)

	_, err := svc.FullTree(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestTreeMapsRepositoryErrors(t *testing.T) {
	svc := NewMenuService(failingModules{err: errors.New("db down")}, nil)

	_, err := svc.FullTree(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}
