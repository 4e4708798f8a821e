package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/navigation"
	"github.com/spec-kit/backoffice/internal/repository"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

// MenuService builds the authorization-scoped module tree.
type MenuService struct {
	modules repository.ModuleRepository
	logger  *zap.Logger
}

// NewMenuService constructs the service.
func NewMenuService(modules repository.ModuleRepository, logger *zap.Logger) *MenuService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuService{modules: modules, logger: logger.Named("menu")}
}

// TreeFor returns the modules a holder of privileges may open. Leaves
// requiring a privilege not held are dropped, and so are groups left empty.
func (s *MenuService) TreeFor(ctx context.Context, privileges []string) ([]domain.ModuleNode, error) {
	held := make(map[string]struct{}, len(privileges))
	for _, p := range privileges {
		held[p] = struct{}{}
	}
	return s.build(ctx, func(rec domain.ModuleRecord) bool {
		if rec.Privilege == "" {
			return true
		}
		_, ok := held[rec.Privilege]
		return ok
	})
}

// FullTree returns every module regardless of privilege.
func (s *MenuService) FullTree(ctx context.Context) ([]domain.ModuleNode, error) {
	return s.build(ctx, func(domain.ModuleRecord) bool { return true })
}

func (s *MenuService) build(ctx context.Context, allow func(domain.ModuleRecord) bool) ([]domain.ModuleNode, error) {
	records, err := s.modules.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	known := make(map[string]struct{}, len(records))
	children := make(map[string][]domain.ModuleRecord)
	for _, rec := range records {
		known[rec.Name] = struct{}{}
	}
	for _, rec := range records {
		if rec.ParentName != "" {
			if _, ok := known[rec.ParentName]; !ok {
				s.logger.Warn("module parent missing; skipping", zap.String("module", rec.Name), zap.String("parent", rec.ParentName))
				continue
			}
		}
		children[rec.ParentName] = append(children[rec.ParentName], rec)
	}
	for parent := range children {
		sortRecords(children[parent])
	}

	tree := s.assemble(children, "", allow, map[string]bool{})
	if tree == nil {
		tree = []domain.ModuleNode{}
	}
	if err := navigation.Validate(tree); err != nil {
		s.logger.Error("module catalogue violates tree contract", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return tree, nil
}

// assemble turns the records under parent into nodes. visiting guards against
// parent cycles in stored data.
func (s *MenuService) assemble(children map[string][]domain.ModuleRecord, parent string, allow func(domain.ModuleRecord) bool, visiting map[string]bool) []domain.ModuleNode {
	var nodes []domain.ModuleNode
	for _, rec := range children[parent] {
		if !allow(rec) || visiting[rec.Name] {
			continue
		}
		node := domain.ModuleNode{Name: rec.Name, Title: rec.Title, Icon: rec.Icon}
		if rec.Path != "" {
			node.Path = rec.Path
			nodes = append(nodes, node)
			continue
		}

		visiting[rec.Name] = true
		kids := s.assemble(children, rec.Name, allow, visiting)
		delete(visiting, rec.Name)
		if len(kids) == 0 {
			continue
		}
		node.Children = kids
		nodes = append(nodes, node)
	}
	return nodes
}

func sortRecords(records []domain.ModuleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Position != records[j].Position {
			return records[i].Position < records[j].Position
		}
		return records[i].Name < records[j].Name
	})
}
