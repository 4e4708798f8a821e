package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/backoffice/internal/domain"
)

// ModuleRepository reads the stored module catalogue.
type ModuleRepository interface {
	List(ctx context.Context) ([]domain.ModuleRecord, error)
}

type moduleRepository struct {
	pool *pgxpool.Pool
}

// NewModuleRepository returns a Postgres-backed implementation.
func NewModuleRepository(pool *pgxpool.Pool) ModuleRepository {
	return &moduleRepository{pool: pool}
}

func (r *moduleRepository) List(ctx context.Context) ([]domain.ModuleRecord, error) {
	const query = `
        SELECT name, title, path, icon, parent_name, position, privilege
        FROM modules
        ORDER BY position, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ModuleRecord
	for rows.Next() {
		var (
			rec                         domain.ModuleRecord
			path, icon, parent, privReq *string
		)
		if err := rows.Scan(&rec.Name, &rec.Title, &path, &icon, &parent, &rec.Position, &privReq); err != nil {
			return nil, err
		}
		rec.Path = deref(path)
		rec.Icon = deref(icon)
		rec.ParentName = deref(parent)
		rec.Privilege = deref(privReq)
		result = append(result, rec)
	}
	return result, rows.Err()
}
