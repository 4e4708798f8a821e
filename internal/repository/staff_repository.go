package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/backoffice/internal/domain"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, email, password_hash, category, designation_id, designation_title,
        designation_department, branch_id, gender, avatar, privileges, active_flag, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff (name, email, password_hash, category, designation_id, designation_title,
            designation_department, branch_id, gender, avatar, privileges, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	var desigID, desigTitle, desigDept *string
	if d := staff.Designation; d != nil {
		id := string(d.ID)
		desigID, desigTitle, desigDept = &id, &d.Title, &d.Department
	}
	privileges := staff.Privileges
	if privileges == nil {
		privileges = []string{}
	}

	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Category,
		desigID,
		desigTitle,
		desigDept,
		staff.BranchID,
		staff.Gender,
		staff.Avatar,
		privileges,
		staff.Active,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id=$1`
	return scanStaff(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE lower(email)=lower($1)`
	return scanStaff(r.pool.QueryRow(ctx, query, email))
}

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var (
		staff                        domain.StaffMember
		desigID, desigTitle, desigDp *string
	)
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Category,
		&desigID,
		&desigTitle,
		&desigDp,
		&staff.BranchID,
		&staff.Gender,
		&staff.Avatar,
		&staff.Privileges,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desigID != nil || desigTitle != nil {
		staff.Designation = &domain.Designation{
			ID:         domain.ID(deref(desigID)),
			Title:      deref(desigTitle),
			Department: deref(desigDp),
		}
	}
	return &staff, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
