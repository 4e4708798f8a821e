package repository

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/backoffice/internal/domain"
)

// MemoryStaffRepository serves staff from process memory. It backs tests and
// servers started without POSTGRES_DSN. Misses return pgx.ErrNoRows so callers
// handle both implementations the same way.
type MemoryStaffRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.StaffMember
	nextID int
}

// NewMemoryStaffRepository builds a repository holding the given members.
func NewMemoryStaffRepository(members ...domain.StaffMember) *MemoryStaffRepository {
	r := &MemoryStaffRepository{byID: make(map[string]*domain.StaffMember)}
	for i := range members {
		m := members[i]
		_ = r.Create(context.Background(), &m)
	}
	return r
}

func (r *MemoryStaffRepository) Create(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if staff.ID == "" {
		r.nextID++
		staff.ID = strconv.Itoa(r.nextID)
	} else if n, err := strconv.Atoi(staff.ID); err == nil && n > r.nextID {
		r.nextID = n
	}
	now := time.Now().UTC()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	staff.UpdatedAt = now
	cp := cloneStaff(staff)
	r.byID[staff.ID] = cp
	return nil
}

func (r *MemoryStaffRepository) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	staff, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneStaff(staff), nil
}

func (r *MemoryStaffRepository) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, staff := range r.byID {
		if strings.EqualFold(staff.Email, email) {
			return cloneStaff(staff), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func cloneStaff(s *domain.StaffMember) *domain.StaffMember {
	cp := *s
	if s.Designation != nil {
		d := *s.Designation
		cp.Designation = &d
	}
	cp.Privileges = append([]string(nil), s.Privileges...)
	return &cp
}

// MemoryModuleRepository serves a fixed module catalogue.
type MemoryModuleRepository struct {
	records []domain.ModuleRecord
}

// NewMemoryModuleRepository builds a repository over records.
func NewMemoryModuleRepository(records ...domain.ModuleRecord) *MemoryModuleRepository {
	return &MemoryModuleRepository{records: append([]domain.ModuleRecord(nil), records...)}
}

func (r *MemoryModuleRepository) List(context.Context) ([]domain.ModuleRecord, error) {
	return append([]domain.ModuleRecord(nil), r.records...), nil
}
