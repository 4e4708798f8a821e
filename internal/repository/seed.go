package repository

import "github.com/spec-kit/backoffice/internal/domain"

// SeedModules is the demo catalogue served when no database is configured.
func SeedModules() []domain.ModuleRecord {
	return []domain.ModuleRecord{
		{Name: "Dashboard", Title: "Dashboard", Path: "/dashboard", Icon: "dashboard", Position: 0},
		{Name: "HR", Title: "Human Resources", Icon: "people", Position: 1},
		{Name: "Employees", Title: "Employees", Path: "/hr/employees", Icon: "person", ParentName: "HR", Position: 0, Privilege: "hr.employees"},
		{Name: "Leaves", Title: "Leaves", Path: "/hr/leaves", Icon: "calendar", ParentName: "HR", Position: 1, Privilege: "hr.leaves"},
		{Name: "Payroll", Title: "Payroll", Icon: "money", ParentName: "HR", Position: 2},
		{Name: "Payslips", Title: "Payslips", Path: "/hr/payroll/payslips", Icon: "receipt", ParentName: "Payroll", Position: 0, Privilege: "hr.payroll"},
		{Name: "CRM", Title: "CRM", Icon: "handshake", Position: 2},
		{Name: "Customers", Title: "Customers", Path: "/crm/customers", Icon: "people", ParentName: "CRM", Position: 0, Privilege: "crm.customers"},
		{Name: "Leads", Title: "Leads", Path: "/crm/leads", Icon: "star", ParentName: "CRM", Position: 1, Privilege: "crm.leads"},
		{Name: "Inventory", Title: "Inventory", Icon: "box", Position: 3},
		{Name: "Stock", Title: "Stock", Path: "/inventory/stock", Icon: "box", ParentName: "Inventory", Position: 0, Privilege: "inventory.stock"},
	}
}

// SeedStaff returns the demo accounts. passwordHash is applied to each of them.
func SeedStaff(passwordHash string) []domain.StaffMember {
	return []domain.StaffMember{
		{
			ID:           "1",
			Name:         "Ada Admin",
			Email:        "admin@backoffice.local",
			PasswordHash: passwordHash,
			Category:     domain.StaffCategoryAdmin,
			Designation:  &domain.Designation{ID: "1", Title: "Operations Lead", Department: "Operations"},
			BranchID:     "1",
			Gender:       "f",
			Privileges:   []string{"hr.employees", "hr.leaves", "hr.payroll", "crm.customers", "crm.leads", "inventory.stock"},
			Active:       true,
		},
		{
			ID:           "2",
			Name:         "Hal Recruiter",
			Email:        "hr@backoffice.local",
			PasswordHash: passwordHash,
			Category:     domain.StaffCategoryStaff,
			Designation:  &domain.Designation{ID: "4", Title: "Recruiter", Department: "HR"},
			BranchID:     "2",
			Gender:       "m",
			Privileges:   []string{"hr.employees", "hr.leaves"},
			Active:       true,
		},
		{
			ID:           "3",
			Name:         "Former Employee",
			Email:        "former@backoffice.local",
			PasswordHash: passwordHash,
			Category:     domain.StaffCategoryStaff,
			Active:       false,
		},
	}
}
