package dto

import "github.com/spec-kit/backoffice/internal/domain"

// LoginRequest payload for POST /login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// UserResponse describes the signed-in employee.
type UserResponse struct {
	ID          domain.ID           `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category,omitempty"`
	Designation *domain.Designation `json:"designation,omitempty"`
	Gender      string              `json:"gender,omitempty"`
}

// LoginResponse is the body of a successful POST /login.
type LoginResponse struct {
	Token       string       `json:"token"`
	User        UserResponse `json:"user"`
	CurrentDay  string       `json:"currentDay,omitempty"`
	Privileges  []string     `json:"privileges"`
	EmployeePic string       `json:"employeePic,omitempty"`
	Branch      domain.ID    `json:"branch,omitempty"`
}

// ErrorBody carries a DomainError across the wire.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorBody the way the error middleware renders it.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
