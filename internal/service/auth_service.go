package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/api/dto"
	"github.com/spec-kit/backoffice/internal/auth"
	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/repository"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

// referenceDayLayout formats the business day returned at login.
const referenceDayLayout = "2006-01-02"

// AuthService coordinates login and logout for staff.
type AuthService struct {
	staff    repository.StaffRepository
	tokenMgr *auth.TokenManager
	revoked  auth.RevocationList
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	StaffRepo   repository.StaffRepository
	Tokens      *auth.TokenManager
	Revocations auth.RevocationList
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		staff:    deps.StaffRepo,
		tokenMgr: deps.Tokens,
		revoked:  deps.Revocations,
		logger:   logger.Named("auth"),
		now:      time.Now,
	}
}

// Login authenticates staff by email and returns the session payload.
// Unknown, inactive and wrong-secret accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*dto.LoginResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, apperrors.NewValidationError("identifier and secret required", nil)
	}

	staff, err := s.staff.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.CompareDecoy(secret)
			return nil, apperrors.NewInvalidCredentials("")
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active {
		s.logger.Info("login refused for inactive staff", zap.String("staff_id", staff.ID))
		return nil, apperrors.NewInvalidCredentials("")
	}
	if err := auth.ComparePassword(staff.PasswordHash, secret); err != nil {
		return nil, apperrors.NewInvalidCredentials("")
	}

	token, meta, err := s.tokenMgr.GenerateToken(staff)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("staff logged in", zap.String("staff_id", staff.ID), zap.String("token_id", meta.ID))

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:          domain.ID(staff.ID),
			Name:        staff.Name,
			Category:    string(staff.Category),
			Designation: staff.Designation,
			Gender:      staff.Gender,
		},
		CurrentDay:  s.now().Format(referenceDayLayout),
		Privileges:  nonNil(staff.Privileges),
		EmployeePic: staff.Avatar,
		Branch:      domain.ID(staff.BranchID),
	}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	meta := claims.Token()
	if s.revoked == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, meta.ID, meta.ExpiresAt); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("staff logged out", zap.String("staff_id", meta.SubjectID), zap.String("token_id", meta.ID))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
