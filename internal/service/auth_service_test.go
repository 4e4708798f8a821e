package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/backoffice/internal/auth"
	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/repository"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*AuthService, *auth.MemoryRevocationList) {
	t.Helper()
	hash, err := auth.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)

	revoked := auth.NewMemoryRevocationList()
	svc := NewAuthService(AuthDependencies{
		StaffRepo:   repository.NewMemoryStaffRepository(repository.SeedStaff(hash)...),
		Tokens:      auth.NewTokenManager("test-secret", time.Hour),
		Revocations: revoked,
	})
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc, revoked
}

func TestLoginReturnsSessionPayload(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Login(context.Background(), "HR@backoffice.local", "secret")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.ID("2"), resp.User.ID)
	assert.Equal(t, "Hal Recruiter", resp.User.Name)
	assert.Equal(t, "staff", resp.User.Category)
	require.NotNil(t, resp.User.Designation)
	assert.Equal(t, "Recruiter", resp.User.Designation.Title)
	assert.Equal(t, "2024-05-01", resp.CurrentDay)
	assert.Equal(t, []string{"hr.employees", "hr.leaves"}, resp.Privileges)
	assert.Equal(t, domain.ID("2"), resp.Branch)

	claims, err := svc.TokenManager().ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.StaffID)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	cases := []struct {
		name       string
		identifier string
		secret     string
		code       string
	}{
		{"wrong secret", "admin@backoffice.local", "nope", apperrors.CodeInvalidCredentials},
		{"unknown account", "ghost@backoffice.local", "secret", apperrors.CodeInvalidCredentials},
		{"inactive account", "former@backoffice.local", "secret", apperrors.CodeInvalidCredentials},
		{"empty identifier", "  ", "secret", apperrors.CodeValidation},
		{"empty secret", "admin@backoffice.local", "", apperrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), tc.identifier, tc.secret)
			assert.Nil(t, resp)
			assert.True(t, apperrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, revoked := newAuthService(t)
	resp, err := svc.Login(context.Background(), "admin@backoffice.local", "secret")
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))

	ok, err := revoked.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
