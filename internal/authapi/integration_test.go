package authapi_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/backoffice/internal/api/http"
	"github.com/spec-kit/backoffice/internal/auth"
	"github.com/spec-kit/backoffice/internal/authapi"
	"github.com/spec-kit/backoffice/internal/navigation"
	"github.com/spec-kit/backoffice/internal/repository"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

func newReferenceClient(t *testing.T) *authapi.HTTPClient {
	t.Helper()
	hash, err := auth.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)

	app := httptransport.NewServer(httptransport.ServerDeps{
		Name:        "backoffice-api",
		Staff:       repository.NewMemoryStaffRepository(repository.SeedStaff(hash)...),
		Modules:     repository.NewMemoryModuleRepository(repository.SeedModules()...),
		Tokens:      auth.NewTokenManager("integration", time.Hour),
		Revocations: auth.NewMemoryRevocationList(),
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return authapi.NewHTTPClient(srv.URL, "/modules", srv.Client())
}

func TestClientAgainstReferenceServer(t *testing.T) {
	client := newReferenceClient(t)
	ctx := context.Background()

	payload, err := client.Login(ctx, "hr@backoffice.local", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Hal Recruiter", payload.User.Name)

	tree, err := client.FetchModuleTree(ctx, payload.Token)
	require.NoError(t, err)
	require.NoError(t, navigation.Validate(tree))

	var names []string
	for _, r := range navigation.RoutesFrom(tree) {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Dashboard", "HR", "Employees", "Leaves"}, names)

	require.NoError(t, client.Logout(ctx, payload.Token))

	_, err = client.FetchModuleTree(ctx, payload.Token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "got %v", err)
}

func TestClientReportsRejectedCredentials(t *testing.T) {
	client := newReferenceClient(t)

	_, err := client.Login(context.Background(), "hr@backoffice.local", "wrong")

	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials), "got %v", err)
}
