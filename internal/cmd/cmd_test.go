package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice/internal/api/dto"
	"github.com/spec-kit/backoffice/internal/app"
	"github.com/spec-kit/backoffice/internal/credstore"
	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/tui"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

type stubAPI struct {
	logins int
}

func (s *stubAPI) Login(_ context.Context, identifier, secret string) (*dto.LoginResponse, error) {
	s.logins++
	if secret != "secret" {
		return nil, apperrors.NewInvalidCredentials("wrong secret")
	}
	return &dto.LoginResponse{
		Token:      "token-0123456789",
		User:       dto.UserResponse{ID: "7", Name: "Ada", Category: "admin"},
		CurrentDay: "2024-05-01",
		Privileges: []string{"hr.leaves"},
	}, nil
}

func (s *stubAPI) Logout(context.Context, string) error { return nil }

func (s *stubAPI) FetchModuleTree(context.Context, string) ([]domain.ModuleNode, error) {
	return []domain.ModuleNode{
		{Name: "HR", Title: "HR", Icon: "people", Children: []domain.ModuleNode{
			{Name: "Leaves", Title: "Leaves", Path: "/hr/leaves", Icon: "calendar"},
		}},
		{Name: "CRM", Title: "CRM", Path: "/crm"},
	}, nil
}

// withStubApp points the commands at an in-memory app sharing one store, as
// separate CLI invocations would share the credential file.
func withStubApp(t *testing.T) *stubAPI {
	t.Helper()
	api := &stubAPI{}
	store := credstore.NewMemoryStore()

	prevBuild, prevPrompt := buildApp, prompt
	buildApp = func(context.Context) (*app.App, func(), error) {
		return app.New(app.Deps{Store: store, API: api}), func() {}, nil
	}
	t.Cleanup(func() {
		buildApp, prompt = prevBuild, prevPrompt
		loginIdentifier, loginSecret, loginAttempts = "", "", defaultLoginAttempts
		whoamiJSON, menuExpandAll = false, false
	})
	return api
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	loginIdentifier, loginSecret = "", ""
	whoamiJSON, menuExpandAll = false, false
	return out.String(), err
}

func TestCommandsAreRegistered(t *testing.T) {
	want := map[string]bool{"login": false, "logout": false, "whoami": false, "routes": false, "menu": false, "drawer": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "command %q not registered", name)
	}
}

func TestSessionCommandsEndToEnd(t *testing.T) {
	withStubApp(t)

	out, err := run(t, "whoami")
	assert.ErrorIs(t, err, errNotSignedIn)
	assert.NotContains(t, out, "Ada")

	out, err = run(t, "login", "--identifier", "ada@example.com", "--secret", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada (3 modules)")

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada (7)")
	assert.Contains(t, out, "hr.leaves")
	assert.Contains(t, out, "toke…6789")
	assert.NotContains(t, out, "token-0123456789")

	out, err = run(t, "whoami", "--json")
	require.NoError(t, err)
	var sess domain.Session
	require.NoError(t, json.Unmarshal([]byte(out), &sess))
	assert.Equal(t, domain.ID("7"), sess.UserID)

	out, err = run(t, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "Leaves")
	assert.Contains(t, out, "/hr/leaves")
	assert.Contains(t, out, "/crm")

	out, err = run(t, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "▸")
	assert.NotContains(t, out, "Leaves")

	out, err = run(t, "menu", "--expand")
	require.NoError(t, err)
	assert.Contains(t, out, "  * ")
	assert.Contains(t, out, "Leaves  /hr/leaves")

	out, err = run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = run(t, "routes")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestLoginLoopClearsOnlySecretOnRejection(t *testing.T) {
	api := withStubApp(t)
	a, _, err := buildApp(context.Background())
	require.NoError(t, err)
	client = a
	t.Cleanup(func() { client = nil })

	var calls []tui.Credentials
	var messages []string
	prompt = func(creds *tui.Credentials, message string) error {
		calls = append(calls, *creds)
		messages = append(messages, message)
		if creds.Identifier == "" {
			creds.Identifier = "ada@example.com"
		}
		if len(calls) == 1 {
			creds.Secret = "wrong"
		} else {
			creds.Secret = "secret"
		}
		return nil
	}

	var errOut bytes.Buffer
	creds := tui.Credentials{}
	require.NoError(t, loginLoop(context.Background(), &creds, 3, &errOut))

	require.Len(t, calls, 2)
	assert.Equal(t, tui.Credentials{Identifier: "ada@example.com"}, calls[1])
	assert.Equal(t, []string{"", "wrong secret"}, messages)
	assert.Contains(t, errOut.String(), "sign-in rejected: wrong secret")
	assert.Equal(t, 2, api.logins)
	assert.True(t, client.Session.Authenticated())
}

func TestLoginLoopGivesUpAfterAttempts(t *testing.T) {
	api := withStubApp(t)
	a, _, err := buildApp(context.Background())
	require.NoError(t, err)
	client = a
	t.Cleanup(func() { client = nil })

	prompt = func(creds *tui.Credentials, _ string) error {
		creds.Identifier, creds.Secret = "ada@example.com", "wrong"
		return nil
	}

	err = loginLoop(context.Background(), &tui.Credentials{}, 2, &bytes.Buffer{})

	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials))
	assert.Equal(t, 2, api.logins)
}
