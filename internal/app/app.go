// Package app owns the client's long-lived collaborators: the session manager,
// the module registry, the router and the drawer. Nothing else writes them.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/authapi"
	"github.com/spec-kit/backoffice/internal/credstore"
	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/events"
	"github.com/spec-kit/backoffice/internal/navigation"
	"github.com/spec-kit/backoffice/internal/registry"
	"github.com/spec-kit/backoffice/internal/session"
)

// DefaultEntryRoute is where an unauthenticated client starts.
const DefaultEntryRoute = "/login"

// Deps are the external collaborators of an App.
type Deps struct {
	Store      credstore.Store
	API        authapi.Client
	Logger     *zap.Logger
	Timeout    time.Duration
	EntryRoute string
	Icons      *navigation.Icons
}

// App is the explicitly owned client context.
type App struct {
	Events   events.Dispatcher
	Registry *registry.Registry
	Session  *session.Manager
	Router   *navigation.Router
	Drawer   *navigation.Drawer

	entry  string
	logger *zap.Logger
}

// New wires an App. The registry and the app itself both listen for the
// session-cleared event, so a logout from any caller drops the tree and
// returns the router to the entry route.
func New(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	entry := deps.EntryRoute
	if entry == "" {
		entry = DefaultEntryRoute
	}
	icons := navigation.DefaultIcons()
	if deps.Icons != nil {
		icons = *deps.Icons
	}

	dispatcher := events.NewInMemoryDispatcher()
	reg := registry.New(deps.API, dispatcher, logger)
	router := navigation.NewRouter(entry)

	a := &App{
		Events:   dispatcher,
		Registry: reg,
		Router:   router,
		Drawer:   navigation.NewDrawer(router, icons),
		Session: session.NewManager(session.Options{
			Store:   deps.Store,
			API:     deps.API,
			Modules: reg,
			Events:  dispatcher,
			Logger:  logger,
			Timeout: deps.Timeout,
		}),
		entry:  entry,
		logger: logger.Named("app"),
	}
	dispatcher.Subscribe(events.EventSessionCleared, a.handleSessionCleared)
	return a
}

// Bootstrap restores a stored session and, when one exists, registers the
// routes of its module tree. It reports whether the client is authenticated.
func (a *App) Bootstrap(ctx context.Context) (bool, error) {
	ok, err := a.Session.Restore(ctx)
	if err != nil || !ok {
		return false, err
	}
	a.SyncNavigation()
	return true, nil
}

// Login signs in and registers the routes of the fetched tree.
func (a *App) Login(ctx context.Context, identifier, secret string) error {
	if err := a.Session.Login(ctx, identifier, secret); err != nil {
		return err
	}
	a.SyncNavigation()
	return nil
}

// Logout ends the session. Navigation is reset by the session-cleared handler.
func (a *App) Logout(ctx context.Context) error {
	return a.Session.Logout(ctx)
}

// ReloadTree refetches the module tree for the current session. It does not
// touch the drawer, so it is safe to call off the UI loop; call
// SyncNavigation afterwards from the owner of the drawer.
func (a *App) ReloadTree(ctx context.Context) ([]domain.ModuleNode, error) {
	token := a.Session.Current().Token
	if token == "" {
		return nil, nil
	}
	return a.Registry.Refresh(ctx, token)
}

// SyncNavigation registers the registry's routes and hands its tree to the
// drawer. It does nothing once the session is gone.
func (a *App) SyncNavigation() {
	if !a.Session.Authenticated() {
		return
	}
	a.Router.Register(a.Registry.Routes())
	a.Drawer.SetTree(a.Registry.Tree())
}

// EntryRoute returns the unauthenticated entry route.
func (a *App) EntryRoute() string {
	return a.entry
}

func (a *App) handleSessionCleared(context.Context, events.Event) error {
	a.Router.Reset(a.entry)
	a.Drawer.SetTree(nil)
	a.Drawer.Close()
	a.logger.Debug("navigation reset to entry route", zap.String("route", a.entry))
	return nil
}
