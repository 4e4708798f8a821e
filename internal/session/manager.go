// Package session owns login, logout and session restore against the
// credential store and the back-office API.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/authapi"
	"github.com/spec-kit/backoffice/internal/credstore"
	"github.com/spec-kit/backoffice/internal/domain"
	"github.com/spec-kit/backoffice/internal/events"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

// ErrBusy is returned when login, restore or logout is already running.
var ErrBusy = apperrors.NewDomainError(apperrors.CodeBusy, "another session operation is in progress", http.StatusConflict, nil)

// TreeRefresher reloads the module tree for a freshly established session.
type TreeRefresher interface {
	Refresh(ctx context.Context, token string) ([]domain.ModuleNode, error)
}

// Options groups the Manager's collaborators.
type Options struct {
	Store   credstore.Store
	API     authapi.Client
	Modules TreeRefresher
	Events  events.Dispatcher
	Logger  *zap.Logger
	// Timeout bounds each operation; zero means no bound.
	Timeout time.Duration
}

// Manager is the only writer of the in-memory session. Login, Restore and
// Logout are mutually exclusive; an overlapping call fails fast with ErrBusy.
type Manager struct {
	store   credstore.Store
	api     authapi.Client
	modules TreeRefresher
	events  events.Dispatcher
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.RWMutex
	current domain.Session
	busy    atomic.Bool
}

// NewManager builds a Manager.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   opts.Store,
		api:     opts.API,
		modules: opts.Modules,
		events:  opts.Events,
		logger:  logger.Named("session"),
		timeout: opts.Timeout,
	}
}

// Current returns a copy of the in-memory session.
func (m *Manager) Current() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Authenticated reports whether a session token is held.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Authenticated()
}

// Busy reports whether an operation is in flight.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// Login authenticates against the API. On success every session field is
// written to the store, the session is installed and the module tree is
// refreshed before Login returns. On failure all session keys are removed,
// the session is left unset and the typed failure is returned.
func (m *Manager) Login(ctx context.Context, identifier, secret string) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	payload, err := m.api.Login(ctx, identifier, secret)
	if err != nil {
		m.discard(ctx)
		m.logger.Info("login failed", zap.String("code", apperrors.CodeOf(err)))
		return classify(ctx, err)
	}

	sess := FromPayload(payload)
	if err := m.persist(ctx, sess); err != nil {
		m.discard(ctx)
		return apperrors.NewInternalError(fmt.Errorf("persist session: %w", err))
	}

	m.set(sess)
	m.logger.Info("logged in", zap.String("user_id", string(sess.UserID)))
	m.publish(ctx, events.EventSessionStarted, sess)
	m.refreshModules(ctx, sess.Token)
	return nil
}

// Restore rebuilds the session from the store. It reports false, touching no
// other key, when no token is stored. Every other field goes through its
// parse-or-default decoder: a corrupt value is deleted and the field keeps its
// zero value. Only a failure to read the token is returned as an error.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return false, ErrBusy
	}
	defer m.busy.Store(false)

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	token, err := m.store.Get(ctx, KeyToken)
	switch {
	case errors.Is(err, credstore.ErrNotFound):
		return false, nil
	case errors.Is(err, credstore.ErrCorrupt):
		m.logger.Warn("stored token corrupt; discarding", zap.Error(err))
		m.deleteKey(ctx, KeyToken)
		return false, nil
	case err != nil:
		return false, classify(ctx, fmt.Errorf("read token: %w", err))
	}
	if token == "" {
		return false, nil
	}

	sess := domain.Session{Token: token}
	for _, f := range fields {
		if f.key == KeyToken {
			continue
		}
		m.restoreField(ctx, &sess, f)
	}

	m.set(sess)
	m.logger.Info("session restored", zap.String("user_id", string(sess.UserID)))
	m.publish(ctx, events.EventSessionRestored, sess)
	m.refreshModules(ctx, sess.Token)
	return true, nil
}

// Logout tells the API the session ended, then removes every session key and
// clears the in-memory session whatever the API said. API failures are only
// logged; store delete failures are returned.
func (m *Manager) Logout(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	sess := m.Current()
	if sess.Token != "" && m.api != nil {
		if err := m.api.Logout(ctx, sess.Token); err != nil {
			m.logger.Warn("server logout failed; clearing local session anyway", zap.Error(err))
		}
	}

	err := m.discard(ctx)
	m.set(domain.Session{})
	m.logger.Info("logged out", zap.String("user_id", string(sess.UserID)))
	m.publish(ctx, events.EventSessionCleared, sess)
	return err
}

func (m *Manager) restoreField(ctx context.Context, sess *domain.Session, f field) {
	raw, err := m.store.Get(ctx, f.key)
	switch {
	case errors.Is(err, credstore.ErrNotFound):
		return
	case errors.Is(err, credstore.ErrCorrupt):
	case err != nil:
		m.logger.Warn("session field unreadable; using default", zap.String("key", f.key), zap.Error(err))
		return
	default:
		err = f.decode(sess, raw)
		if err == nil {
			return
		}
	}
	m.logger.Warn("session field corrupt; discarding", zap.String("key", f.key), zap.Error(err))
	m.deleteKey(ctx, f.key)
}

func (m *Manager) persist(ctx context.Context, sess domain.Session) error {
	for _, f := range fields {
		value, err := f.encode(sess)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.key, err)
		}
		if err := m.store.Set(ctx, f.key, value); err != nil {
			return fmt.Errorf("store %s: %w", f.key, err)
		}
	}
	return nil
}

// discard deletes every session key. It keeps going past failures and ignores
// the operation deadline so a timed-out login still cleans up.
func (m *Manager) discard(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for _, f := range fields {
		if err := m.store.Delete(ctx, f.key); err != nil {
			m.logger.Warn("delete session key failed", zap.String("key", f.key), zap.Error(err))
			errs = append(errs, fmt.Errorf("delete %s: %w", f.key, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) deleteKey(ctx context.Context, key string) {
	if err := m.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		m.logger.Warn("delete session key failed", zap.String("key", key), zap.Error(err))
	}
}

func (m *Manager) set(sess domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = sess
}

// refreshModules reloads the tree. Failures are logged by the registry and
// leave the previous tree in place, so they do not fail the operation.
func (m *Manager) refreshModules(ctx context.Context, token string) {
	if m.modules == nil {
		return
	}
	_, _ = m.modules.Refresh(ctx, token)
}

func (m *Manager) publish(ctx context.Context, eventType events.EventType, sess domain.Session) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(context.WithoutCancel(ctx), events.NewEvent(eventType, string(sess.UserID))); err != nil {
		m.logger.Warn("session event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// classify reports a deadline hit during the operation as a timeout even when
// the collaborator returned some other error.
func classify(ctx context.Context, err error) error {
	if apperrors.HasCode(err, apperrors.CodeTimeout) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeout(err)
	}
	return err
}
