package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/app/repositories"
	"github.com/shashiranjanraj/foodexplorer/pkg/auth"
	"github.com/shashiranjanraj/foodexplorer/pkg/event"
	"github.com/shashiranjanraj/foodexplorer/pkg/http"
	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
	"github.com/shashiranjanraj/foodexplorer/pkg/metrics"
	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
)

// ErrNotSignedIn is returned by operations that need an identity.
var ErrNotSignedIn = errors.New("services: not signed in")

const (
	msgSignInFailed  = "Não foi possível entrar. Por favor, tente novamente."
	msgProfileFailed = "Não foi possível atualizar o perfil. Por favor, tente novamente."
	msgProfileSaved  = "Perfil atualizado!"
)

// SessionService holds who is signed in and their cart.
type SessionService struct {
	api        *api.Client
	identities *repositories.IdentityRepository
	orders     *repositories.OrderRepository
	notify     *notification.Notifier
	bus        *event.Bus

	mu       sync.RWMutex
	identity models.Identity
	order    *models.Order
}

func NewSessionService(
	client *api.Client,
	identities *repositories.IdentityRepository,
	orders *repositories.OrderRepository,
	notify *notification.Notifier,
	bus *event.Bus,
) *SessionService {
	return &SessionService{
		api:        client,
		identities: identities,
		orders:     orders,
		notify:     notify,
		bus:        bus,
	}
}

// Identity returns the current identity; SignedOut when nobody is signed in.
func (s *SessionService) Identity() models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Order returns the session's cart. ok is false for admins and when signed out.
func (s *SessionService) Order() (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.order == nil {
		return models.Order{}, false
	}
	return *s.order, true
}

// Auth is the request context for authenticated API calls.
func (s *SessionService) Auth() http.Auth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return http.Auth{Token: s.identity.Token}
}

// SyncOrder replaces the in-memory cart after another service rewrote the
// cache.
func (s *SessionService) SyncOrder(order models.Order) {
	s.mu.Lock()
	s.order = &order
	s.mu.Unlock()
}

// SignIn exchanges credentials for a token and persists the session. On
// failure nothing is persisted and the user is told why.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (err error) {
	log := logger.WithCtx(ctx)
	defer func() { metrics.RecordSession("sign_in", err) }()

	session, err := s.api.CreateSession(ctx, email, password)
	if err != nil {
		log.Error("session: sign in failed", "email", email, "error", err)
		s.notifyFailure(err, msgSignInFailed)
		return err
	}

	isAdmin, err := auth.IsAdmin(session.Token)
	if err != nil {
		log.Error("session: token rejected", "error", err)
		s.notify.Error(msgSignInFailed)
		return err
	}

	var order *models.Order
	if !isAdmin {
		o, err := s.orders.ForUser(ctx, session.User.ID)
		if err != nil {
			log.Error("session: load order", "error", err)
			s.notify.Error(msgSignInFailed)
			return err
		}
		order = &o
	}

	if err := s.identities.Save(ctx, session.User, session.Token); err != nil {
		log.Error("session: persist identity", "error", err)
		s.notify.Error(msgSignInFailed)
		return err
	}

	user := session.User
	s.mu.Lock()
	s.identity = models.Identity{User: &user, Token: session.Token, IsAdmin: isAdmin}
	s.order = order
	s.mu.Unlock()

	log.Info("session: signed in", "user_id", user.ID, "admin", isAdmin)
	s.bus.Fire(event.SessionSignedIn, s.Identity())
	return nil
}

// SignOut forgets the identity. The cached order stays on the device so the
// same user finds their cart on the next sign-in.
func (s *SessionService) SignOut(ctx context.Context) (err error) {
	defer func() { metrics.RecordSession("sign_out", err) }()

	if err := s.identities.Clear(ctx); err != nil {
		return fmt.Errorf("session: sign out: %w", err)
	}

	s.mu.Lock()
	s.identity = models.SignedOut
	s.order = nil
	s.mu.Unlock()

	logger.WithCtx(ctx).Info("session: signed out")
	s.bus.Fire(event.SessionSignedOut, nil)
	return nil
}

// UpdateProfile uploads avatar (when given) before sending the profile, so
// the saved user carries the new file name.
func (s *SessionService) UpdateProfile(ctx context.Context, user models.User, avatar *api.Upload) (err error) {
	log := logger.WithCtx(ctx)
	defer func() { metrics.RecordSession("update_profile", err) }()

	if !s.Identity().Valid() {
		s.notify.Error(msgProfileFailed)
		return ErrNotSignedIn
	}
	a := s.Auth()

	if avatar != nil {
		name, err := s.api.UploadAvatar(ctx, a, *avatar)
		if err != nil {
			log.Error("session: upload avatar", "error", err)
			s.notifyFailure(err, msgProfileFailed)
			return err
		}
		user.Avatar = name
	}

	if err := s.api.UpdateUser(ctx, a, user); err != nil {
		log.Error("session: update profile", "error", err)
		s.notifyFailure(err, msgProfileFailed)
		return err
	}

	if err := s.identities.SaveUser(ctx, user); err != nil {
		log.Error("session: persist profile", "error", err)
		s.notify.Error(msgProfileFailed)
		return err
	}

	s.mu.Lock()
	s.identity.User = &user
	s.mu.Unlock()

	s.notify.Success(msgProfileSaved)
	return nil
}

// Restore rehydrates the session from the store. A missing or partial
// identity leaves the client signed out; so does a token that cannot be
// decoded, which is logged.
func (s *SessionService) Restore(ctx context.Context) error {
	log := logger.WithCtx(ctx)

	user, token, ok, err := s.identities.Load(ctx)
	if err != nil {
		return fmt.Errorf("session: restore: %w", err)
	}
	if !ok {
		return nil
	}

	isAdmin, err := auth.IsAdmin(token)
	if err != nil {
		log.Warn("session: stored token is malformed, staying signed out", "error", err)
		return nil
	}

	var order *models.Order
	if o, found, err := s.orders.Find(ctx); err != nil {
		log.Warn("session: cached order unreadable", "error", err)
	} else if found {
		order = &o
	}

	s.mu.Lock()
	s.identity = models.Identity{User: user, Token: token, IsAdmin: isAdmin}
	s.order = order
	s.mu.Unlock()

	log.Debug("session: restored", "user_id", user.ID, "admin", isAdmin)
	return nil
}

// notifyFailure shows the server's message when it sent one, fallback
// otherwise.
func (s *SessionService) notifyFailure(err error, fallback string) {
	if msg, ok := http.ServerMessage(err); ok {
		s.notify.Error(msg)
		return
	}
	s.notify.Error(fallback)
}
