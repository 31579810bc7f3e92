package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var hashPassword = func(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

var comparePassword = bcrypt.CompareHashAndPassword

// dummyHash is compared against when the email is unknown, so that path
// costs as much as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := hashPassword("filesmanager-unknown-user")
	if err != nil {
		return []byte("$2a$10$")
	}
	return h
})

type AuthService struct {
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
	sessionTTL  time.Duration
	logger      logging.Logger
}

func NewAuthService(m repomanager.RepositoryManager, store sessions.Store, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		repomanager: m,
		sessions:    store,
		sessionTTL:  cfg.SessionTTL,
		logger:      logger.With("module", "auth"),
	}
}

// Register creates a user. The email must not be taken yet.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: missing email", common.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: missing password", common.ErrValidation)
	}

	repo := s.repomanager.Users()

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := hashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password too long", common.ErrValidation)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		// the unique index catches a concurrent registration of the same email
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Connect checks Basic credentials and opens a session. Every credential
// failure yields common.ErrUnauthenticated.
func (s *AuthService) Connect(ctx context.Context, authorization string) (string, error) {
	email, password, ok := parseBasicAuth(authorization)
	if !ok {
		return "", common.ErrUnauthenticated
	}

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = comparePassword(dummyHash(), []byte(password))
			return "", common.ErrUnauthenticated
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	if comparePassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrUnauthenticated
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionKey(token), user.ID, s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Disconnect closes the session. Closing an unknown or already closed
// session fails with common.ErrUnauthenticated.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrUnauthenticated
	}

	deleted, err := s.sessions.Delete(ctx, sessionKey(token))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !deleted {
		return common.ErrUnauthenticated
	}
	return nil
}

// ResolveSession returns the user behind token. It never extends the
// session lifetime.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthenticated
	}

	userID, found, err := s.sessions.Get(ctx, sessionKey(token))
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if !found {
		return "", common.ErrUnauthenticated
	}
	return userID, nil
}

// Me returns the user owning the session.
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func sessionKey(token string) string {
	return common.SessionKeyPrefix + token
}

// parseBasicAuth splits a "Basic base64(email:password)" header. The
// password may itself contain colons.
func parseBasicAuth(header string) (email, password string, ok bool) {
	scheme, encoded, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}

	email, password, found = strings.Cut(string(decoded), ":")
	if !found || email == "" {
		return "", "", false
	}
	return email, password, true
}
