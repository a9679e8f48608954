package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"unicode/utf8"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/repository"
)

const (
	UsernameMinLen  = 3
	UsernameMaxLen  = 50
	EmailMaxLen     = 100
	PasswordMinLen  = 6
	TokenTypeBearer = "bearer"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService covers registration, login, token authentication and
// account deletion.
type AuthService struct {
	store  db.Store
	repos  repository.Manager
	hasher *PasswordHasher
	tokens *TokenManager
	audit  *AuditService
}

type AuthOption func(*AuthService)

// WithAudit records registrations, logins and deletions.
func WithAudit(a *AuditService) AuthOption {
	return func(s *AuthService) { s.audit = a }
}

func NewAuthService(store db.Store, repos repository.Manager, hasher *PasswordHasher, tokens *TokenManager, opts ...AuthOption) *AuthService {
	s := &AuthService{
		store:  store,
		repos:  repos,
		hasher: hasher,
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) auditUser(ctx context.Context, user *domain.User, action string, details map[string]any) {
	if s.audit != nil {
		s.audit.LogUser(ctx, user, action, details)
	}
}

func validateRegistration(in RegisterInput) error {
	if n := utf8.RuneCountInString(in.Username); n < UsernameMinLen || n > UsernameMaxLen {
		return domain.Validation(fmt.Sprintf("username must be between %d and %d characters", UsernameMinLen, UsernameMaxLen))
	}
	if len(in.Email) > EmailMaxLen {
		return domain.Validation(fmt.Sprintf("email must be at most %d characters", EmailMaxLen))
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return domain.Validation("email is not a valid address")
	}
	if utf8.RuneCountInString(in.Password) < PasswordMinLen {
		return domain.Validation(fmt.Sprintf("password must be at least %d characters", PasswordMinLen))
	}
	if len(in.Password) > MaxPasswordBytes {
		return domain.Validation(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}

// Register creates a user. The uniqueness checks and the insert share one
// transaction; a rejected registration writes nothing.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: digest,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := s.repos.Users(tx)

		taken, err := users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrUsernameTaken
		}

		taken, err = users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}

		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("user registered", "user_id", user.ID)
	s.auditUser(ctx, user, domain.AuditActionRegister, nil)
	return user, nil
}

// Login returns an access token for valid credentials. An unknown username
// and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	user, err := s.repos.Users(s.store).GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.hasher.VerifyDummy(password)
		if s.audit != nil {
			s.audit.Log(ctx, nil, truncate(username, UsernameMaxLen), domain.AuditActionLoginFailed,
				map[string]any{"reason": "unknown_user"})
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		logger.WithContext(ctx).Info("login rejected", "user_id", user.ID)
		s.auditUser(ctx, user, domain.AuditActionLoginFailed, map[string]any{"reason": "bad_password"})
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.auditUser(ctx, user, domain.AuditActionLogin, nil)
	return &AccessToken{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	username, err := s.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBadCredentials, err)
	}

	user, err := s.repos.Users(s.store).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's tasks and then the user in one
// transaction. The schema cascades as well; deleting tasks first keeps the
// rule explicit.
func (s *AuthService) DeleteAccount(ctx context.Context, user *domain.User) error {
	var removed int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := s.repos.Tasks(tx).DeleteAllByOwner(ctx, user.ID)
		if err != nil {
			return err
		}
		removed = n
		return s.repos.Users(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	logger.WithContext(ctx).Info("user deleted", "user_id", user.ID, "tasks_removed", removed)
	s.auditUser(ctx, user, domain.AuditActionAccountDeleted, map[string]any{"tasks_removed": removed})
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
