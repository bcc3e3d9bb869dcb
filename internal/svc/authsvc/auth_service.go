package authsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	"github.com/mkrupp/smart-interviewer/internal/repo/user"
	"github.com/mkrupp/smart-interviewer/internal/util/encoding"
)

// MinPasswordLength is the minimum number of characters of a new password.
const MinPasswordLength = 6

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// TokenSecret is the HMAC secret for session tokens, at least 32 bytes
	TokenSecret string `env:"TOKEN_SECRET,required,notEmpty"`

	// TokenDuration is the validity of session tokens and cookies
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"168h"`

	// CookieSecure marks the session cookie as Secure
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// BcryptCost is the bcrypt work factor for password hashes
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// AuthService provides account registration, login and session verification.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Tokens   *TokenService
	Cookie   SessionCookie
	Log      logging.Logger

	dummyHash []byte
	now       func() time.Time
}

// NewAuthService creates a new AuthService with the given user repository factory and configuration.
// Returns an error if the signing secret is rejected or the user repository cannot be created.
func NewAuthService(ctx context.Context, repoFactory user.RepositoryFactory, cfg AuthConfig) (*AuthService, error) {
	tokens, err := NewTokenService(cfg.TokenSecret, cfg.TokenDuration)
	if err != nil {
		return nil, fmt.Errorf("new token service: %w", err)
	}

	userRepo, err := repoFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	if err := userRepo.EnsureExists(ctx); err != nil {
		_ = userRepo.Close()

		return nil, fmt.Errorf("ensure user store: %w", err)
	}

	return NewAuthServiceWith(userRepo, tokens, cfg)
}

// NewAuthServiceWith creates an AuthService from already constructed dependencies.
func NewAuthServiceWith(userRepo user.Repository, tokens *TokenService, cfg AuthConfig) (*AuthService, error) {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	if cfg.TokenDuration <= 0 {
		cfg.TokenDuration = DefaultTokenDuration
	}

	// compared against for unknown emails so that both login failures cost one bcrypt round
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("smart-interviewer"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &AuthService{
		Config:   cfg,
		UserRepo: userRepo,
		Tokens:   tokens,
		Cookie: SessionCookie{
			Secure: cfg.CookieSecure,
			MaxAge: cfg.TokenDuration,
		},
		Log:       logging.GetLogger("svc.authsvc.auth_service"),
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// Signup registers a new account and issues its session token.
// Returns a ValidationError for missing fields or a short password,
// and ErrUserAlreadyExists if the email is taken.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (_ domain.PublicUser, _ string, err error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	log := s.Log.With(logging.Group("user", "email", email))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "signup failed", "error", err)
		} else {
			log.InfoContext(ctx, "user signed up")
		}
	}()

	if name == "" || email == "" || req.Password == "" {
		return domain.PublicUser{}, "", domain.NewValidationError("Name, email, and password are required.")
	}

	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return domain.PublicUser{}, "", domain.NewValidationError(
			"Password must be at least %d characters.", MinPasswordLength)
	}

	if _, exists, err := s.UserRepo.FindByEmail(ctx, email); err != nil {
		return domain.PublicUser{}, "", fmt.Errorf("find user: %w", err)
	} else if exists {
		return domain.PublicUser{}, "", domain.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.Config.BcryptCost)
	if err != nil {
		return domain.PublicUser{}, "", fmt.Errorf("hash password: %w", err)
	}

	account := &domain.User{
		ID:           encoding.NewID("user_"),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.UserRepo.CreateUser(ctx, account); err != nil {
		return domain.PublicUser{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issue(account.Public())
	if err != nil {
		return domain.PublicUser{}, "", err
	}

	return account.Public(), token, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (_ domain.PublicUser, _ string, err error) {
	email := normalizeEmail(req.Email)

	log := s.Log.With(logging.Group("user", "email", email))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "login failed", "error", err)
		} else {
			log.InfoContext(ctx, "user logged in")
		}
	}()

	if email == "" || req.Password == "" {
		return domain.PublicUser{}, "", domain.NewValidationError("Email and password are required.")
	}

	account, found, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return domain.PublicUser{}, "", fmt.Errorf("find user: %w", err)
	}

	if !found {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))

		return domain.PublicUser{}, "", errors.Join(domain.ErrInvalidCredentials, domain.ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return domain.PublicUser{}, "", errors.Join(domain.ErrInvalidCredentials, err)
	}

	token, err := s.issue(account.Public())
	if err != nil {
		return domain.PublicUser{}, "", err
	}

	return account.Public(), token, nil
}

// VerifyRequest resolves the session of a request from its session cookie.
// Missing and invalid tokens both report ok=false.
func (s *AuthService) VerifyRequest(r *http.Request) (domain.SessionClaims, bool) {
	token, ok := s.Cookie.Read(r)
	if !ok {
		return domain.SessionClaims{}, false
	}

	claims, ok := s.Tokens.Verify(token)
	if !ok {
		s.Log.DebugContext(r.Context(), "rejected session token")
	}

	return claims, ok
}

// Close releases resources held by the service, such as database connections.
// Returns an error if cleanup fails.
func (s *AuthService) Close() error {
	if err := s.UserRepo.Close(); err != nil {
		return fmt.Errorf("close user repo: %w", err)
	}

	return nil
}

func (s *AuthService) issue(u domain.PublicUser) (string, error) {
	token, err := s.Tokens.Issue(domain.SessionClaims(u))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
