package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/model"
	"taskhub/internal/util"
	"taskhub/pkg/metrics"
)

type AuthService struct {
	users     UserStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(users UserStore, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// NormalizeEmail folds an email to its canonical stored form. All lookups
// and uniqueness checks go through this, so a@x.com and A@X.COM are the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account and issues its first token. The lookup
// and the insert are not atomic; two concurrent registrations for the same
// email can both pass the lookup, and the unique index on users.email
// decides the loser, which sees the same already-exists error.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (string, *model.User, error) {
	email = NormalizeEmail(email)

	// bcrypt refuses inputs over 72 bytes. The transport binding caps the
	// rune count, but multibyte passwords can still exceed the byte limit.
	if len(password) > 72 {
		return "", nil, model.NewValidation("password must be at most 72 bytes")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		metrics.IncrementAuthAttempt("register", "failed")
		return "", nil, model.NewAlreadyExists("email already registered")
	}
	if model.KindOf(err) != model.KindNotFound {
		return "", nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	u := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if model.KindOf(err) == model.KindAlreadyExists {
			metrics.IncrementAuthAttempt("register", "failed")
		}
		return "", nil, err
	}

	token, err := util.GenerateToken(u.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	metrics.IncrementAuthAttempt("register", "success")
	s.logger.Info("User registered", zap.Int64("user_id", u.ID))
	return token, u, nil
}

// Login checks credentials and issues a fresh token. An unknown email and
// a wrong password produce the exact same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = NormalizeEmail(email)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if model.KindOf(err) == model.KindNotFound {
			metrics.IncrementAuthAttempt("login", "failed")
			return "", nil, model.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		// A digest that does not even parse is a data problem, not a bad
		// credential; log it but answer identically.
		if _, costErr := bcrypt.Cost([]byte(u.PasswordHash)); costErr != nil {
			s.logger.Error("Stored password hash is malformed",
				zap.Int64("user_id", u.ID),
				zap.Error(costErr),
			)
		}
		metrics.IncrementAuthAttempt("login", "failed")
		return "", nil, model.ErrInvalidCredentials
	}

	token, err := util.GenerateToken(u.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	metrics.IncrementAuthAttempt("login", "success")
	return token, u, nil
}
