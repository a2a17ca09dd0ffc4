package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/pkg/otp"
	"github.com/peerassist/backend/repository"
	"github.com/peerassist/backend/usecase"
)

// DefaultResetTTL is how long a password reset code stays valid.
const DefaultResetTTL = 15 * time.Minute

// SignupInput carries registration fields.
type SignupInput struct {
	Email    string
	Name     string
	Mobile   string
	Password string
}

// Credentials is the result of a successful login.
type Credentials struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

// UseCase implements the identity side of the platform: registration,
// login, session issuance and password recovery. The rest of the system
// consumes identity through the JWT middleware only.
type UseCase struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	resets    repository.ResetCodeRepository
	notifier  usecase.Notifier
	logger    *zap.Logger
	jwtSecret []byte
	jwtIssuer string
	ttl       time.Duration
	resetTTL  time.Duration

	// indirection for tests
	generate func() (string, error)
	now      func() time.Time
}

func New(users repository.UserRepository, sessions repository.SessionRepository, resets repository.ResetCodeRepository, notifier usecase.Notifier, logger *zap.Logger, jwtSecret, jwtIssuer string, ttl, resetTTL time.Duration) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	return &UseCase{
		users:     users,
		sessions:  sessions,
		resets:    resets,
		notifier:  notifier,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		jwtIssuer: jwtIssuer,
		ttl:       ttl,
		resetTTL:  resetTTL,
		generate:  func() (string, error) { return otp.Generate(6) },
		now:       time.Now,
	}
}

// Signup registers a new user with a bcrypt-hashed password.
func (uc *UseCase) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if input.Email == "" || input.Name == "" || input.Password == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "email, name and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		Mobile:       input.Mobile,
		PasswordHash: string(hash),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("email", user.Email))
	return user, nil
}

// Login verifies credentials, stores a Redis session and returns a signed
// JWT carrying the caller identity and session id.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Credentials, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserEmail: user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"user_id":    user.Email,
		"session_id": session.ID,
		"iss":        uc.jwtIssuer,
		"iat":        now.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}

	return &Credentials{Token: token, Session: session}, nil
}

// Logout revokes the given session.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// RequestPasswordReset mails a short-lived reset code to the account's
// address. An unknown email is a silent no-op so the endpoint does not
// reveal which accounts exist.
func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return domain.NewError(domain.ErrCodeInvalid, "email is required")
	}

	if _, err := uc.users.GetByEmail(ctx, email); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := uc.generate()
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to generate reset code", err)
	}
	if err := uc.resets.Save(ctx, email, code, uc.resetTTL); err != nil {
		return err
	}

	if uc.notifier != nil {
		if err := uc.notifier.SendPasswordReset(ctx, email, code, uc.now().Add(uc.resetTTL)); err != nil {
			uc.logger.Warn("reset code dispatch failed", zap.String("email", email), zap.Error(err))
		}
	}

	uc.logger.Info("password reset code issued", zap.String("email", email))
	return nil
}

// ResetPassword consumes a valid reset code and replaces the account
// password. The code is single-use.
func (uc *UseCase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return domain.NewError(domain.ErrCodeInvalid, "email, otp and new_password are required")
	}

	stored, err := uc.resets.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored != code {
		return domain.ErrInvalidResetCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}
	if err := uc.users.UpdatePassword(ctx, email, string(hash)); err != nil {
		return err
	}
	if err := uc.resets.Delete(ctx, email); err != nil {
		uc.logger.Warn("failed to discard consumed reset code", zap.String("email", email), zap.Error(err))
	}

	uc.logger.Info("password reset", zap.String("email", email))
	return nil
}
