package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

const (
	confirmationCodeTTL = time.Hour
	minPasswordLength   = 8
)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokens         domain.TokenIssuer
	emailService   domain.EmailService
	logger         *slog.Logger
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

func NewAuthService(userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	emailService domain.EmailService,
	logger *slog.Logger,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokens:         tokens,
		emailService:   emailService,
		logger:         logger,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password, firstName, lastName string) (*domain.RegisterResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(username, email, firstName, lastName, time.Now(), time.Now())
	if err := s.userRepo.Create(ctx, user, hash); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	code, err := confirmationCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	if err := s.userRepo.SetConfirmationCode(ctx, email, code, time.Now().Add(confirmationCodeTTL)); err != nil {
		return nil, fmt.Errorf("store confirmation code: %w", err)
	}

	// Registration succeeds even when the email does not go out; the caller
	// is told so the client can surface a degraded response.
	emailSent := true
	if err := s.emailService.SendConfirmationCode(ctx, &domain.ConfirmationCodeEmailData{
		Email:            email,
		Username:         username,
		Code:             code,
		ExpiresInMinutes: int(confirmationCodeTTL.Minutes()),
	}); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "email", email, "err", err)
		emailSent = false
	}

	return &domain.RegisterResult{User: user, EmailSent: emailSent}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	user, hash, err := s.userRepo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrInvalidInput)
		}
		return "", nil, fmt.Errorf("get credentials: %w", err)
	}
	if err := s.hasher.Compare(hash, password); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrInvalidInput)
	}
	if !user.Active {
		return "", nil, fmt.Errorf("%w: account not confirmed", domain.ErrForbidden)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *authService) ConfirmAccount(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	ok, err := s.userRepo.ConsumeConfirmationCode(ctx, email, code)
	if err != nil {
		return fmt.Errorf("consume confirmation code: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: invalid or expired confirmation code", domain.ErrInvalidInput)
	}
	return nil
}

// confirmationCode returns a 4-digit zero-padded code.
func confirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
