package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/auth"
	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/observability"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

const invalidCredentials = "Invalid email or password"

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

// CourseDefaults seeds the course record created at registration.
type CourseDefaults struct {
	StartDate string
	Mentor    string
}

// AuthService registers accounts and exchanges credentials for session tokens.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.RegisterResponse, string, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.UserResponse, string, error)
	CurrentAccount(ctx context.Context, identity auth.Identity) (dto.UserResponse, error)
}

// AuthOption customises the auth service.
type AuthOption func(*authService)

// WithExitScoreSource replaces the random exit score generator.
func WithExitScoreSource(source func() int) AuthOption {
	return func(s *authService) {
		if source != nil {
			s.exitScore = source
		}
	}
}

type authService struct {
	accounts  repository.AccountRepository
	courses   repository.CourseRepository
	hasher    *auth.PasswordHasher
	issuer    TokenIssuer
	validator *validator.Validate
	defaults  CourseDefaults
	exitScore func() int
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(accounts repository.AccountRepository, courses repository.CourseRepository, hasher *auth.PasswordHasher, issuer TokenIssuer, validate *validator.Validate, defaults CourseDefaults, logger zerolog.Logger, opts ...AuthOption) AuthService {
	s := &authService{
		accounts:  accounts,
		courses:   courses,
		hasher:    hasher,
		issuer:    issuer,
		validator: validate,
		defaults:  defaults,
		exitScore: func() int { return rand.IntN(100) },
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.RegisterResponse, string, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = normalizeEmail(payload.Email)
	payload.Phone = strings.TrimSpace(payload.Phone)
	payload.Batch = strings.TrimSpace(payload.Batch)

	if payload.Name == "" || payload.Email == "" || payload.Password == "" || payload.Phone == "" || payload.Batch == "" {
		return dto.RegisterResponse{}, "", apperr.Validation("All fields are required")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.RegisterResponse{}, "", apperr.Wrap(err, apperr.KindValidation, "A valid email address is required")
	}

	_, err := s.accounts.FindByEmail(ctx, payload.Email)
	switch {
	case err == nil:
		observability.AuthAttempts().WithLabelValues("register", "conflict").Inc()
		return dto.RegisterResponse{}, "", apperr.New(apperr.KindConflict, "Student with this email already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return dto.RegisterResponse{}, "", internal(err, "Server error during registration")
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		if auth.IsPasswordTooLong(err) {
			return dto.RegisterResponse{}, "", apperr.Wrap(err, apperr.KindValidation, "Password must be at most 72 bytes")
		}
		return dto.RegisterResponse{}, "", internal(err, "Server error during registration")
	}

	account := models.Account{
		Email:        payload.Email,
		PasswordHash: hash,
		Name:         payload.Name,
		Phone:        payload.Phone,
		Batch:        payload.Batch,
	}
	if err := s.accounts.Create(ctx, &account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			observability.AuthAttempts().WithLabelValues("register", "conflict").Inc()
			return dto.RegisterResponse{}, "", apperr.Wrap(err, apperr.KindConflict, "Student with this email already exists")
		}
		return dto.RegisterResponse{}, "", internal(err, "Server error during registration")
	}

	score := s.exitScore()
	course := models.CourseRecord{
		StudentID: account.Email,
		Name:      account.Name,
		Course:    account.Batch,
		StartDate: s.defaults.StartDate,
		Mentor:    s.defaults.Mentor,
		Grade:     models.GradeForScore(score),
		ExitScore: score,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		// The account is removed so the student can register again.
		if delErr := s.accounts.Delete(context.WithoutCancel(ctx), account.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("email", account.Email).Msg("account left without course record")
		}
		return dto.RegisterResponse{}, "", internal(err, "Server error during registration")
	}

	token, err := s.issuer.Issue(identityOf(account))
	if err != nil {
		return dto.RegisterResponse{}, "", internal(err, "Server error during registration")
	}

	observability.AuthAttempts().WithLabelValues("register", "created").Inc()
	s.logger.Info().Str("email", account.Email).Str("batch", account.Batch).Msg("student registered")

	return dto.RegisterResponse{
		Student:    dto.NewAccountResponse(account),
		CourseData: course,
	}, token, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.UserResponse, string, error) {
	email := normalizeEmail(payload.Email)
	if email == "" || payload.Password == "" {
		return dto.UserResponse{}, "", apperr.Validation("Email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return dto.UserResponse{}, "", internal(err, "Server error during login")
		}
		s.hasher.CompareMissing(payload.Password)
		observability.AuthAttempts().WithLabelValues("login", "rejected").Inc()
		return dto.UserResponse{}, "", apperr.New(apperr.KindUnauthorized, invalidCredentials)
	}

	if !s.hasher.Compare(account.PasswordHash, payload.Password) {
		observability.AuthAttempts().WithLabelValues("login", "rejected").Inc()
		return dto.UserResponse{}, "", apperr.New(apperr.KindUnauthorized, invalidCredentials)
	}

	token, err := s.issuer.Issue(identityOf(account))
	if err != nil {
		return dto.UserResponse{}, "", internal(err, "Server error during login")
	}

	observability.AuthAttempts().WithLabelValues("login", "accepted").Inc()
	return dto.UserResponse{User: dto.NewAccountResponse(account)}, token, nil
}

func (s *authService) CurrentAccount(ctx context.Context, identity auth.Identity) (dto.UserResponse, error) {
	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(identity.Email))
	if err != nil {
		return dto.UserResponse{}, classify(err, "User not found", "Server error during token verification")
	}
	return dto.UserResponse{User: dto.NewAccountResponse(account)}, nil
}

func identityOf(account models.Account) auth.Identity {
	return auth.Identity{Email: account.Email, Name: account.Name, ID: account.ID}
}
