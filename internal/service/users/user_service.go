package users

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type UserUseCase interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthData, error)
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// AuthData is the result of a successful login. TokenExpiration is the token
// lifetime in whole hours.
type AuthData struct {
	UserID          string
	Token           string
	TokenExpiration int
}

type UserService struct {
	repo       repository.UserRepository
	tokens     TokenIssuer
	tokenHours int
	bcryptCost int
	logger     logging.Logger
}

type UserServiceOption func(*UserService)

func WithBcryptCost(cost int) UserServiceOption {
	return func(s *UserService) {
		s.bcryptCost = cost
	}
}

func WithLogger(logger logging.Logger) UserServiceOption {
	return func(s *UserService) {
		s.logger = logger
	}
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, tokenHours int, opts ...UserServiceOption) *UserService {
	s := &UserService{
		repo:       repo,
		tokens:     tokens,
		tokenHours: tokenHours,
		bcryptCost: 12,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenHours rounds a token lifetime in minutes up to whole hours.
func TokenHours(minutes int) int {
	return int(math.Ceil(float64(minutes) / 60))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	clean := user.Sanitized()
	return &clean, nil
}

// Login fails with the same error for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthData, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug(ctx, "password mismatch", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthData{UserID: user.ID, Token: token, TokenExpiration: s.tokenHours}, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	clean := user.Sanitized()
	return &clean, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return domain.Invalid("email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return domain.Invalid("email %q is not valid", email)
	}
	if password == "" {
		return domain.Invalid("password is required")
	}
	// bcrypt ignores everything past 72 bytes.
	if len(password) > 72 {
		return domain.Invalid("password must be at most 72 bytes")
	}
	return nil
}

var _ UserUseCase = (*UserService)(nil)
