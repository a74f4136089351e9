package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kiruna/internal/auth"
	"kiruna/internal/model"
	"kiruna/internal/repository"
	"kiruna/internal/validation"
)

// RegisterInput is the body of an account creation. Role defaults to RESIDENT.
type RegisterInput struct {
	Email    string     `json:"email" validate:"required,email,max=254"`
	Password string     `json:"password" validate:"required,min=8,max=72"`
	Name     string     `json:"name" validate:"required,notblank,max=100"`
	Surname  string     `json:"surname" validate:"required,notblank,max=100"`
	Phone    string     `json:"phone,omitempty" validate:"omitempty,max=32"`
	Role     model.Role `json:"role,omitempty" validate:"omitempty,oneof=PLANNER DEVELOPER VISITOR RESIDENT"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned on login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// UserService manages accounts and sessions.
type UserService interface {
	// Register creates an account on behalf of actor, the role of the
	// caller or "" when anonymous. Only editors may grant a role other
	// than RESIDENT.
	Register(ctx context.Context, actor model.Role, in RegisterInput) (*model.User, error)

	// Create creates an account with any role. It backs the admin CLI.
	Create(ctx context.Context, in RegisterInput) (*model.User, error)

	Login(ctx context.Context, in LoginInput) (*Session, error)

	Get(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	tokens *auth.Tokens
	now    func() time.Time
}

func NewUserService(repo repository.UserRepository, tokens *auth.Tokens) UserService {
	return &userService{repo: repo, tokens: tokens, now: time.Now}
}

func (s *userService) Register(ctx context.Context, actor model.Role, in RegisterInput) (*model.User, error) {
	if in.Role == "" {
		in.Role = model.RoleResident
	}
	if in.Role != model.RoleResident && !actor.CanEdit() {
		return nil, fmt.Errorf("assign role %s: %w", in.Role, ErrForbidden)
	}
	return s.Create(ctx, in)
}

func (s *userService) Create(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = model.RoleResident
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         in.Role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("email %s: %w", in.Email, ErrAlreadyExists)
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}
