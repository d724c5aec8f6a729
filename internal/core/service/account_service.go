package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mb-platform/user-service/internal/core/domain"
	"github.com/mb-platform/user-service/internal/core/ports"
)

// AccountService implements registration, authentication and user CRUD.
// All collaborators are injected through the constructor; the service keeps
// no state of its own between calls.
type AccountService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	logger zerolog.Logger
}

func NewAccountService(repo ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, issuer: issuer, logger: logger}
}

// Register creates a new account. The first account created while no ADMIN
// exists is promoted to ADMIN; everyone else becomes AUTHOR. Uniqueness is
// pre-checked here for an early exit, but the store's unique indexes are the
// actual enforcement under concurrency.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if s.repo == nil || s.hasher == nil || s.issuer == nil {
		return nil, domain.ErrNotConfigured
	}

	if exists, err := s.repo.ExistsByName(ctx, input.Name); err != nil {
		return nil, fmt.Errorf("register: check name: %w", err)
	} else if exists {
		return nil, domain.ErrNameExists
	}

	if exists, err := s.repo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, fmt.Errorf("register: check email: %w", err)
	} else if exists {
		return nil, domain.ErrEmailExists
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	role := domain.RoleAuthor
	adminExists, err := s.repo.ExistsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("register: check admin: %w", err)
	}
	if !adminExists {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Save(ctx, user)
	if errors.Is(err, domain.ErrAdminExists) {
		// Lost the first-admin race: another registration claimed the
		// single-ADMIN slot between our check and the insert. Retry as AUTHOR.
		user.Role = domain.RoleAuthor
		created, err = s.repo.Save(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(created.Name)
	if err != nil {
		return nil, fmt.Errorf("register: issue token: %w", err)
	}

	s.logger.Info().
		Str("user_id", created.ID).
		Str("name", created.Name).
		Str("role", created.Role).
		Msg("user registered")

	return &ports.AuthResult{Token: token, User: created}, nil
}

// Login authenticates by name and password. An unknown name and a password
// mismatch return the same error so callers cannot tell which occurred.
func (s *AccountService) Login(ctx context.Context, name, password string) (*ports.AuthResult, error) {
	if s.repo == nil || s.hasher == nil || s.issuer == nil {
		return nil, domain.ErrNotConfigured
	}

	user, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn().Str("name", name).Msg("login failed: unknown name")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn().Str("name", name).Msg("login failed: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.Name)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("name", user.Name).Msg("user logged in")

	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *AccountService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// Update overwrites name and email on an existing account. Role and password
// hash are untouched. Conflicting values are rejected by the store's unique
// indexes and surface as duplicate errors.
func (s *AccountService) Update(ctx context.Context, id string, input ports.UpdateInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete: check user: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *AccountService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}

func (s *AccountService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}
