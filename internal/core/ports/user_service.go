package ports

import (
	"context"

	"github.com/mb-platform/user-service/internal/core/domain"
)

// RegisterInput carries the data needed to create an account. Blank-field
// validation happens at the transport layer; the service re-checks only
// uniqueness and its own wiring.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput carries the two mutable account fields. Role and password are
// not changeable through Update.
type UpdateInput struct {
	Name  string
	Email string
}

// AuthResult is returned by Register and Login: a bearer token plus the
// account it is bound to.
type AuthResult struct {
	Token string
	User  *domain.User
}

// UserService defines the account use-cases.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, name, password string) (*AuthResult, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
