package ports

import (
	"context"

	"github.com/mb-platform/user-service/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// Uniqueness of name and email, and the at-most-one-ADMIN invariant, are
// enforced by the store itself (unique indexes); Save surfaces violations as
// domain.ErrNameExists, domain.ErrEmailExists or domain.ErrAdminExists so the
// service-level existence pre-checks stay fast-fail optimizations only.
type UserRepository interface {
	// Save inserts the user when ID is empty, otherwise replaces the
	// existing record. Returns the persisted user including the store-assigned ID.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByName(ctx context.Context, name string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRole(ctx context.Context, role string) (bool, error)
}

// AuditRepository persists account audit-trail events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AccountEvent) error
}
