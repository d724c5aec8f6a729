package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mb-platform/user-service/internal/core/domain"
	"github.com/mb-platform/user-service/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
	// saveErrs queues errors returned by the next Save calls, ahead of the
	// normal behavior. Used to simulate index violations.
	saveErrs []error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if len(r.saveErrs) > 0 {
		err := r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("user_%d", r.nextID)
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Name == name {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	return all, nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *stubUserRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, u := range r.users {
		if u.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByRole(_ context.Context, role string) (bool, error) {
	for _, u := range r.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

type stubHasher struct{}

func (stubHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }

func (stubHasher) Verify(raw, hash string) bool { return hash == "hashed:"+raw }

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(subject string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + subject, nil
}

func newTestService(repo ports.UserRepository) *AccountService {
	return NewAccountService(repo, stubHasher{}, stubIssuer{}, zerolog.Nop())
}

func TestAccountService_Register_FirstUserIsAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	result, err := svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if result.User.Role != domain.RoleAdmin {
		t.Fatalf("expected first user to be ADMIN, got %s", result.User.Role)
	}
	if result.User.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if result.User.ID == "" {
		t.Fatalf("expected store-assigned ID")
	}
}

func TestAccountService_Register_SecondUserIsAuthor(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	result, err := svc.Register(context.Background(), ports.RegisterInput{Name: "bob", Email: "b@x.com", Password: "pw2"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.Role != domain.RoleAuthor {
		t.Fatalf("expected second user to be AUTHOR, got %s", result.User.Role)
	}
}

func TestAccountService_Register_DuplicateName(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "other@x.com", Password: "pw2"})
	if !errors.Is(err, domain.ErrNameExists) {
		t.Fatalf("expected ErrNameExists, got %v", err)
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "carol", Email: "a@x.com", Password: "pw2"})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAccountService_Register_AdminRaceRetriesAsAuthor(t *testing.T) {
	repo := newStubUserRepo()
	// First insert hits the single-ADMIN index because a concurrent
	// registration already claimed it; the retry succeeds.
	repo.saveErrs = []error{domain.ErrAdminExists}
	svc := newTestService(repo)

	result, err := svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.Role != domain.RoleAuthor {
		t.Fatalf("expected role AUTHOR after losing admin race, got %s", result.User.Role)
	}
}

func TestAccountService_Register_NotConfigured(t *testing.T) {
	svc := NewAccountService(nil, nil, nil, zerolog.Nop())

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if result.User.ID != registered.User.ID {
		t.Fatalf("expected same identity, got %s vs %s", result.User.ID, registered.User.ID)
	}
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Login_UnknownNameIsIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	// An absent name must return the same error as a password mismatch.
	_, err := svc.Login(context.Background(), "ghost", "pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Update_ChangesOnlyNameAndEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	registered, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})

	updated, err := svc.Update(context.Background(), registered.User.ID, ports.UpdateInput{Name: "alice2", Email: "a2@x.com"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "alice2" || updated.Email != "a2@x.com" {
		t.Fatalf("unexpected updated fields: %+v", updated)
	}
	if updated.Role != registered.User.Role {
		t.Fatalf("update must not change role")
	}
	if updated.PasswordHash != registered.User.PasswordHash {
		t.Fatalf("update must not change password hash")
	}
}

func TestAccountService_Update_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), "missing", ports.UpdateInput{Name: "x", Email: "x@x.com"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	registered, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})

	if err := svc.Delete(context.Background(), registered.User.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), registered.User.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), registered.User.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestAccountService_ExistenceProbes(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})

	if ok, _ := svc.ExistsByName(context.Background(), "alice"); !ok {
		t.Fatalf("expected name to exist")
	}
	if ok, _ := svc.ExistsByName(context.Background(), "bob"); ok {
		t.Fatalf("did not expect name to exist")
	}
	if ok, _ := svc.ExistsByEmail(context.Background(), "a@x.com"); !ok {
		t.Fatalf("expected email to exist")
	}
	if ok, _ := svc.ExistsByEmail(context.Background(), "b@x.com"); ok {
		t.Fatalf("did not expect email to exist")
	}
	// Probes must not mutate store state.
	if len(repo.users) != 1 {
		t.Fatalf("existence probes changed store state")
	}
}

func TestAccountService_List(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "alice", Email: "a@x.com", Password: "pw1"})
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "bob", Email: "b@x.com", Password: "pw2"})

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
