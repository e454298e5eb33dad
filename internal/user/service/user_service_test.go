package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cold-storage-backend/internal/platform/validate"
	"cold-storage-backend/internal/security"
	"cold-storage-backend/internal/user/domain"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byName: make(map[string]*domain.User)}
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[username], nil
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	r.byName[u.Username] = &cp
	return r.nextID, nil
}

func newTestService(repo *memUserRepo) *Service {
	hasher := security.NewHasher(4) // min cost keeps tests fast
	tokens := security.NewTokenProvider([]byte("test-secret"), "coldstore-auth", "coldstore-api", time.Hour)
	return NewService(repo, hasher, tokens)
}

func TestCreateUser_Succeeds(t *testing.T) {
	svc := newTestService(newMemUserRepo())

	u, err := svc.CreateUser(context.Background(), "ravi", "password123", domain.RoleStaff)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Error("CreateUser should assign an id")
	}
	if u.PasswordHash == "" || u.PasswordHash == "password123" {
		t.Error("CreateUser must store a hash, never the plaintext")
	}
	if u.Role != domain.RoleStaff {
		t.Errorf("Role = %q, want staff", u.Role)
	}
}

func TestCreateUser_MissingFieldsEnumerated(t *testing.T) {
	svc := newTestService(newMemUserRepo())

	_, err := svc.CreateUser(context.Background(), "", "", "")
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("CreateUser = %v, want validation error", err)
	}
	if len(verr.Violations) != 3 {
		t.Errorf("violations = %v, want all three missing fields listed", verr.Violations)
	}
}

func TestCreateUser_UnknownRole(t *testing.T) {
	svc := newTestService(newMemUserRepo())

	_, err := svc.CreateUser(context.Background(), "ravi", "password123", "superuser")
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("CreateUser with unknown role = %v, want validation error", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc := newTestService(newMemUserRepo())

	if _, err := svc.CreateUser(context.Background(), "ravi", "password123", domain.RoleAdmin); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	_, err := svc.CreateUser(context.Background(), "ravi", "other", domain.RoleStaff)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("second CreateUser = %v, want ErrUsernameTaken", err)
	}
}

func TestAuthenticate_Succeeds(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestService(repo)

	if _, err := svc.CreateUser(context.Background(), "ravi", "password123", domain.RoleManager); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	res, err := svc.Authenticate(context.Background(), "ravi", "password123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Role != domain.RoleManager {
		t.Errorf("Role = %q, want manager", res.Role)
	}
	if res.Token == "" {
		t.Error("Authenticate should return a token")
	}
}

func TestAuthenticate_FailuresIndistinguishable(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestService(repo)

	if _, err := svc.CreateUser(context.Background(), "ravi", "password123", domain.RoleManager); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, errUnknown := svc.Authenticate(context.Background(), "nobody", "password123")
	_, errWrongPw := svc.Authenticate(context.Background(), "ravi", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown user = %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Error("unknown-user and wrong-password failures must be indistinguishable")
	}
}
