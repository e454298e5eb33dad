package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"cold-storage-backend/internal/client/domain"
	"cold-storage-backend/internal/platform/validate"
)

type memClientRepo struct {
	mu        sync.Mutex
	nextID    int64
	clients   map[int64]*domain.Client
	updateErr error
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[int64]*domain.Client)}
}

func (r *memClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Client{}
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.clients[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memClientRepo) Search(ctx context.Context, q string) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	out := []*domain.Client{}
	for id := int64(1); id <= r.nextID; id++ {
		c, ok := r.clients[id]
		if !ok {
			continue
		}
		fields := []string{c.FirstName, c.LastName, c.SO, c.OrgName, c.Village, c.Mandal, c.Phone}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				cp := *c
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (r *memClientRepo) Create(ctx context.Context, c *domain.Client) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *c
	cp.ID = r.nextID
	r.clients[r.nextID] = &cp
	return r.nextID, nil
}

func (r *memClientRepo) Update(ctx context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *memClientRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

func (r *memClientRepo) ExistsPhone(ctx context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *memClientRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Email != "" && c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memClientRepo) ExistsName(ctx context.Context, first, last string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if strings.EqualFold(c.FirstName, first) && strings.EqualFold(c.LastName, last) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memClientRepo) ExistsOrg(ctx context.Context, org string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if strings.EqualFold(c.OrgName, org) {
			return true, nil
		}
	}
	return false, nil
}

func farmerInput() AddInput {
	return AddInput{
		FirstName:  "ravi",
		LastName:   "kumar",
		ClientType: "Farmer",
		SO:         "venkatesh",
		Village:    "kondapur",
		Mandal:     "medchal",
		Phone:      "9876543210",
	}
}

func TestAdd_CapitalizesAndDerivesOrgName(t *testing.T) {
	svc := NewService(newMemClientRepo())

	c, err := svc.Add(context.Background(), farmerInput())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if c.ID == 0 {
		t.Error("Add should assign an id")
	}
	if c.FirstName != "Ravi" || c.LastName != "Kumar" {
		t.Errorf("names = %q %q, want capitalized", c.FirstName, c.LastName)
	}
	if c.Village != "Kondapur" || c.Mandal != "Medchal" {
		t.Errorf("locality = %q %q, want capitalized", c.Village, c.Mandal)
	}
	if c.OrgName != "Ravi Kumar" {
		t.Errorf("OrgName = %q, want derived from capitalized names", c.OrgName)
	}
}

func TestAdd_MissingFieldsEnumerated(t *testing.T) {
	svc := NewService(newMemClientRepo())

	_, err := svc.Add(context.Background(), AddInput{})
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Add = %v, want validation error", err)
	}
	if len(verr.Violations) != 6 {
		t.Errorf("violations = %v, want all six required fields listed", verr.Violations)
	}
}

func TestAdd_FarmerWithoutSO(t *testing.T) {
	svc := NewService(newMemClientRepo())

	in := farmerInput()
	in.SO = ""
	_, err := svc.Add(context.Background(), in)
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Add = %v, want validation error", err)
	}
	found := false
	for _, v := range verr.Violations {
		if strings.Contains(v, "s_o") {
			found = true
		}
	}
	if !found {
		t.Errorf("violations = %v, want s_o requirement reported", verr.Violations)
	}
}

func TestAdd_TraderWithoutOrgName(t *testing.T) {
	svc := NewService(newMemClientRepo())

	in := farmerInput()
	in.ClientType = "Trader"
	in.SO = ""
	_, err := svc.Add(context.Background(), in)
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Add = %v, want validation error", err)
	}
}

func TestAdd_BadFormats(t *testing.T) {
	svc := NewService(newMemClientRepo())

	in := farmerInput()
	in.Phone = "12345"
	in.Pincode = "99"
	in.Email = "not-an-email"
	_, err := svc.Add(context.Background(), in)
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Add = %v, want validation error", err)
	}
	if len(verr.Violations) != 3 {
		t.Errorf("violations = %v, want the three format failures listed", verr.Violations)
	}
}

func TestAdd_DuplicatePhone(t *testing.T) {
	repo := newMemClientRepo()
	svc := NewService(repo)

	if _, err := svc.Add(context.Background(), farmerInput()); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	in := farmerInput()
	in.FirstName = "suresh"
	_, err := svc.Add(context.Background(), in)
	if !errors.Is(err, ErrPhoneExists) {
		t.Fatalf("second Add = %v, want ErrPhoneExists", err)
	}
	if all, _ := repo.List(context.Background()); len(all) != 1 {
		t.Errorf("clients = %d, want exactly one survivor", len(all))
	}
}

func TestAdd_DuplicateNamePair(t *testing.T) {
	svc := NewService(newMemClientRepo())

	if _, err := svc.Add(context.Background(), farmerInput()); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	in := farmerInput()
	in.Phone = "9000000001"
	_, err := svc.Add(context.Background(), in)
	if !errors.Is(err, ErrNameExists) {
		t.Fatalf("second Add = %v, want ErrNameExists", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMemClientRepo())

	name := "Anil"
	_, err := svc.Update(context.Background(), 42, UpdateInput{FirstName: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update = %v, want ErrNotFound", err)
	}
}

func TestUpdate_MergesAndRederivesOrgName(t *testing.T) {
	svc := NewService(newMemClientRepo())

	c, err := svc.Add(context.Background(), farmerInput())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	last := "sharma"
	updated, err := svc.Update(context.Background(), c.ID, UpdateInput{LastName: &last})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.LastName != "Sharma" {
		t.Errorf("LastName = %q, want capitalized", updated.LastName)
	}
	if updated.OrgName != "Ravi Sharma" {
		t.Errorf("OrgName = %q, want re-derived for Farmer", updated.OrgName)
	}
	if updated.Village != "Kondapur" {
		t.Errorf("Village = %q, untouched fields must survive the merge", updated.Village)
	}
}

func TestUpdate_DuplicatePhoneReportsConflict(t *testing.T) {
	repo := newMemClientRepo()
	svc := NewService(repo)

	c, err := svc.Add(context.Background(), farmerInput())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	other := farmerInput()
	other.FirstName = "suresh"
	other.Phone = "9000000001"
	if _, err := svc.Add(context.Background(), other); err != nil {
		t.Fatalf("second Add: %v", err)
	}

	// Changing the phone onto a taken value trips the UNIQUE constraint.
	repo.updateErr = &pgconn.PgError{Code: "23505"}
	taken := "9000000001"
	_, err = svc.Update(context.Background(), c.ID, UpdateInput{Phone: &taken})
	if !errors.Is(err, ErrPhoneExists) {
		t.Fatalf("Update onto taken phone = %v, want ErrPhoneExists", err)
	}
}

func TestUpdate_RejectsBadPhone(t *testing.T) {
	svc := NewService(newMemClientRepo())

	c, err := svc.Add(context.Background(), farmerInput())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	bad := "123"
	_, err = svc.Update(context.Background(), c.ID, UpdateInput{Phone: &bad})
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Update = %v, want validation error", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	svc := NewService(newMemClientRepo())

	c, err := svc.Add(context.Background(), farmerInput())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	svc := NewService(newMemClientRepo())

	if _, err := svc.Add(context.Background(), farmerInput()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	res, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("Search with blank query = %d results, want none", len(res))
	}
}

func TestSearch_MatchesVillage(t *testing.T) {
	svc := NewService(newMemClientRepo())

	if _, err := svc.Add(context.Background(), farmerInput()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	res, err := svc.Search(context.Background(), "konda")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("Search = %d results, want 1", len(res))
	}
}
