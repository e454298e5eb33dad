package service

import (
	"context"
	"errors"
	"strings"

	"cold-storage-backend/internal/client/domain"
	"cold-storage-backend/internal/client/repository"
	"cold-storage-backend/internal/db"
	"cold-storage-backend/internal/platform/validate"
)

// Sentinel errors for the client service; the gateway maps the duplicate
// errors to 409 and ErrNotFound to 404.
var (
	ErrNotFound    = errors.New("client not found")
	ErrPhoneExists = errors.New("phone number already exists")
	ErrEmailExists = errors.New("email address already exists")
	ErrNameExists  = errors.New("client with this first and last name already exists")
	ErrOrgExists   = errors.New("client with this organization name already exists")
)

// AddInput carries the fields of an add-client request.
type AddInput struct {
	FirstName  string
	LastName   string
	ClientType string
	OrgName    string
	SO         string
	Address    string
	Village    string
	Mandal     string
	District   string
	State      string
	City       string
	Pincode    string
	Phone      string
	AltPhone   string
	Email      string
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	FirstName  *string
	LastName   *string
	ClientType *string
	OrgName    *string
	SO         *string
	Address    *string
	Village    *string
	Mandal     *string
	District   *string
	State      *string
	City       *string
	Pincode    *string
	Phone      *string
	AltPhone   *string
	Email      *string
}

// Service implements the client registry operations.
type Service struct {
	repo repository.Repository
}

// NewService returns a client Service backed by repo.
func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Add validates, deduplicates, capitalizes, and persists a new client.
// Validation failures enumerate every violation; duplicate checks
// short-circuit in the order phone → email → name pair → org name.
func (s *Service) Add(ctx context.Context, in AddInput) (*domain.Client, error) {
	var violations []string

	required := []struct{ name, value string }{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"client_type", in.ClientType},
		{"village", in.Village},
		{"mandal", in.Mandal},
		{"phone", in.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			violations = append(violations, f.name+" is required")
		}
	}

	clientType := domain.ClientType(in.ClientType)
	orgName := in.OrgName
	switch {
	case in.ClientType == "":
		// already reported above
	case !clientType.Valid():
		violations = append(violations, "client_type must be Farmer or Trader")
	case clientType == domain.TypeFarmer:
		if in.SO == "" {
			violations = append(violations, "s_o is required for Farmer clients")
		}
		orgName = in.FirstName + " " + in.LastName
	case orgName == "":
		violations = append(violations, "org_name is required for Trader clients")
	}

	violations = append(violations, formatViolations(in.Phone, in.AltPhone, in.Pincode, in.Email)...)
	if len(violations) > 0 {
		return nil, validate.NewError(violations...)
	}

	if err := s.checkDuplicates(ctx, in, orgName); err != nil {
		return nil, err
	}

	c := &domain.Client{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		ClientType: clientType,
		OrgName:    orgName,
		SO:         in.SO,
		Address:    in.Address,
		Village:    in.Village,
		Mandal:     in.Mandal,
		District:   in.District,
		State:      in.State,
		City:       in.City,
		Pincode:    in.Pincode,
		Phone:      in.Phone,
		AltPhone:   in.AltPhone,
		Email:      in.Email,
	}
	c.CapitalizeFields()

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		if db.IsUniqueViolation(err) {
			// A concurrent add raced the duplicate scan; re-probe for the
			// precise conflict.
			return nil, s.conflictFor(ctx, c.Phone, c.Email)
		}
		return nil, err
	}
	c.ID = id
	return c, nil
}

// Update merges the supplied fields onto the stored record, re-validating
// only what was touched. Duplicate checks are intentionally not re-run here;
// see DESIGN.md for the recorded decision.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Client, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	var violations []string
	if in.Phone != nil && *in.Phone != "" && !domain.ValidPhone(*in.Phone) {
		violations = append(violations, "phone must be a 10-digit number")
	}
	if in.AltPhone != nil && *in.AltPhone != "" && !domain.ValidPhone(*in.AltPhone) {
		violations = append(violations, "alt_phone must be a 10-digit number")
	}
	if in.Pincode != nil && *in.Pincode != "" && !domain.ValidPincode(*in.Pincode) {
		violations = append(violations, "pincode must be a 6-digit number")
	}
	if in.Email != nil && *in.Email != "" && !domain.ValidEmail(*in.Email) {
		violations = append(violations, "email is not valid")
	}
	if in.ClientType != nil && !domain.ClientType(*in.ClientType).Valid() {
		violations = append(violations, "client_type must be Farmer or Trader")
	}
	if len(violations) > 0 {
		return nil, validate.NewError(violations...)
	}

	merged := *existing
	setCap(&merged.FirstName, in.FirstName)
	setCap(&merged.LastName, in.LastName)
	if in.ClientType != nil {
		merged.ClientType = domain.ClientType(*in.ClientType)
	}
	setCap(&merged.OrgName, in.OrgName)
	setCap(&merged.SO, in.SO)
	setCap(&merged.Address, in.Address)
	setCap(&merged.Village, in.Village)
	setCap(&merged.Mandal, in.Mandal)
	setCap(&merged.District, in.District)
	setCap(&merged.State, in.State)
	setCap(&merged.City, in.City)
	set(&merged.Pincode, in.Pincode)
	set(&merged.Phone, in.Phone)
	set(&merged.AltPhone, in.AltPhone)
	set(&merged.Email, in.Email)

	if merged.ClientType == domain.TypeFarmer {
		merged.OrgName = merged.FirstName + " " + merged.LastName
	}

	if err := s.repo.Update(ctx, &merged); err != nil {
		if db.IsUniqueViolation(err) {
			// Updates skip the duplicate scans, but the UNIQUE constraints on
			// phone and email still hold; report the precise conflict.
			if in.Phone != nil {
				if exists, probeErr := s.repo.ExistsPhone(ctx, *in.Phone); probeErr == nil && exists {
					return nil, ErrPhoneExists
				}
			}
			if in.Email != nil && *in.Email != "" {
				if exists, probeErr := s.repo.ExistsEmail(ctx, *in.Email); probeErr == nil && exists {
					return nil, ErrEmailExists
				}
			}
		}
		return nil, err
	}
	return &merged, nil
}

// Delete removes the client by id. Absent ids still report success, so
// deletes are idempotent.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List returns all clients.
func (s *Service) List(ctx context.Context) ([]*domain.Client, error) {
	return s.repo.List(ctx)
}

// Search returns clients matching q. An empty or whitespace query returns an
// empty result set, never the full table.
func (s *Service) Search(ctx context.Context, q string) ([]*domain.Client, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*domain.Client{}, nil
	}
	return s.repo.Search(ctx, q)
}

func (s *Service) checkDuplicates(ctx context.Context, in AddInput, orgName string) error {
	if exists, err := s.repo.ExistsPhone(ctx, in.Phone); err != nil {
		return err
	} else if exists {
		return ErrPhoneExists
	}
	if in.Email != "" {
		if exists, err := s.repo.ExistsEmail(ctx, in.Email); err != nil {
			return err
		} else if exists {
			return ErrEmailExists
		}
	}
	if exists, err := s.repo.ExistsName(ctx, in.FirstName, in.LastName); err != nil {
		return err
	} else if exists {
		return ErrNameExists
	}
	if orgName != "" {
		if exists, err := s.repo.ExistsOrg(ctx, orgName); err != nil {
			return err
		} else if exists {
			return ErrOrgExists
		}
	}
	return nil
}

func (s *Service) conflictFor(ctx context.Context, phone, email string) error {
	if exists, err := s.repo.ExistsPhone(ctx, phone); err == nil && exists {
		return ErrPhoneExists
	}
	if email != "" {
		if exists, err := s.repo.ExistsEmail(ctx, email); err == nil && exists {
			return ErrEmailExists
		}
	}
	return ErrPhoneExists
}

func formatViolations(phone, altPhone, pincode, email string) []string {
	var violations []string
	if phone != "" && !domain.ValidPhone(phone) {
		violations = append(violations, "phone must be a 10-digit number")
	}
	if altPhone != "" && !domain.ValidPhone(altPhone) {
		violations = append(violations, "alt_phone must be a 10-digit number")
	}
	if pincode != "" && !domain.ValidPincode(pincode) {
		violations = append(violations, "pincode must be a 6-digit number")
	}
	if email != "" && !domain.ValidEmail(email) {
		violations = append(violations, "email is not valid")
	}
	return violations
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setCap(dst *string, src *string) {
	if src != nil {
		*dst = domain.CapitalizeWords(*src)
	}
}
