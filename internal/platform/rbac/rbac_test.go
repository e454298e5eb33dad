package rbac

import (
	"context"
	"errors"
	"testing"

	"cold-storage-backend/internal/server/middleware"
)

func callerCtx(username, role string) context.Context {
	return middleware.WithCaller(context.Background(), middleware.Caller{Username: username, Role: role})
}

func TestRequire_Unauthenticated(t *testing.T) {
	a, err := NewAuthorizer()
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}
	err = a.Require(context.Background(), ActionAddClient)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Require without caller = %v, want ErrUnauthenticated", err)
	}
}

func TestRequire_RoleMatrix(t *testing.T) {
	a, err := NewAuthorizer()
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}

	tests := []struct {
		name    string
		role    string
		action  string
		allowed bool
	}{
		{"admin creates users", "admin", ActionCreateUser, true},
		{"admin imports taxonomy", "admin", ActionBulkImport, true},
		{"admin delivers", "admin", ActionDeliverStock, true},
		{"manager adds client", "manager", ActionAddClient, true},
		{"manager deletes client", "manager", ActionDeleteClient, true},
		{"manager delivers", "manager", ActionDeliverStock, true},
		{"manager accepts", "manager", ActionAcceptStock, true},
		{"manager lists deliveries", "manager", ActionListDeliveries, true},
		{"manager cannot create users", "manager", ActionCreateUser, false},
		{"manager cannot create taxonomy", "manager", ActionUpsertTaxonomy, false},
		{"staff accepts", "staff", ActionAcceptStock, true},
		{"staff cannot deliver", "staff", ActionDeliverStock, false},
		{"staff cannot add clients", "staff", ActionAddClient, false},
		{"staff cannot list deliveries", "staff", ActionListDeliveries, false},
		{"unknown role denied", "intern", ActionAcceptStock, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Require(callerCtx("u1", tt.role), tt.action)
			if tt.allowed && err != nil {
				t.Errorf("Require(%s, %s) = %v, want nil", tt.role, tt.action, err)
			}
			if !tt.allowed && !errors.Is(err, ErrForbidden) {
				t.Errorf("Require(%s, %s) = %v, want ErrForbidden", tt.role, tt.action, err)
			}
		})
	}
}
