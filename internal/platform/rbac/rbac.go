// Package rbac makes role-based authorization decisions using an embedded OPA
// Rego policy. The policy is the single place where the action → allowed-roles
// table lives; handlers only name the action they are about to perform.
package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"cold-storage-backend/internal/server/middleware"
)

// Actions gated by the policy. Reads that any authenticated caller may
// perform (client/taxonomy listings, acceptance listing) are not listed here;
// the auth middleware alone gates those.
const (
	ActionCreateUser      = "user.create"
	ActionUpsertTaxonomy  = "taxonomy.upsert"
	ActionBulkImport      = "taxonomy.bulk_import"
	ActionDeleteCommodity = "taxonomy.delete"
	ActionAddClient       = "client.add"
	ActionUpdateClient    = "client.update"
	ActionDeleteClient    = "client.delete"
	ActionAcceptStock     = "stock.accept"
	ActionDeliverStock    = "stock.deliver"
	ActionListDeliveries  = "stock.list_deliveries"
	ActionReadAudit       = "audit.read"
)

// Sentinel errors; the gateway maps them to 401 and 403.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
)

// Role policy: admins may do everything; managers run the client registry and
// both ledger directions; staff may only record acceptances.
const regoPolicy = `package coldstore.authz

default allow := false

manager_actions := {
	"client.add",
	"client.update",
	"client.delete",
	"stock.accept",
	"stock.deliver",
	"stock.list_deliveries",
}

staff_actions := {"stock.accept"}

allow if input.role == "admin"

allow if {
	input.role == "manager"
	manager_actions[input.action]
}

allow if {
	input.role == "staff"
	staff_actions[input.action]
}
`

// Authorizer evaluates the embedded role policy. Safe for concurrent use.
type Authorizer struct {
	query rego.PreparedEvalQuery
}

// NewAuthorizer compiles the embedded policy and prepares the allow query.
func NewAuthorizer() (*Authorizer, error) {
	compiler, err := ast.CompileModules(map[string]string{"authz.rego": regoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile authz policy: %w", err)
	}
	query, err := rego.New(
		rego.Query("data.coldstore.authz.allow"),
		rego.Compiler(compiler),
	).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("prepare authz query: %w", err)
	}
	return &Authorizer{query: query}, nil
}

// RequireCaller succeeds iff the context carries an authenticated caller. Used
// for read routes open to every signed-in role.
func RequireCaller(ctx context.Context) error {
	caller, ok := middleware.GetCaller(ctx)
	if !ok || caller.Username == "" {
		return ErrUnauthenticated
	}
	return nil
}

// Require succeeds iff the context carries an authenticated caller whose role
// is allowed to perform action. Returns ErrUnauthenticated when no caller is
// set and ErrForbidden when the policy denies the action.
func (a *Authorizer) Require(ctx context.Context, action string) error {
	caller, ok := middleware.GetCaller(ctx)
	if !ok || caller.Username == "" {
		return ErrUnauthenticated
	}
	rs, err := a.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"role":   caller.Role,
		"action": action,
	}))
	if err != nil {
		return fmt.Errorf("authorize %s: %w", action, err)
	}
	if !rs.Allowed() {
		return ErrForbidden
	}
	return nil
}
