package session

import (
	"context"
	"log/slog"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
)

// Roles derived from the session user.
const (
	RoleVerified = "verified"
	RoleAdmin    = "admin"
)

var (
	// ErrUnauthenticated is returned when no session is loaded.
	ErrUnauthenticated = goerror.NewBusiness("Please log in first", goerror.CodeUnauthorized)
	// ErrUnverified is returned when the user has not completed verification.
	ErrUnverified = goerror.NewBusiness("Please verify your account first", goerror.CodeForbidden)
	// ErrForbidden is returned when no role grants the action.
	ErrForbidden = goerror.NewBusiness("You are not allowed to do this", goerror.CodeForbidden)
)

// Authorizer is satisfied by *casbin.Enforcer.
type Authorizer interface {
	Enforce(rvals ...any) (bool, error)
}

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

var defaultPolicies = [][]string{
	{RoleVerified, "movie", "upload"},
	{RoleAdmin, "movie", "*"},
	{RoleAdmin, "admin", "*"},
}

// NewEnforcer builds an in-memory casbin enforcer loaded with the default policy.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, err
	}

	return e, nil
}

// Authorize is the verification gate. An unverified session is never
// authorized, whatever the policy says.
func (s *Store) Authorize(ctx context.Context, object, action string) error {
	cur := s.Current()
	if !cur.Authenticated() {
		return ErrUnauthenticated
	}
	if !cur.User.IsVerified {
		return ErrUnverified
	}
	if s.opts.Authorizer == nil {
		return ErrForbidden
	}

	roles := []string{RoleVerified}
	if cur.User.IsAdmin {
		roles = append(roles, RoleAdmin)
	}

	for _, role := range roles {
		ok, err := s.opts.Authorizer.Enforce(role, object, action)
		if err != nil {
			slog.ErrorContext(ctx, "failed to enforce policy", "role", role, "object", object, "action", action, "error", err)
			return goerror.NewServer(err, "")
		}
		if ok {
			return nil
		}
	}

	return ErrForbidden
}
