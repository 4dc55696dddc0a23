package auth

import "context"

// Kind tags which identity space a Principal comes from.
type Kind string

const (
	KindCustomer Kind = "CUSTOMER"
	KindAdmin    Kind = "ADMIN"
)

// Principal is the authenticated identity attached to a request.
// A request carries at most one Principal, so a session is either a
// customer session or an admin session, never both.
type Principal struct {
	Kind  Kind   `json:"kind"`
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p Principal) IsCustomer() bool { return p.Kind == KindCustomer && p.ID != 0 }
func (p Principal) IsAdmin() bool    { return p.Kind == KindAdmin && p.ID != 0 }

type ctxKey string

const principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// CustomerFrom returns the customer principal, ignoring admin sessions.
func CustomerFrom(ctx context.Context) (Principal, bool) {
	p, ok := PrincipalFrom(ctx)
	if !ok || !p.IsCustomer() {
		return Principal{}, false
	}
	return p, true
}

// AdminFrom returns the admin principal, ignoring customer sessions.
func AdminFrom(ctx context.Context) (Principal, bool) {
	p, ok := PrincipalFrom(ctx)
	if !ok || !p.IsAdmin() {
		return Principal{}, false
	}
	return p, true
}
