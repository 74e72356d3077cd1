package common

import (
	"context"
)

// CommonResponse is a lightweight response wrapper used by HTTP handlers.
type CommonResponse struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg,omitempty"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// ReturnOK creates a HTTP 200 response.
func (CommonResponse) ReturnOK() CommonResponse {
	return CommonResponse{Code: 200}
}

// Principal is the authenticated administrator attached to a request.
type Principal struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type contextKey string

const principalKey contextKey = "principal"

// ContextWithPrincipal stores the authenticated admin into context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the authenticated admin from context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// AdminIDFromContext returns the admin id for created_by attribution.
// The second value is false for anonymous contexts such as the offline CLI.
func AdminIDFromContext(ctx context.Context) (uint, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.AdminID == 0 {
		return 0, false
	}
	return p.AdminID, true
}
