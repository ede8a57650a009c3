package ctxutil

import "context"

const (
	RoleSystemAdmin = "SYSTEM_ADMIN"
	RoleTenantAdmin = "TENANT_ADMIN"
)

type requestDataKey struct{}

// RequestData is the authenticated caller, decoded from the bearer token.
type RequestData struct {
	TokenString string
	UserID      string
	TenantID    string
	Role        string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// IsSystemAdmin reports whether the caller may act across tenants.
func (rd *RequestData) IsSystemAdmin() bool {
	if rd == nil {
		return false
	}
	if rd.Role == RoleSystemAdmin {
		return true
	}
	return rd.TenantID == SystemTenantID || rd.TenantID == PendingTenantSelection
}
