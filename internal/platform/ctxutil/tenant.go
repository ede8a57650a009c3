package ctxutil

import (
	"context"
	"strings"
)

// Well-known tenant ids that are not real tenants.
const (
	SystemTenantID         = "SYSTEM"
	PendingTenantSelection = "PENDING_TENANT_SELECTION"
)

type tenantKey struct{}

// Tenant is the owner of the data an operation may touch. A System tenant is
// unrestricted and sees every tenant's rows.
type Tenant struct {
	ID     string
	System bool
}

// WithTenant scopes ctx to tenantID. An empty id leaves ctx without a tenant.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return context.WithValue(ctx, tenantKey{}, (*Tenant)(nil))
	}
	if tenantID == SystemTenantID {
		return WithSystemTenant(ctx)
	}
	return context.WithValue(ctx, tenantKey{}, &Tenant{ID: tenantID})
}

// WithSystemTenant elevates ctx to the unrestricted context. The parent ctx is
// untouched, so callers get their own scope back by simply dropping the child.
func WithSystemTenant(ctx context.Context) context.Context {
	return context.WithValue(ctx, tenantKey{}, &Tenant{ID: SystemTenantID, System: true})
}

func TenantFrom(ctx context.Context) (Tenant, bool) {
	if ctx == nil {
		return Tenant{}, false
	}
	t, ok := ctx.Value(tenantKey{}).(*Tenant)
	if !ok || t == nil {
		return Tenant{}, false
	}
	return *t, true
}

func TenantID(ctx context.Context) string {
	t, _ := TenantFrom(ctx)
	return t.ID
}

func IsSystem(ctx context.Context) bool {
	t, ok := TenantFrom(ctx)
	return ok && t.System
}
