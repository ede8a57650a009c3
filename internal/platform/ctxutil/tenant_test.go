package ctxutil

import (
	"context"
	"testing"
)

func TestWithTenantScopesChildOnly(t *testing.T) {
	parent := WithTenant(context.Background(), "t1")
	child := WithSystemTenant(parent)

	if !IsSystem(child) {
		t.Fatalf("child: want system tenant")
	}
	if got := TenantID(parent); got != "t1" {
		t.Fatalf("parent tenant: want=%q got=%q", "t1", got)
	}
	if IsSystem(parent) {
		t.Fatalf("parent: elevated by child")
	}
}

func TestWithTenantEmptyClears(t *testing.T) {
	ctx := WithTenant(WithTenant(context.Background(), "t1"), "  ")
	if _, ok := TenantFrom(ctx); ok {
		t.Fatalf("TenantFrom: want no tenant")
	}
	if !IsSystem(WithTenant(context.Background(), SystemTenantID)) {
		t.Fatalf("SYSTEM id: want system tenant")
	}
}

func TestIsSystemAdmin(t *testing.T) {
	cases := map[string]struct {
		rd   *RequestData
		want bool
	}{
		"nil":     {nil, false},
		"role":    {&RequestData{Role: RoleSystemAdmin, TenantID: "t1"}, true},
		"system":  {&RequestData{TenantID: SystemTenantID}, true},
		"pending": {&RequestData{TenantID: PendingTenantSelection}, true},
		"tenant":  {&RequestData{TenantID: "t1", Role: "ADMIN"}, false},
	}
	for name, tc := range cases {
		if got := tc.rd.IsSystemAdmin(); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", name, tc.want, got)
		}
	}
}
