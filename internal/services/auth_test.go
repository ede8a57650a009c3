package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

func TestSetContextFromToken(t *testing.T) {
	as := NewAuthService(logger.Nop(), "secret", time.Minute)
	tok, err := as.IssueToken("u1", "T1", "ADMIN")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	ctx, err := as.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != "u1" || rd.TenantID != "T1" || rd.Role != "ADMIN" {
		t.Fatalf("request data: got=%+v", rd)
	}
	if got := ctxutil.TenantID(ctx); got != "T1" {
		t.Fatalf("tenant: want=T1 got=%q", got)
	}
}

func TestSetContextFromTokenRejects(t *testing.T) {
	as := NewAuthService(logger.Nop(), "secret", time.Minute)
	other, _ := NewAuthService(logger.Nop(), "other", time.Minute).IssueToken("u1", "T1", "")
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		TenantID: "T1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("secret"))

	for name, tok := range map[string]string{"empty": "", "wrong key": other, "expired": expired, "garbage": "a.b.c"} {
		if _, err := as.SetContextFromToken(context.Background(), tok); !errors.Is(err, pkgerrors.ErrUnauthorized) {
			t.Fatalf("%s: want ErrUnauthorized got=%v", name, err)
		}
	}
}
