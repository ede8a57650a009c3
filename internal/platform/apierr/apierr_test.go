package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromUnwrapsWrappedError(t *testing.T) {
	err := fmt.Errorf("submit: %w", Forbidden("forbidden", errors.New("system admin required")))
	status, code := From(err)
	if status != http.StatusForbidden || code != "forbidden" {
		t.Fatalf("From: want=403/forbidden got=%d/%s", status, code)
	}
	if err.Error() != "submit: system admin required" {
		t.Fatalf("Error: got=%q", err.Error())
	}
	status, code = From(errors.New("boom"))
	if status != http.StatusInternalServerError || code != "internal_error" {
		t.Fatalf("From plain: got=%d/%s", status, code)
	}
}
