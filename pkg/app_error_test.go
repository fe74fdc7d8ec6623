package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	cause := errors.New("boom")
	e := NewDomainError("UPSTREAM_ERROR", "boom", cause, http.StatusInternalServerError)

	if !errors.Is(e, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if e.Error() != "UPSTREAM_ERROR: boom: boom" {
		t.Fatalf("unexpected error string: %q", e.Error())
	}
	body := e.ToHTTPError()
	if len(body) != 1 || body["error"] != "boom" {
		t.Fatalf("unexpected body: %+v", body)
	}

	simple := NewDomainErrorSimple("MISSING_INVOICE_ID", "Missing invoice_id", http.StatusBadRequest)
	if simple.Unwrap() != nil {
		t.Fatalf("expected nil cause")
	}
	if simple.Error() != "MISSING_INVOICE_ID: Missing invoice_id" {
		t.Fatalf("unexpected error string: %q", simple.Error())
	}
}
