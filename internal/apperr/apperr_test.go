package apperr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("task not found: %s", "x"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"invalid", Invalid("bad"), http.StatusBadRequest},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("inner")), http.StatusNotFound},
		{"plain", fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("%s: HTTPStatus = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestIs(t *testing.T) {
	if Is(nil, KindInternal) {
		t.Error("Is(nil) should be false")
	}
	if !Is(Conflict("x"), KindConflict) {
		t.Error("Is(Conflict, KindConflict) = false")
	}
	if Is(Conflict("x"), KindNotFound) {
		t.Error("Is(Conflict, KindNotFound) = true")
	}
}

func TestError_Message(t *testing.T) {
	err := NotFound("task not found: %s", "abc")
	if err.Error() != "task not found: abc" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Kind.String() != "not_found" {
		t.Errorf("Kind.String() = %q", err.Kind.String())
	}
}
