package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{name: "validation", err: Validation("bad input"), want: http.StatusBadRequest},
		{name: "authentication", err: Authentication("who are you"), want: http.StatusUnauthorized},
		{name: "authorization", err: Authorization("not yours"), want: http.StatusForbidden},
		{name: "not found", err: NotFound("missing"), want: http.StatusNotFound},
		{name: "conflict", err: Conflict("already running"), want: http.StatusConflict},
		{name: "internal", err: Internal("boom", errors.New("cause")), want: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.err.Status(); got != testCase.want {
				t.Fatalf("expected %d, got %d", testCase.want, got)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	conflict := Conflict("already running")

	if !IsKind(conflict, KindConflict) {
		t.Fatal("expected conflict kind to match")
	}
	if IsKind(conflict, KindNotFound) {
		t.Fatal("expected kind mismatch")
	}
	if IsKind(nil, KindConflict) {
		t.Fatal("expected nil to match nothing")
	}
	if IsKind(errors.New("plain"), KindConflict) {
		t.Fatal("expected plain error to match nothing")
	}

	wrapped := fmt.Errorf("outer: %w", conflict)
	if !IsKind(wrapped, KindConflict) {
		t.Fatal("expected wrapped error to match through the chain")
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("Internal Server Error", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
	if err.Error() != "Internal Server Error" {
		t.Fatalf("expected message only, got %q", err.Error())
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: timesheets.employee_id"), want: true},
		{name: "postgres message", err: errors.New(`duplicate key value violates unique constraint "uniq_running_timesheet_per_employee"`), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := IsUniqueViolation(testCase.err); got != testCase.want {
				t.Fatalf("expected %v, got %v", testCase.want, got)
			}
		})
	}
}
