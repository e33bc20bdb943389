package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// Test codes for testing
var (
	testCode      = MustNewCode("test.code")
	testCode2     = MustNewCode("test.code2")
	statFailed    = MustNewCode("fileio.stat_failed")
	unknownColumn = MustNewCode("metrics.unknown_column")
)

func TestNew(t *testing.T) {
	err := New(CommonInternal, "test failure", nil)

	if err.Message != "test failure" {
		t.Errorf("Expected message 'test failure', got '%s'", err.Message)
	}

	if err.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", err.Code.String())
	}

	if err.Cause != nil {
		t.Errorf("Expected nil cause, got %v", err.Cause)
	}

	if err.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}

	if len(err.Stack) == 0 {
		t.Error("Expected stack trace to be captured")
	}
}

func TestNewWithCause(t *testing.T) {
	cause := errors.New("underlying failure")
	err := New(statFailed, "stat failed", cause)

	if err.Cause != cause {
		t.Error("Expected cause to be set")
	}

	expected := "stat failed: underlying failure"
	if err.Error() != expected {
		t.Errorf("Expected error string '%s', got '%s'", expected, err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause through Unwrap")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CommonInternal, "test failure with %s", "formatting")

	expected := "test failure with formatting"
	if err.Message != expected {
		t.Errorf("Expected message '%s', got '%s'", expected, err.Message)
	}

	if err.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", err.Code.String())
	}
}

func TestAddContext(t *testing.T) {
	err := New(testCode, "test failure", nil).
		AddContext("table", "users").
		AddContext("column", "id")

	if err.Context["table"] != "users" {
		t.Errorf("Expected context table=users, got '%s'", err.Context["table"])
	}

	if err.Context["column"] != "id" {
		t.Errorf("Expected context column=id, got '%s'", err.Context["column"])
	}
}

func TestHasCode(t *testing.T) {
	inner := New(statFailed, "stat failed", nil)
	wrapped := fmt.Errorf("opening manifest: %w", inner)

	if !HasCode(inner, statFailed) {
		t.Error("Expected HasCode to match the error's own code")
	}

	if !HasCode(wrapped, statFailed) {
		t.Error("Expected HasCode to match through the wrap chain")
	}

	if HasCode(wrapped, unknownColumn) {
		t.Error("Expected HasCode to reject a different code")
	}

	if HasCode(nil, statFailed) {
		t.Error("Expected HasCode(nil) to be false")
	}

	if HasCode(errors.New("plain"), statFailed) {
		t.Error("Expected HasCode to reject plain errors")
	}
}

func TestAsError(t *testing.T) {
	// Existing *Error values pass through untouched
	orig := New(testCode2, "original", nil)
	if got := AsError(orig); got != orig {
		t.Error("Expected AsError to return the same *Error")
	}

	// Standard errors get wrapped as common.internal
	std := errors.New("plain failure")
	wrapped := AsError(std)
	if wrapped.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", wrapped.Code.String())
	}
	if wrapped.Cause != std {
		t.Error("Expected wrapped cause to be the original error")
	}

	if AsError(nil) != nil {
		t.Error("Expected AsError(nil) to be nil")
	}
}

type transformable struct {
	msg string
}

func (t *transformable) Error() string { return t.msg }

func (t *transformable) Transform() *Error {
	return New(unknownColumn, t.msg, nil).AddContext("source", "transformable")
}

func TestAsErrorTransform(t *testing.T) {
	err := AsError(&transformable{msg: "bad column"})

	if err.Code.String() != "metrics.unknown_column" {
		t.Errorf("Expected transformed code, got '%s'", err.Code.String())
	}

	if err.Context["source"] != "transformable" {
		t.Error("Expected Transform context to be carried")
	}
}

func TestGetCode(t *testing.T) {
	err := New(testCode, "test failure", nil)
	if GetCode(err) != "test.code" {
		t.Errorf("Expected 'test.code', got '%s'", GetCode(err))
	}

	if GetCode(errors.New("plain")) != "" {
		t.Error("Expected empty code for plain errors")
	}
}

func TestIsFloeError(t *testing.T) {
	if !IsFloeError(New(testCode, "x", nil)) {
		t.Error("Expected IsFloeError to be true for *Error")
	}
	if IsFloeError(errors.New("plain")) {
		t.Error("Expected IsFloeError to be false for plain errors")
	}
}

func TestFormatError(t *testing.T) {
	err := New(testCode, "test failure", errors.New("root")).
		AddContext("path", "/tmp/m0.avro")

	out := FormatError(err)
	for _, want := range []string{"Code: test.code", "Message: test failure", "path: /tmp/m0.avro", "Cause: root"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected formatted error to contain '%s', got:\n%s", want, out)
		}
	}
}
