package caddy

import (
	"strings"
	"testing"
)

func TestResult_SuccessShape(t *testing.T) {
	r := ok(42)
	if !r.Success {
		t.Error("ok() Success = false, want true")
	}
	if r.Data != 42 {
		t.Errorf("ok() Data = %d, want 42", r.Data)
	}
	if r.Message != "" {
		t.Errorf("ok() Message = %q, want empty", r.Message)
	}
	if r.Failed() {
		t.Error("ok() Failed() = true, want false")
	}
	if err := r.Err(); err != nil {
		t.Errorf("ok() Err() = %v, want nil", err)
	}
}

func TestResult_FailureShape(t *testing.T) {
	r := fail[int]("bad thing: %d", 7)
	if r.Success {
		t.Error("fail() Success = true, want false")
	}
	if r.Data != 0 {
		t.Errorf("fail() Data = %d, want zero value", r.Data)
	}
	if r.Message != "bad thing: 7" {
		t.Errorf("fail() Message = %q, want %q", r.Message, "bad thing: 7")
	}
	if !r.Failed() {
		t.Error("fail() Failed() = false, want true")
	}
}

func TestResult_Err(t *testing.T) {
	err := fail[string]("no route to host").Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	if !strings.Contains(err.Error(), "no route to host") {
		t.Errorf("Err() = %q, should carry the message", err.Error())
	}

	if err := fail[string]("").Err(); err == nil {
		t.Error("Err() on empty-message failure = nil, want error")
	}
}

func TestResult_Unwrap(t *testing.T) {
	v, err := ok("hello").Unwrap()
	if err != nil {
		t.Errorf("Unwrap() err = %v, want nil", err)
	}
	if v != "hello" {
		t.Errorf("Unwrap() value = %q, want %q", v, "hello")
	}

	_, err = fail[string]("nope").Unwrap()
	if err == nil {
		t.Error("Unwrap() on failure err = nil, want error")
	}
}
