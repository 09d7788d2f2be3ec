package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "no valid seed hashtags")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeConflict, "campaign is %s", "active")
	if got := e2.Error(); got != "campaign is active" {
		t.Fatalf("Newf().Error = %q", got)
	}

	// Wrap / Wrapf keep the original reachable through Unwrap
	src := stderrs.New("connection reset")
	e3 := Wrap(src, ErrorCodeDB, "corpus scan failed")
	if inner := stderrs.Unwrap(e3); inner == nil || inner.Error() != "connection reset" {
		t.Fatalf("Wrap did not keep orig")
	}
	if CodeOf(e3) != ErrorCodeDB {
		t.Fatalf("CodeOf(Wrap) = %v", CodeOf(e3))
	}
	e4 := Wrapf(src, ErrorCodeUnavailable, "embedding index %s", "down")
	if want := "embedding index down: connection reset"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	// As
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeUnavailable {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// WithField and WithOp are copy-on-write
	e5 := Wrap(src, ErrorCodeInvalidArgument, "bad strategy")
	e6 := WithField(e5, "strategy")
	e7 := WithOp(e6, "execute")
	if fe, ok := As(e6); !ok || fe.Field() != "strategy" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "execute" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
}

func TestRootAndIsCode(t *testing.T) {
	src := stderrs.New("root cause")
	wrapped := Wrap(Wrap(src, ErrorCodeDB, "inner"), ErrorCodeUnavailable, "outer")

	if Root(wrapped) != src {
		t.Fatalf("Root = %v, want original", Root(wrapped))
	}
	if !IsCode(wrapped, ErrorCodeUnavailable) {
		t.Fatalf("IsCode should see the outermost code")
	}
	if IsCode(nil, ErrorCodeUnavailable) {
		t.Fatalf("IsCode(nil) should be false")
	}
}

func TestSugarConstructors(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("campaign %d", 7), ErrorCodeNotFound},
		{InvalidArgf("bad id"), ErrorCodeInvalidArgument},
		{Validationf("seeds required"), ErrorCodeValidation},
		{JSONErrf("truncated body"), ErrorCodeJSON},
		{PanicErrf("recovered"), ErrorCodePanic},
		{Conflictf("status moved"), ErrorCodeConflict},
		{Unavailablef("index offline"), ErrorCodeUnavailable},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.code {
			t.Fatalf("CodeOf(%v) = %v, want %v", c.err, CodeOf(c.err), c.code)
		}
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(Newf(ErrorCodeNotFound, "campaign missing"))
	if w.Code != ErrorCodeNotFound || w.Message != "campaign missing" {
		t.Fatalf("WireFrom(*Error) = %+v", w)
	}

	w2 := WireFrom(stderrs.New("plain"))
	if w2.Code != ErrorCodeUnknown || w2.Message != "plain" {
		t.Fatalf("WireFrom(foreign) = %+v", w2)
	}
}
