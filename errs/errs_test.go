package errs

import (
	"strings"
	"testing"
)

func TestCollector_HasErrors(t *testing.T) {
	c := NewCollector()
	if c.HasErrors() {
		t.Fatal("empty collector must not report errors")
	}

	c.Report(CodeUnusedSymbol, 1, 1, "symbol %v is unused", "x")
	if c.HasErrors() {
		t.Fatal("a warning-only code must not trip HasErrors")
	}

	c.Report(CodeUndefinedSymbol, 2, 1, "symbol %v is undefined", "y")
	if !c.HasErrors() {
		t.Fatal("a non-warning code must trip HasErrors")
	}
}

func TestCollector_Combined(t *testing.T) {
	c := NewCollector()
	if err := c.Combined(); err != nil {
		t.Fatalf("Combined() on an empty collector = %v, want nil", err)
	}

	c.Report(CodeSyntax, 3, 4, "unexpected token %v", "+")
	c.Report(CodeEmptyGrammar, 0, 0, "grammar has no productions")

	err := c.Combined()
	if err == nil {
		t.Fatal("Combined() with entries must not be nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "SYNTAX") || !strings.Contains(msg, "EMPTY_GRAMMAR") {
		t.Errorf("Combined() = %q, want it to mention both reported codes", msg)
	}
}

func TestSourceError(t *testing.T) {
	e := &Entry{Code: CodeSyntax, Line: 1, Column: 1, Message: "bad token"}
	got := SourceError(e, "")
	if !strings.Contains(got, "bad token") {
		t.Errorf("SourceError() = %q, want it to contain the message", got)
	}
}
