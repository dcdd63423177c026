package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestDepthGuard(t *testing.T) {
	d := NewDepth(2)
	if err := d.Enter("a"); err != nil {
		t.Fatal(err)
	}
	if err := d.Enter("b"); err != nil {
		t.Fatal(err)
	}
	err := d.Enter("c")
	if KindOf(err) != StackOverflow {
		t.Fatalf("expected stack overflow, got %v", err)
	}
	d.Leave()
	if err := d.Enter("c"); err != nil {
		t.Fatalf("depth should be available again: %v", err)
	}
	if d.Peak != 2 {
		t.Errorf("peak = %d", d.Peak)
	}
}

func TestFaultMatching(t *testing.T) {
	err := fmt.Errorf("executing: %w", New(DivisionByZero, "%d / 0", 7).In("f"))
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatal("errors.Is should match by kind")
	}
	if errors.Is(err, ErrStackOverflow) {
		t.Fatal("different kinds must not match")
	}
	if got := err.Error(); got != "executing: runtime error: division by zero: 7 / 0 (in f)" {
		t.Errorf("got %q", got)
	}
}
