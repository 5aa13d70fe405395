package symtab

import (
	"testing"

	"sysyc/internal/types"
)

// TestShadowing covers spec.md §8's symbol-shadowing invariant: a name
// bound in an inner frame hides an outer binding of the same name while
// the inner frame is live, and the outer binding reappears once the
// inner frame is popped.
func TestShadowing(t *testing.T) {
	tab := New()
	outer := &Binding{Name: "x", Type: types.Int(), ConstInt: 1}
	if err := tab.Insert(outer); err != nil {
		t.Fatalf("insert outer: %v", err)
	}

	tab.Push()
	inner := &Binding{Name: "x", Type: types.Float(), ConstFloat: 2}
	if err := tab.Insert(inner); err != nil {
		t.Fatalf("insert inner: %v", err)
	}
	if got := tab.Lookup("x"); got != inner {
		t.Fatalf("expected inner binding to shadow outer, got %+v", got)
	}
	tab.Pop()

	if got := tab.Lookup("x"); got != outer {
		t.Fatalf("expected outer binding to reappear after pop, got %+v", got)
	}
}

// TestRedeclarationRejected covers the companion half of the same
// invariant: two bindings of the same name in one frame is an error,
// not silent shadowing.
func TestRedeclarationRejected(t *testing.T) {
	tab := New()
	if err := tab.Insert(&Binding{Name: "x", Type: types.Int()}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := tab.Insert(&Binding{Name: "x", Type: types.Int()}); err == nil {
		t.Fatalf("expected redeclaration of x in the same frame to error")
	}
}

// TestLookupUnbound covers the miss path: a name bound nowhere resolves
// to nil rather than panicking.
func TestLookupUnbound(t *testing.T) {
	tab := New()
	if got := tab.Lookup("nope"); got != nil {
		t.Fatalf("expected nil for an unbound name, got %+v", got)
	}
}

// TestAtGlobalScope covers the frame-depth bookkeeping Push/Pop drive.
func TestAtGlobalScope(t *testing.T) {
	tab := New()
	if !tab.AtGlobalScope() {
		t.Fatalf("a fresh table should be at global scope")
	}
	tab.Push()
	if tab.AtGlobalScope() {
		t.Fatalf("after Push, table should no longer be at global scope")
	}
	tab.Pop()
	if !tab.AtGlobalScope() {
		t.Fatalf("after matching Pop, table should be back at global scope")
	}
}
