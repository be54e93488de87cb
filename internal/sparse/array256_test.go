package sparse

import "testing"

func TestInsertGetDelete(t *testing.T) {
	var a Array256[string]

	if _, ok := a.Get(5); ok {
		t.Fatalf("Get on empty array found a value")
	}

	if exists := a.InsertAt(5, "five"); exists {
		t.Fatalf("InsertAt(5) reported exists on first insert")
	}
	if exists := a.InsertAt(200, "two-hundred"); exists {
		t.Fatalf("InsertAt(200) reported exists on first insert")
	}

	if v, ok := a.Get(5); !ok || v != "five" {
		t.Fatalf("Get(5) = %q, %v, want five, true", v, ok)
	}
	if v, ok := a.Get(200); !ok || v != "two-hundred" {
		t.Fatalf("Get(200) = %q, %v, want two-hundred, true", v, ok)
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}

	if exists := a.InsertAt(5, "5"); !exists {
		t.Fatalf("InsertAt(5) again reported not-exists")
	}
	if v, _ := a.Get(5); v != "5" {
		t.Fatalf("overwrite failed, Get(5) = %q", v)
	}

	v, exists := a.DeleteAt(5)
	if !exists || v != "5" {
		t.Fatalf("DeleteAt(5) = %q, %v, want 5, true", v, exists)
	}
	if _, ok := a.Get(5); ok {
		t.Fatalf("Get(5) found a value after delete")
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d after delete, want 1", a.Len())
	}
}

func TestUpdateAt(t *testing.T) {
	var a Array256[int]

	newVal, existed := a.UpdateAt(10, func(old int, wasPresent bool) int {
		if wasPresent {
			t.Fatalf("first UpdateAt reported wasPresent")
		}
		return old + 1
	})
	if existed || newVal != 1 {
		t.Fatalf("UpdateAt first call = %d, %v, want 1, false", newVal, existed)
	}

	newVal, existed = a.UpdateAt(10, func(old int, wasPresent bool) int {
		if !wasPresent {
			t.Fatalf("second UpdateAt reported not wasPresent")
		}
		return old + 1
	})
	if !existed || newVal != 2 {
		t.Fatalf("UpdateAt second call = %d, %v, want 2, true", newVal, existed)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	var a Array256[int]
	a.InsertAt(1, 100)

	b := a.Copy()
	b.InsertAt(2, 200)

	if _, ok := a.Get(2); ok {
		t.Fatalf("mutating the copy leaked into the original")
	}
	if v, ok := b.Get(1); !ok || v != 100 {
		t.Fatalf("copy lost the original's entry")
	}
}

func TestMustSetMustClearForbidden(t *testing.T) {
	var a Array256[int]

	mustPanic := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Fatalf("%s did not panic", name)
			}
		}()
		fn()
	}

	mustPanic("MustSet", func() { a.MustSet(1) })
	mustPanic("MustClear", func() { a.MustClear(1) })
}
