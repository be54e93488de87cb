package bitset

import "testing"

func TestSetTestClear(t *testing.T) {
	var bs Set256

	for _, bit := range []uint{0, 1, 63, 64, 128, 255} {
		if bs.Test(bit) {
			t.Fatalf("bit %d set before MustSet", bit)
		}
		bs.MustSet(bit)
		if !bs.Test(bit) {
			t.Fatalf("bit %d not set after MustSet", bit)
		}
		bs.MustClear(bit)
		if bs.Test(bit) {
			t.Fatalf("bit %d still set after MustClear", bit)
		}
	}
}

func TestFirstSetNextSet(t *testing.T) {
	var bs Set256
	bs.MustSet(5)
	bs.MustSet(64)
	bs.MustSet(200)

	first, ok := bs.FirstSet()
	if !ok || first != 5 {
		t.Fatalf("FirstSet() = %d, %v, want 5, true", first, ok)
	}

	next, ok := bs.NextSet(first + 1)
	if !ok || next != 64 {
		t.Fatalf("NextSet(6) = %d, %v, want 64, true", next, ok)
	}

	next, ok = bs.NextSet(next + 1)
	if !ok || next != 200 {
		t.Fatalf("NextSet(65) = %d, %v, want 200, true", next, ok)
	}

	if _, ok = bs.NextSet(201); ok {
		t.Fatalf("NextSet(201) found a bit, want none")
	}
}

func TestIntersectionTop(t *testing.T) {
	var a, b Set256
	a.MustSet(1)
	a.MustSet(130)
	b.MustSet(1)
	b.MustSet(5)
	b.MustSet(130)

	top, ok := a.IntersectionTop(&b)
	if !ok || top != 130 {
		t.Fatalf("IntersectionTop = %d, %v, want 130, true", top, ok)
	}

	var c Set256
	c.MustSet(7)
	if _, ok := a.IntersectionTop(&c); ok {
		t.Fatalf("IntersectionTop found a bit with no intersection")
	}
}

func TestRank0(t *testing.T) {
	var bs Set256
	bs.MustSet(3)
	bs.MustSet(10)
	bs.MustSet(200)

	if r := bs.Rank0(3); r != 0 {
		t.Fatalf("Rank0(3) = %d, want 0", r)
	}
	if r := bs.Rank0(10); r != 1 {
		t.Fatalf("Rank0(10) = %d, want 1", r)
	}
	if r := bs.Rank0(200); r != 2 {
		t.Fatalf("Rank0(200) = %d, want 2", r)
	}
}

func TestUnionIntersection(t *testing.T) {
	var a, b Set256
	a.MustSet(1)
	a.MustSet(2)
	b.MustSet(2)
	b.MustSet(3)

	u := a.Union(&b)
	for _, bit := range []uint{1, 2, 3} {
		if !u.Test(bit) {
			t.Fatalf("Union missing bit %d", bit)
		}
	}

	i := a.Intersection(&b)
	if i.Size() != 1 || !i.Test(2) {
		t.Fatalf("Intersection = %v, want just bit 2", i.All())
	}

	if !a.IntersectsAny(&b) {
		t.Fatalf("IntersectsAny false, want true")
	}

	var c Set256
	c.MustSet(99)
	if a.IntersectsAny(&c) {
		t.Fatalf("IntersectsAny true, want false")
	}
}

func TestSizeIsEmpty(t *testing.T) {
	var bs Set256
	if !bs.IsEmpty() {
		t.Fatalf("zero value not empty")
	}
	bs.MustSet(42)
	if bs.IsEmpty() {
		t.Fatalf("non-empty set reported empty")
	}
	if bs.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", bs.Size())
	}
}
