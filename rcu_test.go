package octrie

import "testing"

func TestSyncTableInsertGetLookup(t *testing.T) {
	st := NewSyncTable[string]()

	st.Insert(mustPrefix(t, "10.0.0.0/8"), "ten")
	st.Insert(mustPrefix(t, "10.1.0.0/16"), "ten-one")

	if v, ok := st.Get(mustPrefix(t, "10.1.0.0/16")); !ok || v != "ten-one" {
		t.Fatalf("Get = %q, %v, want ten-one, true", v, ok)
	}
	if v, ok := st.Lookup(mustAddr(t, "10.1.2.3")); !ok || v != "ten-one" {
		t.Fatalf("Lookup = %q, %v, want ten-one, true", v, ok)
	}
	if !st.Contains(mustAddr(t, "10.9.9.9")) {
		t.Fatalf("Contains(10.9.9.9) = false, want true")
	}
}

func TestSyncTableReaderSeesSnapshotNotLiveMutation(t *testing.T) {
	st := NewSyncTable[int]()
	st.Insert(mustPrefix(t, "10.0.0.0/8"), 1)

	snapshot := st.Load()

	st.Insert(mustPrefix(t, "10.1.0.0/16"), 2)

	if _, ok := snapshot.Get(mustPrefix(t, "10.1.0.0/16")); ok {
		t.Fatalf("a previously loaded snapshot observed a later Insert")
	}
	if v, ok := st.Get(mustPrefix(t, "10.1.0.0/16")); !ok || v != 2 {
		t.Fatalf("current version missing the later Insert: %d, %v", v, ok)
	}
}

func TestSyncTableDelete(t *testing.T) {
	st := NewSyncTable[int]()
	st.Insert(mustPrefix(t, "10.0.0.0/8"), 1)

	if ok := st.Delete(mustPrefix(t, "10.0.0.0/8")); !ok {
		t.Fatalf("Delete reported not found")
	}
	if st.Contains(mustAddr(t, "10.1.1.1")) {
		t.Fatalf("Contains after Delete = true, want false")
	}
	if ok := st.Delete(mustPrefix(t, "10.0.0.0/8")); ok {
		t.Fatalf("Delete of an already-removed prefix reported ok")
	}
}

func TestSyncTableUpdate(t *testing.T) {
	st := NewSyncTable[int]()
	st.Insert(mustPrefix(t, "10.0.0.0/8"), 1)

	st.Update(mustPrefix(t, "10.0.0.0/8"), func(old int, existed bool) int {
		if !existed {
			t.Fatalf("Update reported not existed for a present prefix")
		}
		return old + 1
	})

	if v, _ := st.Get(mustPrefix(t, "10.0.0.0/8")); v != 2 {
		t.Fatalf("Get after Update = %d, want 2", v)
	}
}

func TestSyncTableFromClonesSource(t *testing.T) {
	var rt Table[int]
	rt.Insert(mustPrefix(t, "10.0.0.0/8"), 1)

	st := SyncTableFrom(&rt)
	st.Insert(mustPrefix(t, "10.1.0.0/16"), 2)

	if _, ok := rt.Get(mustPrefix(t, "10.1.0.0/16")); ok {
		t.Fatalf("SyncTableFrom shared state with the source table")
	}
}
