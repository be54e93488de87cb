package allot

import "testing"

func TestHostRoutesTblDefaultRoute(t *testing.T) {
	// idx 1 is the default route (octet 0, pfxLen 0): covers every octet.
	bs := HostRoutesTbl[1]
	for _, octet := range []uint{0, 1, 128, 255} {
		if !bs.Test(octet) {
			t.Errorf("HostRoutesTbl[1] missing octet %d", octet)
		}
	}
	if bs.Size() != 256 {
		t.Errorf("HostRoutesTbl[1] covers %d octets, want 256", bs.Size())
	}
}

func TestHostRoutesTblNarrowPrefix(t *testing.T) {
	// idx 128 is octet 0 / pfxLen 7: covers octets 0 and 1 only.
	bs := HostRoutesTbl[128]
	if bs.Size() != 2 || !bs.Test(0) || !bs.Test(1) {
		t.Errorf("HostRoutesTbl[128] = %v, want {0, 1}", bs.All())
	}
}

func TestHostRoutesTblHostRoute(t *testing.T) {
	// idx 160+256=416 would be a host index, out of this table's [1..255]
	// domain; the narrowest representable prefix is pfxLen 7 (two octets).
	// Pick idx for octet 160 / pfxLen 3 == 13 (the spec's worked example).
	bs := HostRoutesTbl[13]
	for o := 160; o <= 191; o++ {
		if !bs.Test(uint(o)) {
			t.Errorf("HostRoutesTbl[13] missing octet %d", o)
		}
	}
	if bs.Size() != 32 {
		t.Errorf("HostRoutesTbl[13] covers %d octets, want 32", bs.Size())
	}
}
