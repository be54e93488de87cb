package idx

import "testing"

func TestPfxToIdxWorkedExamples(t *testing.T) {
	cases := []struct {
		octet  uint8
		pfxLen int
		want   uint8
	}{
		{0, 0, 1},
		{0, 8, 128},
		{255, 8, 255},
		{160, 3, 13},
	}

	for _, c := range cases {
		if got := PfxToIdx(c.octet, c.pfxLen); got != c.want {
			t.Errorf("PfxToIdx(%d, %d) = %d, want %d", c.octet, c.pfxLen, got, c.want)
		}
	}
}

// TestIdxToPfxRoundTrip checks the round trip over pfxLen in [0..7], the
// domain PfxToIdx is actually invertible over (pfxLen == 8 collides with
// pfxLen == 7 by construction of the overflow fold; see DESIGN.md).
func TestIdxToPfxRoundTrip(t *testing.T) {
	for pfxLen := 0; pfxLen <= 7; pfxLen++ {
		for octet := 0; octet < 256; octet++ {
			masked := uint8(octet) & NetMask(pfxLen)
			gotIdx := PfxToIdx(uint8(octet), pfxLen)

			gotOctet, gotPfxLen := IdxToPfx(gotIdx)
			if gotOctet != masked || gotPfxLen != pfxLen {
				t.Fatalf("IdxToPfx(PfxToIdx(%d, %d)) = (%d, %d), want (%d, %d)",
					octet, pfxLen, gotOctet, gotPfxLen, masked, pfxLen)
			}
		}
	}
}

func TestIdxToRangeWorkedExamples(t *testing.T) {
	if first, last := IdxToRange(1); first != 0 || last != 255 {
		t.Errorf("IdxToRange(1) = (%d, %d), want (0, 255)", first, last)
	}
	if first, last := IdxToRange(128); first != 0 || last != 1 {
		t.Errorf("IdxToRange(128) = (%d, %d), want (0, 1)", first, last)
	}
}

func TestHostIdx(t *testing.T) {
	if got := HostIdx(0); got != 256 {
		t.Errorf("HostIdx(0) = %d, want 256", got)
	}
	if got := HostIdx(255); got != 511 {
		t.Errorf("HostIdx(255) = %d, want 511", got)
	}
}

func TestNetMask(t *testing.T) {
	if got := NetMask(0); got != 0 {
		t.Errorf("NetMask(0) = %08b, want 0", got)
	}
	if got := NetMask(8); got != 0xFF {
		t.Errorf("NetMask(8) = %08b, want 11111111", got)
	}
	if got := NetMask(3); got != 0b1110_0000 {
		t.Errorf("NetMask(3) = %08b, want 11100000", got)
	}
}
