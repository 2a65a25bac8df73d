package hash

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	h := New()

	a := h.Fingerprint([]byte("selfie bytes"))
	b := h.Fingerprint([]byte("selfie bytes"))
	if a != b {
		t.Fatalf("same content produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestFingerprintEmptyInput(t *testing.T) {
	h := New()

	if h.Fingerprint(nil) != h.Fingerprint([]byte{}) {
		t.Fatal("nil and empty slice should fingerprint identically")
	}
}

func TestSameContent(t *testing.T) {
	h := New()

	if !h.SameContent([]byte{0x01, 0x02}, []byte{0x01, 0x02}) {
		t.Fatal("identical buffers reported as different")
	}
	if h.SameContent([]byte{0x01, 0x02}, []byte{0x01, 0x03}) {
		t.Fatal("different buffers reported as identical")
	}
}
