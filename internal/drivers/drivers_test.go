package drivers

import "testing"

func TestFullName(t *testing.T) {
	if got := FullName("VER"); got != "Max_Verstappen" {
		t.Errorf("FullName(VER) = %q", got)
	}
	if got := FullName("ZZZ"); got != "Driver_ZZZ" {
		t.Errorf("FullName(ZZZ) = %q", got)
	}
}

func TestKnown(t *testing.T) {
	if !Known("HAM") {
		t.Error("HAM should be known")
	}
	if Known("ZZZ") {
		t.Error("ZZZ should not be known")
	}
}

func TestCodesSorted(t *testing.T) {
	codes := Codes()
	if len(codes) != 20 {
		t.Fatalf("len(codes) = %d, want 20", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted at %d: %v", i, codes)
		}
	}
}
