package hash

import "testing"

func TestHash64Deterministic(t *testing.T) {
	inputs := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("ab"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		make([]byte, 257),
	}

	for _, in := range inputs {
		h1 := Hash64(in)
		h2 := Hash64(in)
		if h1 != h2 {
			t.Fatalf("Hash64(%q) not deterministic: %x != %x", in, h1, h2)
		}
	}
}

func TestHash64DistinctInputs(t *testing.T) {
	seen := map[uint64]string{}
	for _, s := range []string{"a", "b", "c", "ab", "ba", "abc", "k4", "k5"} {
		h := Hash64([]byte(s))
		if prev, ok := seen[h]; ok {
			t.Fatalf("hash collision between %q and %q: %x", s, prev, h)
		}
		seen[h] = s
	}
}

func TestHash64LengthBoundaries(t *testing.T) {
	// Exercise every tail-length branch (0..7 extra bytes past a multiple of 8).
	for n := 0; n < 24; n++ {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(i)
		}
		_ = Hash64(buf)
	}
}

func TestSplit(t *testing.T) {
	a, b := Split(0x1122334455667788)
	if a != 0x55667788 {
		t.Fatalf("low32 = %x, want 55667788", a)
	}
	if b != 0x11223344 {
		t.Fatalf("high32 = %x, want 11223344", b)
	}
}
