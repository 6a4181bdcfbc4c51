package sample

import (
	"bytes"
	"testing"
)

func TestLoadPGMAscii(t *testing.T) {
	src := "P2\n# a comment\n3 2\n255\n0 128 255\n10 20 30\n"
	pixels, err := LoadPGM(bytes.NewReader([]byte(src)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]float64{{0, 128, 255}, {10, 20, 30}}
	assertPixelsEqual(t, pixels, want)
}

func TestLoadPGMBinary(t *testing.T) {
	header := "P5\n2 2\n255\n"
	buf := bytes.NewBufferString(header)
	buf.Write([]byte{0, 64, 128, 255})
	pixels, err := LoadPGM(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]float64{{0, 64}, {128, 255}}
	assertPixelsEqual(t, pixels, want)
}

func TestLoadPGMRejectsUnsupportedMagic(t *testing.T) {
	if _, err := LoadPGM(bytes.NewReader([]byte("P3\n1 1\n255\n0\n"))); err == nil {
		t.Fatal("expected an error for an unsupported magic number")
	}
}

func assertPixelsEqual(t *testing.T, got, want [][]float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("height = %d, want %d", len(got), len(want))
	}
	for y := range want {
		if len(got[y]) != len(want[y]) {
			t.Fatalf("row %d width = %d, want %d", y, len(got[y]), len(want[y]))
		}
		for x := range want[y] {
			if got[y][x] != want[y][x] {
				t.Errorf("pixel (%d,%d) = %v, want %v", y, x, got[y][x], want[y][x])
			}
		}
	}
}
