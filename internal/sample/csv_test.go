package sample

import (
	"strings"
	"testing"
)

func TestLoadVectorTable(t *testing.T) {
	src := "1.0,2.5,0\n-1.0,3.5,1\n"
	x, labels, err := LoadVectorTable(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(x) != 2 || len(labels) != 2 {
		t.Fatalf("got %d rows / %d labels, want 2/2", len(x), len(labels))
	}
	if x[0][0] != 1.0 || x[0][1] != 2.5 || labels[0] != 0 {
		t.Errorf("row 0 = %v/%v, want [1 2.5]/0", x[0], labels[0])
	}
	if x[1][0] != -1.0 || x[1][1] != 3.5 || labels[1] != 1 {
		t.Errorf("row 1 = %v/%v, want [-1 3.5]/1", x[1], labels[1])
	}
}

func TestLoadVectorTableRejectsShortRow(t *testing.T) {
	if _, _, err := LoadVectorTable(strings.NewReader("1.0\n")); err == nil {
		t.Fatal("expected an error for a row with fewer than 2 fields")
	}
}
