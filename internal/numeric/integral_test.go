package numeric

import "testing"

func TestBuildIntegralSmall(t *testing.T) {
	g := Grid{
		{1, 2},
		{3, 4},
	}
	s, err := BuildIntegral(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Grid{
		{1, 3},
		{4, 10},
	}
	for i := range want {
		for j := range want[i] {
			if s[i][j] != want[i][j] {
				t.Errorf("S[%d][%d] = %v, want %v", i, j, s[i][j], want[i][j])
			}
		}
	}
}

func TestRectSumMatchesDirectSum(t *testing.T) {
	g := Grid{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	s, err := BuildIntegral(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct{ y1, x1, y2, x2 int }{
		{0, 0, 1, 1},
		{0, 0, 2, 2},
		{1, 1, 3, 3},
		{0, 0, 3, 3},
		{1, 0, 2, 3},
	}

	for _, c := range cases {
		got := s.RectSum(c.y1, c.x1, c.y2, c.x2)
		want := directSum(g, c.y1, c.x1, c.y2, c.x2)
		if got != want {
			t.Errorf("RectSum(%v) = %v, want %v", c, got, want)
		}
	}
}

func directSum(g Grid, y1, x1, y2, x2 int) float64 {
	sum := 0.0
	for i := y1; i < y2; i++ {
		for j := x1; j < x2; j++ {
			sum += g[i][j]
		}
	}
	return sum
}

func TestBuildIntegralEmptyGrid(t *testing.T) {
	if _, err := BuildIntegral(Grid{}); err != ErrEmptyGrid {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
}

func TestSquaredIntegralCornerFormula(t *testing.T) {
	g := Grid{
		{1, 2},
		{3, 4},
	}
	s2, err := BuildSquaredIntegral(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s2[1][1] - s2[0][1] - s2[1][0] + s2[0][0]
	want := 4.0 * 4.0
	if got != want {
		t.Errorf("corner formula on squared integral = %v, want %v", got, want)
	}
}
