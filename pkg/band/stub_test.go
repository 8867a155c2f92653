package band

import (
	"math"
	"testing"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
)

func strip(n int, alpha float64) Strip {
	s := Strip{Top: make([]geom.Vec2, n), Bottom: make([]geom.Vec2, n), Alpha: make([]float64, n)}
	for i := range n {
		s.Top[i] = geom.Vec2{X: float64(i)}
		s.Bottom[i] = geom.Vec2{X: float64(i), Y: 1}
		s.Alpha[i] = alpha
	}
	return s
}

func TestStubFade(t *testing.T) {
	fade, firstZero := StubFade(10, 0, 1)
	want := []float64{1, 1 - 1/1.2, 0, 0, 0, 0, 0, 0, 1 - 1/1.2, 1}
	for i := range want {
		if math.Abs(fade[i]-want[i]) > 1e-9 {
			t.Errorf("fade[%d] = %v, want %v", i, fade[i], want[i])
		}
	}
	if firstZero != 2 {
		t.Errorf("firstZero = %d, want 2", firstZero)
	}
	for i, f := range fade {
		if f < 0 || f > 1 {
			t.Errorf("fade[%d] = %v out of [0,1]", i, f)
		}
		if f != fade[len(fade)-1-i] {
			t.Errorf("fade not symmetric at %d", i)
		}
	}
}

func TestStubify(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		centerAlpha float64
		wantParts   []int
	}{
		{"opaque band unchanged", 10, 1, []int{10}},
		{"faint band cut into stubs", 10, 0, []int{3, 3}},
		{"slight fade stays whole", 10, 0.9, []int{10}},
		{"too short to fade", 2, 0, []int{2}},
		{"odd length", 9, 0, []int{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := Stubify(strip(tt.size, 0.8), tt.centerAlpha, 1)
			if len(parts) != len(tt.wantParts) {
				t.Fatalf("Stubify() = %d parts, want %d", len(parts), len(tt.wantParts))
			}
			for i, p := range parts {
				if p.Len() != tt.wantParts[i] {
					t.Errorf("part %d len = %d, want %d", i, p.Len(), tt.wantParts[i])
				}
				for j, a := range p.Alpha {
					if a < 0 {
						t.Errorf("part %d alpha[%d] = %v < 0", i, j, a)
					}
				}
			}
		})
	}
}

func TestStubifyKeepsEndsOpaque(t *testing.T) {
	parts := Stubify(strip(10, 0.8), 0, 1)
	first, last := parts[0], parts[1]
	if first.Alpha[0] != 0.8 || last.Alpha[last.Len()-1] != 0.8 {
		t.Errorf("end alphas = %v, %v, want 0.8", first.Alpha[0], last.Alpha[last.Len()-1])
	}
	if first.Alpha[first.Len()-1] != 0 {
		t.Errorf("first stub should end transparent, got %v", first.Alpha[first.Len()-1])
	}
	if last.Top[0].X != 7 {
		t.Errorf("second stub starts at x=%v, want 7", last.Top[0].X)
	}
	if got := StubifyAll([]Strip{strip(10, 0.8), strip(4, 0.8)}, 0, 1); len(got) != 4 {
		t.Errorf("StubifyAll() = %d strips, want 4", len(got))
	}
}
