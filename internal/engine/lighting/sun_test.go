package lighting

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		name      string
		azimuth   float32
		elevation float32
		want      mgl32.Vec3
	}{
		{"front horizon", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"right horizon", 90, 0, mgl32.Vec3{1, 0, 0}},
		{"overhead", 30, 90, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Direction(tt.azimuth, tt.elevation)
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-5 {
					t.Errorf("Direction(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
					break
				}
			}
			if l := got.Len(); math.Abs(float64(l-1)) > 1e-5 {
				t.Errorf("length = %v, want 1", l)
			}
		})
	}
}
