package lightning

import (
	"image/color"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestColorAt(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	loop := []color.RGBA{red, blue, red}

	tests := []struct {
		name string
		t    float64
		want color.RGBA
	}{
		{"start", 0, red},
		{"first step", 1, blue},
		{"halfway", 0.5, color.RGBA{R: 128, B: 128, A: 255}},
		{"wraps", 2, red},
		{"negative wraps", -1, blue},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ColorAt(loop, tc.t); got != tc.want {
				t.Errorf("ColorAt(%v) = %v, want %v", tc.t, got, tc.want)
			}
		})
	}

	if got := ColorAt(nil, 3); got != DefaultColor {
		t.Errorf("empty loop = %v, want default", got)
	}
	if got := ColorAt([]color.RGBA{blue}, 3); got != blue {
		t.Errorf("single color = %v", got)
	}
}

func TestBolt_Recolor(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	one, two := anchors(r3.Vec{Y: 10}, r3.Vec{})
	b, factory := newTestBolt(t, Params{
		VertexCount: 4,
		ColorRange:  []color.RGBA{red, blue},
		ColorSpeed:  2,
		FBM:         defaultFBM(),
		One:         one,
		Two:         two,
	})

	if n := b.Recolor(0); n != 0 {
		t.Fatalf("recolored %d segments before first update", n)
	}
	if err := b.Update(); err != nil {
		t.Fatal(err)
	}
	if n := b.Recolor(0.5); n != 3 {
		t.Fatalf("recolored %d segments, want 3", n)
	}
	for i, seg := range factory.created {
		if seg.color != blue {
			t.Errorf("segment %d color = %v, want blue", i, seg.color)
		}
	}
}
