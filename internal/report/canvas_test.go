package report

import (
	"math"
	"testing"

	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/dynamo"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if got, want := c.String(), string([]rune{0x2801, 0x2880})+"\n"; got != want {
		t.Errorf("canvas = %q, want %q", got, want)
	}
}

func TestProjection(t *testing.T) {
	region := boxcount.Cuboid(1)
	a := dynamo.State{-1, 0, 1}
	b := dynamo.State{1, 0, -1}
	nan := dynamo.State{math.NaN(), 0, 0}

	tests := []struct {
		name   string
		states []dynamo.State
		want   []rune
	}{
		{"diagonal", []dynamo.State{a, b}, []rune{0x2811, 0x2884}},
		{"broken by NaN", []dynamo.State{a, nan, b}, []rune{0x2801, 0x2880}},
		{"empty", nil, []rune{brailleBlank, brailleBlank}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Projection(tt.states, region, 0, 2, 2, 1)
			if want := string(tt.want) + "\n"; got != want {
				t.Errorf("Projection = %q, want %q", got, want)
			}
		})
	}
}

func TestProjection_Degenerate(t *testing.T) {
	if got := Projection(nil, boxcount.Region{}, 0, 2, 10, 5); got != "" {
		t.Errorf("zero-span region should render nothing, got %q", got)
	}
	if got := Projection(nil, boxcount.Cuboid(1), 0, 3, 10, 5); got != "" {
		t.Errorf("bad axis should render nothing, got %q", got)
	}
}
