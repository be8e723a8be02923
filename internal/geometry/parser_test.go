package geometry

import (
	"reflect"
	"testing"
)

func TestParsePlateWithHole(t *testing.T) {
	p := Parse("Create a 100mm x 50mm x 10mm plate with a 5mm hole in the center")

	if p.Shape != ShapeBox {
		t.Fatalf("shape = %q, want box", p.Shape)
	}
	want := map[string]float64{"length": 100, "width": 50, "height": 10}
	if !reflect.DeepEqual(p.Dimensions, want) {
		t.Errorf("dimensions = %v, want %v", p.Dimensions, want)
	}
	if len(p.Features.Holes) != 1 || p.Features.Holes[0].Diameter != 5 {
		t.Errorf("holes = %v, want one 5mm hole", p.Features.Holes)
	}
}

func TestParseGear(t *testing.T) {
	p := Parse("I need a gear with 24 teeth, 60mm diameter, 10mm thick")

	if p.Shape != ShapeGear {
		t.Fatalf("shape = %q, want gear", p.Shape)
	}
	want := map[string]float64{"teeth": 24, "diameter": 60, "height": 10}
	if !reflect.DeepEqual(p.Dimensions, want) {
		t.Errorf("dimensions = %v, want %v", p.Dimensions, want)
	}
}

func TestShapeClassification(t *testing.T) {
	tests := []struct {
		text string
		want Shape
	}{
		{"a mounting plate", ShapeBox},
		{"steel rod 10mm", ShapeCylinder},
		{"a copper pipe", ShapeCylinder},
		{"rubber ball", ShapeSphere},
		{"sprocket with 18 teeth", ShapeGear},
		{"traffic cone", ShapeCone},
		{"sealing washer", ShapeTorus},
		// "flat ring": box vocabulary outranks torus vocabulary.
		{"flat ring", ShapeBox},
		// No keyword at all falls back to a box.
		{"something 40mm wide", ShapeBox},
	}

	for _, tt := range tests {
		if got := Parse(tt.text).Shape; got != tt.want {
			t.Errorf("Parse(%q).Shape = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestUnitConversion(t *testing.T) {
	tests := []struct {
		text string
		dim  string
		want float64
	}{
		{"box 5cm x 5cm x 1cm", "length", 50},
		{"rod 2inch diameter", "diameter", 50.8},
		{"plate 1m long", "length", 1000},
		{"beam 1ft", "length", 304.8},
		{"box 25mm", "length", 25},
	}

	for _, tt := range tests {
		p := Parse(tt.text)
		if got := p.Dimensions[tt.dim]; got != tt.want {
			t.Errorf("Parse(%q).Dimensions[%q] = %v, want %v", tt.text, tt.dim, got, tt.want)
		}
	}
}

func TestDefaultsCompletePerShape(t *testing.T) {
	prompts := map[Shape]string{
		ShapeBox:      "a box",
		ShapeCylinder: "a cylinder",
		ShapeSphere:   "a sphere",
		ShapeCone:     "a cone",
		ShapeTorus:    "a torus",
		ShapeGear:     "a gear",
	}

	for shape, prompt := range prompts {
		p := Parse(prompt)
		if p.Shape != shape {
			t.Errorf("Parse(%q).Shape = %q, want %q", prompt, p.Shape, shape)
			continue
		}
		for _, dim := range RequiredDimensions(shape) {
			if _, ok := p.Dimensions[dim]; !ok {
				t.Errorf("Parse(%q) missing default for %q", prompt, dim)
			}
		}
	}
}

func TestDefaultValues(t *testing.T) {
	p := Parse("a box")
	want := map[string]float64{"length": 50, "width": 50, "height": 10}
	if !reflect.DeepEqual(p.Dimensions, want) {
		t.Errorf("bare box dimensions = %v, want %v", p.Dimensions, want)
	}

	// A single number fills length, and width follows it rather than the
	// static default.
	p = Parse("100mm box")
	want = map[string]float64{"length": 100, "width": 100, "height": 10}
	if !reflect.DeepEqual(p.Dimensions, want) {
		t.Errorf("100mm box dimensions = %v, want %v", p.Dimensions, want)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	text := "gear with 24 teeth, 60mm diameter, 10mm thick, H7/g6 fit and a 5mm hole"
	first := Parse(text)
	for i := 0; i < 5; i++ {
		if got := Parse(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("parse %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestDetectFeatures(t *testing.T) {
	p := Parse("plate with rounded edges and a chamfer")
	if !p.Features.Fillet || p.Features.FilletRadius != 3 {
		t.Errorf("fillet = %v r=%v, want default 3mm fillet", p.Features.Fillet, p.Features.FilletRadius)
	}
	if !p.Features.Chamfer || p.Features.ChamferSize != 2 {
		t.Errorf("chamfer = %v size=%v, want default 2mm chamfer", p.Features.Chamfer, p.Features.ChamferSize)
	}

	p = Parse("plate with 2.5mm fillet and 1mm chamfer")
	if p.Features.FilletRadius != 2.5 || p.Features.ChamferSize != 1 {
		t.Errorf("explicit sizes not picked up: %+v", p.Features)
	}
}

func TestDetectFit(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"shaft with H7/g6 fit", "H7/g6"},
		{"bored to h7", "H7"},
		{"shaft ground to g6", "g6"},
		{"no fit mentioned", ""},
	}

	for _, tt := range tests {
		if got := Parse(tt.text).Fit; got != tt.want {
			t.Errorf("Parse(%q).Fit = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFitDigitsAreNotDimensions(t *testing.T) {
	p := Parse("20mm shaft H7/g6")
	if p.Fit != "H7/g6" {
		t.Errorf("fit = %q, want H7/g6", p.Fit)
	}
	if got := p.Dimensions["diameter"]; got != 20 {
		t.Errorf("diameter = %v, want 20", got)
	}
	// The 7 and 6 are tolerance grades; the height falls back to its default.
	if got := p.Dimensions["height"]; got != 50 {
		t.Errorf("height = %v, want the 50mm default", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := Parse("box 10mm with a 5mm hole")
	c := p.Clone()
	c.Dimensions["length"] = 999
	c.Features.Holes[0].Diameter = 999

	if p.Dimensions["length"] == 999 {
		t.Error("clone shares the dimensions map")
	}
	if p.Features.Holes[0].Diameter == 999 {
		t.Error("clone shares the holes slice")
	}
}
