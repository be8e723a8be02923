package geometry

import (
	"math"
	"testing"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDetectModification(t *testing.T) {
	tests := []struct {
		text string
		want Modification
	}{
		{"make it 20% larger", Modification{IsModification: true, Operation: OpScale, Value: 1.2, Dimension: "all"}},
		{"make it 50% smaller", Modification{IsModification: true, Operation: OpScale, Value: 0.5, Dimension: "all"}},
		{"scale by 2.5", Modification{IsModification: true, Operation: OpScale, Value: 2.5, Dimension: "all"}},
		{"double the size", Modification{IsModification: true, Operation: OpScale, Value: 2, Dimension: "all"}},
		{"cut it in half", Modification{IsModification: true, Operation: OpScale, Value: 0.5, Dimension: "all"}},
		{"set the height to 25", Modification{IsModification: true, Operation: OpSetDimension, Value: 25, Dimension: "height"}},
		{"add 5mm to the width", Modification{IsModification: true, Operation: OpAddDimension, Value: 5, Dimension: "width"}},
		{"create a 100mm box", Modification{}},
		{"a gear with 24 teeth", Modification{}},
	}

	for _, tt := range tests {
		if got := DetectModification(tt.text); got != tt.want {
			t.Errorf("DetectModification(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func TestApplyScale(t *testing.T) {
	p := Parse("50mm box")
	out := Apply(p, Modification{IsModification: true, Operation: OpScale, Value: 1.2, Dimension: "all"})

	if got := out.Dimensions["length"]; got != 60 {
		t.Errorf("length = %v, want 60", got)
	}
	if got := out.Dimensions["height"]; got != 12 {
		t.Errorf("height = %v, want 12", got)
	}
	// The original is untouched.
	if p.Dimensions["length"] != 50 {
		t.Error("Apply mutated its input")
	}
}

func TestApplyScaleRoundsTeeth(t *testing.T) {
	p := Parse("gear with 24 teeth 60mm diameter")
	out := Apply(p, Modification{IsModification: true, Operation: OpScale, Value: 1.1, Dimension: "all"})

	if got := out.Dimensions["teeth"]; got != 26 {
		t.Errorf("teeth after 1.1 scale = %v, want 26", got)
	}
	if got := out.Dimensions["diameter"]; !nearlyEqual(got, 66) {
		t.Errorf("diameter after 1.1 scale = %v, want 66", got)
	}
}

func TestApplySetAndAdd(t *testing.T) {
	p := Parse("box 100mm x 50mm x 10mm")

	out := Apply(p, Modification{IsModification: true, Operation: OpSetDimension, Value: 25, Dimension: "height"})
	if got := out.Dimensions["height"]; got != 25 {
		t.Errorf("height = %v, want 25", got)
	}

	out = Apply(out, Modification{IsModification: true, Operation: OpAddDimension, Value: 5, Dimension: "width"})
	if got := out.Dimensions["width"]; got != 55 {
		t.Errorf("width = %v, want 55", got)
	}

	// Setting a dimension the shape does not have is a no-op.
	out = Apply(p, Modification{IsModification: true, Operation: OpSetDimension, Value: 33, Dimension: "radius"})
	if _, ok := out.Dimensions["radius"]; ok {
		t.Error("set on a missing dimension must not invent it")
	}
}

func TestRebuildPromptRoundTrips(t *testing.T) {
	prompts := []string{
		"box 100mm x 50mm x 10mm with a 5mm hole",
		"cylinder 30mm diameter 80mm height",
		"sphere 25mm radius",
		"cone 40mm diameter 60mm height",
		"torus 30mm radius",
		"gear with 24 teeth 60mm diameter 10mm height",
		"shaft 20mm diameter H7/g6",
	}

	for _, prompt := range prompts {
		p := Parse(prompt)
		rebuilt := RebuildPrompt(p)
		again := Parse(rebuilt)

		if again.Shape != p.Shape {
			t.Errorf("%q rebuilt as %q: shape %q -> %q", prompt, rebuilt, p.Shape, again.Shape)
			continue
		}
		for k, v := range p.Dimensions {
			if again.Dimensions[k] != v {
				t.Errorf("%q rebuilt as %q: %s %v -> %v", prompt, rebuilt, k, v, again.Dimensions[k])
			}
		}
		if again.Fit != p.Fit {
			t.Errorf("%q rebuilt as %q: fit %q -> %q", prompt, rebuilt, p.Fit, again.Fit)
		}
	}
}

func TestModifyThenRebuildFlow(t *testing.T) {
	p := Parse("50mm box")
	mod := DetectModification("make it 20% larger")
	if !mod.IsModification {
		t.Fatal("expected a modification")
	}

	resolved := Parse(RebuildPrompt(Apply(p, mod)))
	if got := resolved.Dimensions["length"]; got != 60 {
		t.Errorf("length after modify flow = %v, want 60", got)
	}
	if got := resolved.Dimensions["height"]; got != 12 {
		t.Errorf("height after modify flow = %v, want 12", got)
	}
}
