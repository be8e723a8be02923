package geometry

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateSoundGeometry(t *testing.T) {
	prompts := []string{
		"box 100mm x 50mm x 10mm",
		"cylinder 30mm diameter 80mm height",
		"sphere 25mm radius",
		"gear with 24 teeth 60mm diameter 10mm height",
	}

	for _, prompt := range prompts {
		r := Validate(Parse(prompt))
		if !r.Valid {
			t.Errorf("%q should be valid, errors: %v", prompt, r.Errors)
		}
		if len(r.Errors) != 0 {
			t.Errorf("%q: Valid must mean no errors, got %v", prompt, r.Errors)
		}
	}
}

func TestValidateGearTeeth(t *testing.T) {
	r := Validate(Parse("gear with 4 teeth"))

	if r.Valid {
		t.Fatal("a 4-tooth gear must be rejected")
	}
	found := false
	for _, e := range r.Errors {
		if strings.Contains(e, "8 teeth") {
			found = true
		}
	}
	if !found {
		t.Errorf("error should state the 8-tooth minimum, got %v", r.Errors)
	}

	r = Validate(Parse("gear with 8 teeth 60mm diameter 10mm height"))
	if !r.Valid {
		t.Errorf("8 teeth is the minimum and should pass, errors: %v", r.Errors)
	}

	r = Validate(Parse("gear with 150 teeth 200mm diameter 10mm height"))
	if !r.Valid {
		t.Errorf("many teeth should warn, not block: %v", r.Errors)
	}
	if len(r.Warnings) == 0 {
		t.Error("expected a warning above 100 teeth")
	}
}

func TestValidateAspectRatio(t *testing.T) {
	p := Parse("box 500mm x 500mm x 2mm")
	r := Validate(p)

	if !r.Valid {
		t.Fatalf("thin plate should pass with warnings, errors: %v", r.Errors)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "aspect ratio") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an aspect ratio warning, got %v", r.Warnings)
	}
}

func TestValidateSlenderCylinder(t *testing.T) {
	r := Validate(Parse("rod 5mm diameter 100mm height"))
	if !r.Valid {
		t.Fatalf("slender rod should pass, errors: %v", r.Errors)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "unstable") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a stability warning, got %v", r.Warnings)
	}
}

func TestValidateLargePartWarning(t *testing.T) {
	r := Validate(Parse("box 800mm x 100mm x 10mm"))
	if !r.Valid {
		t.Fatalf("large box should pass, errors: %v", r.Errors)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "slow down generation") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a generation-time warning, got %v", r.Warnings)
	}
}

func TestValidateLargePartWarningIsStable(t *testing.T) {
	// Two oversized dimensions; the warning must name the same one every
	// time or cached previews diverge from fresh ones.
	p := Parse("box 600mm x 700mm x 10mm")
	first := Validate(p)
	for i := 0; i < 200; i++ {
		r := Validate(p)
		if !reflect.DeepEqual(r, first) {
			t.Fatalf("validation %d differs: %+v vs %+v", i, r, first)
		}
	}
	found := false
	for _, w := range first.Warnings {
		if strings.Contains(w, "length of 600mm") {
			found = true
		}
	}
	if !found {
		t.Errorf("warning should name the first dimension in key order, got %v", first.Warnings)
	}
}

func TestValidateSphereWithHole(t *testing.T) {
	r := Validate(Parse("sphere 25mm radius with a 5mm hole"))
	if !r.Valid {
		t.Fatalf("sphere with hole should pass, errors: %v", r.Errors)
	}
	if len(r.Suggestions) == 0 {
		t.Error("expected a suggestion about drilling a sphere")
	}
}

func TestValidateZeroDimension(t *testing.T) {
	p := Parse("box")
	p.Dimensions["height"] = 0
	r := Validate(p)

	if r.Valid {
		t.Error("zero height must be a blocking error")
	}
}

func TestValidateEmptySlicesNotNil(t *testing.T) {
	r := Validate(Parse("box 50mm x 50mm x 10mm"))
	if r.Errors == nil || r.Warnings == nil || r.Suggestions == nil {
		t.Error("result slices must be empty, not nil, for stable JSON")
	}
}
