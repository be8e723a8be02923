package geometry

import (
	"fmt"
	"math"
	"sort"
)

// ValidationResult separates blocking errors from advisory output. Errors
// stop generation; warnings and suggestions never do.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// Validate runs the manufacturability rule chain for a geometry. It is total:
// any input yields a result, and Valid is true exactly when Errors is empty.
func Validate(p Parsed) ValidationResult {
	r := ValidationResult{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	switch p.Shape {
	case ShapeBox:
		validateBox(p, &r)
	case ShapeCylinder, ShapeCone:
		validateCylindrical(p, &r)
	case ShapeGear:
		validateGear(p, &r)
	}

	// Cross-cutting rules, independent of the per-shape thresholds. Map order
	// is random, so the keys are sorted to keep the result stable per input.
	names := make([]string, 0, len(p.Dimensions))
	for name := range p.Dimensions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if v := p.Dimensions[name]; name != "teeth" && v > 500 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s of %.0fmm will slow down generation for a large part", name, v))
			break
		}
	}
	if p.Shape == ShapeSphere && len(p.Features.Holes) > 0 {
		r.Suggestions = append(r.Suggestions, "holes in a sphere are hard to machine; consider a cylinder or box instead")
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func validateBox(p Parsed, r *ValidationResult) {
	var present []float64
	for _, name := range []string{"length", "width", "height"} {
		v, ok := p.Dimensions[name]
		if !ok || v <= 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("box %s is missing or not positive", name))
			r.Suggestions = append(r.Suggestions, "describe the part like '50x50x10mm plate'")
			continue
		}
		present = append(present, v)

		limit := 1.0
		if name == "height" {
			limit = 0.5
		}
		if v < limit {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s of %.2fmm is very thin and may not be manufacturable", name, v))
		}

		upper := 1000.0
		if name == "height" {
			upper = 500.0
		}
		if v > upper {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s of %.0fmm is very large", name, v))
		}
	}

	if len(present) == 3 {
		maxDim, minDim := present[0], present[0]
		for _, v := range present[1:] {
			maxDim = math.Max(maxDim, v)
			minDim = math.Min(minDim, v)
		}
		if minDim > 0 && maxDim/minDim > 20 {
			r.Warnings = append(r.Warnings, "aspect ratio above 20:1 makes the part structurally weak")
			r.Suggestions = append(r.Suggestions, "increase the smallest dimension for stiffness")
		}
	}
}

func validateCylindrical(p Parsed, r *ValidationResult) {
	dia, hasDia := p.Dimensions["diameter"]
	if !hasDia {
		if rad, hasRad := p.Dimensions["radius"]; hasRad {
			dia, hasDia = rad*2, true
		}
	}
	height, hasHeight := p.Dimensions["height"]

	if !hasDia || !hasHeight {
		r.Errors = append(r.Errors, fmt.Sprintf("%s needs both a diameter (or radius) and a height", p.Shape))
		r.Suggestions = append(r.Suggestions, "try 'cylinder 30mm diameter 80mm height'")
		return
	}
	if dia <= 0 {
		r.Errors = append(r.Errors, "diameter must be positive")
	}
	if height <= 0 {
		r.Errors = append(r.Errors, "height must be positive")
	}
	if dia <= 0 || height <= 0 {
		return
	}

	if inner, ok := p.Dimensions["inner_diameter"]; ok {
		if wall := (dia - inner) / 2; wall < 2 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("wall thickness of %.2fmm is below the 2mm machining minimum", wall))
		}
	}

	if height/dia > 10 {
		r.Warnings = append(r.Warnings, "height more than 10x the diameter makes the part unstable")
	}
}

func validateGear(p Parsed, r *ValidationResult) {
	teeth, hasTeeth := p.Dimensions["teeth"]

	// The one hard physical constraint: below 8 teeth an involute profile
	// cannot mesh, so this blocks instead of warning.
	if !hasTeeth || teeth < 8 {
		r.Errors = append(r.Errors, "a gear needs at least 8 teeth to mesh correctly")
	} else if teeth > 100 {
		r.Warnings = append(r.Warnings, "more than 100 teeth will produce a very fine, fragile profile")
	}

	if _, ok := p.Dimensions["diameter"]; !ok {
		r.Warnings = append(r.Warnings, "no gear diameter given")
		r.Suggestions = append(r.Suggestions, "add a diameter, e.g. 'gear with 24 teeth 60mm diameter'")
	}
	if _, ok := p.Dimensions["height"]; !ok {
		r.Warnings = append(r.Warnings, "no gear thickness given")
		r.Suggestions = append(r.Suggestions, "add a thickness, e.g. '10mm height'")
	}
}
