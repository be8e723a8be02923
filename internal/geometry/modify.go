package geometry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Operation string

const (
	OpScale        Operation = "scale"
	OpSetDimension Operation = "set_dimension"
	OpAddDimension Operation = "add_dimension"
)

// Modification is a delta instruction recognized in free text, to be applied
// against a previously parsed geometry. Derived per input, never persisted.
type Modification struct {
	IsModification bool      `json:"isModification"`
	Operation      Operation `json:"operation,omitempty"`
	Value          float64   `json:"value,omitempty"`
	Dimension      string    `json:"dimension,omitempty"`
}

// The pattern table is checked in order; the first match wins.
var (
	percentPattern = regexp.MustCompile(`make\s+it\s+(\d+(?:\.\d+)?)\s*%\s*(larger|bigger|smaller)`)
	scalePattern   = regexp.MustCompile(`scale\s+(?:by|to)\s+(\d+(?:\.\d+)?)`)
	setPattern     = regexp.MustCompile(`set\s+(?:the\s+)?([a-z]+)\s+to\s+(\d+(?:\.\d+)?)`)
	addPattern     = regexp.MustCompile(`add\s+(\d+(?:\.\d+)?)\s*mm\s+to\s+(?:the\s+)?([a-z]+)`)
)

// DetectModification decides whether text is a delta instruction rather than
// a fresh part description.
func DetectModification(text string) Modification {
	lower := strings.ToLower(text)

	if m := percentPattern.FindStringSubmatch(lower); m != nil {
		pct := parseFloat(m[1]) / 100
		factor := 1 + pct
		if m[2] == "smaller" {
			factor = 1 - pct
		}
		return Modification{IsModification: true, Operation: OpScale, Value: factor, Dimension: "all"}
	}

	if m := scalePattern.FindStringSubmatch(lower); m != nil {
		return Modification{IsModification: true, Operation: OpScale, Value: parseFloat(m[1]), Dimension: "all"}
	}

	if strings.Contains(lower, "double") {
		return Modification{IsModification: true, Operation: OpScale, Value: 2, Dimension: "all"}
	}
	if strings.Contains(lower, "half") {
		return Modification{IsModification: true, Operation: OpScale, Value: 0.5, Dimension: "all"}
	}

	if m := setPattern.FindStringSubmatch(lower); m != nil {
		return Modification{IsModification: true, Operation: OpSetDimension, Value: parseFloat(m[2]), Dimension: m[1]}
	}

	if m := addPattern.FindStringSubmatch(lower); m != nil {
		return Modification{IsModification: true, Operation: OpAddDimension, Value: parseFloat(m[1]), Dimension: m[2]}
	}

	return Modification{}
}

// Apply produces a new geometry with the modification applied. Scale touches
// every dimension uniformly; set/add touch only the named dimension and are a
// no-op when the shape has no such dimension. The tooth count of a gear is
// rounded back to an integer after scaling.
func Apply(p Parsed, mod Modification) Parsed {
	out := p.Clone()

	switch mod.Operation {
	case OpScale:
		for k, v := range out.Dimensions {
			scaled := v * mod.Value
			if k == "teeth" {
				scaled = roundTeeth(scaled)
			}
			out.Dimensions[k] = scaled
		}
	case OpSetDimension:
		if _, ok := out.Dimensions[mod.Dimension]; ok {
			v := mod.Value
			if mod.Dimension == "teeth" {
				v = roundTeeth(v)
			}
			out.Dimensions[mod.Dimension] = v
		}
	case OpAddDimension:
		if cur, ok := out.Dimensions[mod.Dimension]; ok {
			v := cur + mod.Value
			if mod.Dimension == "teeth" {
				v = roundTeeth(v)
			}
			out.Dimensions[mod.Dimension] = v
		}
	}

	return out
}

// RebuildPrompt reconstructs an absolute description for a geometry. After a
// modification the caller re-parses this string, so the whole pipeline always
// operates on freshly parsed, self-consistent geometry.
func RebuildPrompt(p Parsed) string {
	f := func(key string) string {
		return strconv.FormatFloat(p.Dimensions[key], 'f', -1, 64)
	}

	var b strings.Builder

	switch p.Shape {
	case ShapeBox:
		fmt.Fprintf(&b, "box %sx%sx%smm", f("length"), f("width"), f("height"))
	case ShapeCylinder:
		fmt.Fprintf(&b, "cylinder %smm diameter %smm height", f("diameter"), f("height"))
	case ShapeCone:
		fmt.Fprintf(&b, "cone %smm diameter %smm height", f("diameter"), f("height"))
	case ShapeSphere:
		fmt.Fprintf(&b, "sphere %smm radius", f("radius"))
	case ShapeTorus:
		// "tube" is cylinder vocabulary, so the section radius stays unnamed
		// and lands on the second torus slot positionally.
		fmt.Fprintf(&b, "torus %smm radius %smm section", f("radius"), f("tube"))
	case ShapeGear:
		fmt.Fprintf(&b, "gear with %s teeth %smm diameter %smm height", f("teeth"), f("diameter"), f("height"))
	}

	if len(p.Features.Holes) > 0 {
		fmt.Fprintf(&b, " with %smm hole", strconv.FormatFloat(p.Features.Holes[0].Diameter, 'f', -1, 64))
	}
	if p.Features.Fillet {
		fmt.Fprintf(&b, " %smm fillet", strconv.FormatFloat(p.Features.FilletRadius, 'f', -1, 64))
	}
	if p.Features.Chamfer {
		fmt.Fprintf(&b, " %smm chamfer", strconv.FormatFloat(p.Features.ChamferSize, 'f', -1, 64))
	}
	if p.Fit != "" {
		b.WriteString(" " + p.Fit)
	}

	return b.String()
}
