package geometry

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Parsing never fails: any dimension the text does not pin down gets a
// documented default, and downstream validation is the only gate.

// shapeRules is checked in order and the first matching keyword group wins.
// The box group goes first because its vocabulary ("plate", "flat") often
// coexists with other shape words in the same sentence.
var shapeRules = []struct {
	shape    Shape
	keywords []string
}{
	{ShapeBox, []string{"box", "plate", "cube", "flat"}},
	{ShapeCylinder, []string{"cyl", "rod", "shaft", "pipe", "tube"}},
	{ShapeSphere, []string{"sphere", "ball"}},
	{ShapeGear, []string{"gear", "sprocket", "cog"}},
	{ShapeCone, []string{"cone"}},
	{ShapeTorus, []string{"torus", "ring", "gasket", "washer"}},
}

var (
	numberPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(mm|cm|ft|inch(?:es)?|in\b|m\b|")?`)
	holePattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mm\s*)?hole`)
	filletPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mm\s*)?fillet`)
	chamferPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mm\s*)?chamfer`)
	fitPairPattern = regexp.MustCompile(`\bh7\s*/\s*([ghp]6)\b`)
	fitPattern     = regexp.MustCompile(`\b(h7|g6|h6|p6)\b`)
)

// unitToMM converts a unit suffix attached to a number into millimeters.
// Bare numbers are already millimeters.
var unitToMM = map[string]float64{
	"mm": 1, "cm": 10, "m": 1000,
	"in": 25.4, "inch": 25.4, "inches": 25.4, `"`: 25.4,
	"ft": 304.8,
}

type number struct {
	value   float64
	integer bool
	used    bool
}

// Parse extracts a structured geometry from free text. It lower-cases the
// input, classifies the shape by the ordered keyword rules, pulls every
// decimal number out in left-to-right order and maps them positionally onto
// the dimension slots of the classified shape.
func Parse(text string) Parsed {
	lower := strings.ToLower(text)

	shape := classifyShape(lower)
	fit := detectFit(lower)

	// The digits inside a fit designator (the 7 of H7) are tolerance grades,
	// not dimensions, so the designator is removed before number extraction.
	stripped := stripFit(lower)
	nums := extractNumbers(stripped)

	return Parsed{
		Shape:      shape,
		Dimensions: fillDimensions(shape, nums, stripped),
		Features:   detectFeatures(lower),
		Fit:        fit,
	}
}

func stripFit(lower string) string {
	s := fitPairPattern.ReplaceAllString(lower, "")
	return fitPattern.ReplaceAllString(s, "")
}

func classifyShape(lower string) Shape {
	for _, rule := range shapeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.shape
			}
		}
	}
	return ShapeBox
}

func extractNumbers(lower string) []number {
	matches := numberPattern.FindAllStringSubmatch(lower, -1)
	nums := make([]number, 0, len(matches))
	for _, m := range matches {
		v := parseFloat(m[1])
		factor := 1.0
		if m[2] != "" {
			if f, ok := unitToMM[m[2]]; ok {
				factor = f
			}
		}
		nums = append(nums, number{
			value:   v * factor,
			integer: !strings.Contains(m[1], ".") && factor == 1,
		})
	}
	return nums
}

func parseFloat(s string) float64 {
	// The capture group guarantees a well-formed decimal.
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// fillDimensions maps extracted numbers onto the dimension slots of a shape.
// The slot table per shape is fixed so the mapping stays auditable.
func fillDimensions(shape Shape, nums []number, lower string) map[string]float64 {
	take := func(i int, fallback float64) float64 {
		if i < len(nums) {
			nums[i].used = true
			return nums[i].value
		}
		return fallback
	}

	dims := make(map[string]float64)

	switch shape {
	case ShapeBox:
		dims["length"] = take(0, 50)
		dims["width"] = take(1, dims["length"])
		dims["height"] = take(2, 10)
	case ShapeCylinder, ShapeCone:
		dims["diameter"] = take(0, 30)
		dims["height"] = take(1, 50)
	case ShapeSphere:
		dims["radius"] = take(0, 25)
	case ShapeTorus:
		dims["radius"] = take(0, 30)
		dims["tube"] = take(1, 8)
	case ShapeGear:
		fillGearDimensions(dims, nums, lower)
	}

	return dims
}

var (
	teethNamedPattern    = regexp.MustCompile(`(\d+)\s*(?:teeth|tooth)`)
	diameterNamedPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mm\s*)?(?:diameter|dia\b)`)
	heightNamedPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mm\s*)?(?:height|thick)`)
)

// Gear slots are filled by value rather than strictly by position. Explicitly
// named values ("24 teeth", "60mm diameter") win; otherwise the tooth count is
// the first integer in (5,100), the diameter the first other number above
// 20mm, and the thickness the first number left over.
func fillGearDimensions(dims map[string]float64, nums []number, lower string) {
	markUsed := func(v float64) {
		for i := range nums {
			if !nums[i].used && nums[i].value == v {
				nums[i].used = true
				return
			}
		}
	}

	dims["teeth"] = 20
	if m := teethNamedPattern.FindStringSubmatch(lower); m != nil {
		dims["teeth"] = parseFloat(m[1])
		markUsed(dims["teeth"])
	} else {
		for i := range nums {
			if nums[i].integer && nums[i].value > 5 && nums[i].value < 100 {
				dims["teeth"] = nums[i].value
				nums[i].used = true
				break
			}
		}
	}

	dims["diameter"] = 60
	if m := diameterNamedPattern.FindStringSubmatch(lower); m != nil {
		dims["diameter"] = parseFloat(m[1])
		markUsed(dims["diameter"])
	} else {
		for i := range nums {
			if !nums[i].used && nums[i].value > 20 {
				dims["diameter"] = nums[i].value
				nums[i].used = true
				break
			}
		}
	}

	dims["height"] = 10
	if m := heightNamedPattern.FindStringSubmatch(lower); m != nil {
		dims["height"] = parseFloat(m[1])
		markUsed(dims["height"])
	} else {
		for i := range nums {
			if !nums[i].used {
				dims["height"] = nums[i].value
				nums[i].used = true
				break
			}
		}
	}
}

func detectFeatures(lower string) Features {
	var f Features

	if strings.Contains(lower, "hole") {
		dia := 5.0
		if m := holePattern.FindStringSubmatch(lower); m != nil {
			dia = parseFloat(m[1])
		}
		// Single synthetic hole at part center; placement is a UI concern.
		f.Holes = []Hole{{Diameter: dia, X: 0, Y: 0}}
	}

	if strings.Contains(lower, "fillet") || strings.Contains(lower, "rounded") {
		f.Fillet = true
		f.FilletRadius = 3
		if m := filletPattern.FindStringSubmatch(lower); m != nil {
			f.FilletRadius = parseFloat(m[1])
		}
	}

	if strings.Contains(lower, "chamfer") {
		f.Chamfer = true
		f.ChamferSize = 2
		if m := chamferPattern.FindStringSubmatch(lower); m != nil {
			f.ChamferSize = parseFloat(m[1])
		}
	}

	return f
}

func detectFit(lower string) string {
	if m := fitPairPattern.FindStringSubmatch(lower); m != nil {
		return "H7/" + m[1]
	}
	if m := fitPattern.FindStringSubmatch(lower); m != nil {
		if m[1] == "h7" {
			return "H7"
		}
		return m[1]
	}
	return ""
}

// roundTeeth keeps the tooth count integral after uniform scaling.
func roundTeeth(v float64) float64 {
	return math.Round(v)
}
