package geometry

// Shape is the closed set of primitives the pipeline understands.
type Shape string

const (
	ShapeBox      Shape = "box"
	ShapeCylinder Shape = "cylinder"
	ShapeSphere   Shape = "sphere"
	ShapeCone     Shape = "cone"
	ShapeTorus    Shape = "torus"
	ShapeGear     Shape = "gear"
)

type Hole struct {
	Diameter float64 `json:"diameter"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type Features struct {
	Holes        []Hole  `json:"holes"`
	Fillet       bool    `json:"fillet"`
	FilletRadius float64 `json:"filletRadius"`
	Chamfer      bool    `json:"chamfer"`
	ChamferSize  float64 `json:"chamferSize"`
}

// Parsed is the structured geometry extracted from a free-text prompt.
// All dimension values are millimeters and always positive; "teeth" holds an
// integral value. Treat instances as immutable: modifications go through
// Apply, which returns a new value.
type Parsed struct {
	Shape      Shape              `json:"shape"`
	Dimensions map[string]float64 `json:"dimensions"`
	Features   Features           `json:"features"`
	Fit        string             `json:"fit,omitempty"`
}

// Clone returns a deep copy so callers can never alias the dimension map.
func (p Parsed) Clone() Parsed {
	out := p
	out.Dimensions = make(map[string]float64, len(p.Dimensions))
	for k, v := range p.Dimensions {
		out.Dimensions[k] = v
	}
	if p.Features.Holes != nil {
		out.Features.Holes = make([]Hole, len(p.Features.Holes))
		copy(out.Features.Holes, p.Features.Holes)
	}
	return out
}

// RequiredDimensions lists the dimension keys a shape must carry.
func RequiredDimensions(shape Shape) []string {
	switch shape {
	case ShapeBox:
		return []string{"length", "width", "height"}
	case ShapeCylinder, ShapeCone:
		return []string{"diameter", "height"}
	case ShapeSphere:
		return []string{"radius"}
	case ShapeTorus:
		return []string{"radius", "tube"}
	case ShapeGear:
		return []string{"teeth", "diameter", "height"}
	default:
		return nil
	}
}
