package estimate

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
)

type BillOfMaterials struct {
	Material     string  `json:"material"`
	Density      float64 `json:"density"`
	VolumeCm3    float64 `json:"volume"`
	MassGrams    float64 `json:"mass"`
	Cost         float64 `json:"cost"`
	PricePerGram float64 `json:"pricePerGram"`
}

// BOM derives material mass and cost for a geometry. Returns nil for an
// unknown material key so the caller can hide the panel instead of failing.
func BOM(p geometry.Parsed, materialKey string) *BillOfMaterials {
	mat, ok := LookupMaterial(materialKey)
	if !ok {
		return nil
	}

	volume := volumeCm3(p)

	// decimal keeps the published figures free of binary float dust.
	vol := decimal.NewFromFloat(volume).Round(4)
	mass := vol.Mul(decimal.NewFromFloat(mat.Density)).Round(3)
	cost := mass.Mul(decimal.NewFromFloat(mat.PricePerGram)).Round(2)

	return &BillOfMaterials{
		Material:     mat.Name,
		Density:      mat.Density,
		VolumeCm3:    vol.InexactFloat64(),
		MassGrams:    mass.InexactFloat64(),
		Cost:         cost.InexactFloat64(),
		PricePerGram: mat.PricePerGram,
	}
}

// volumeCm3 selects the volume formula by shape. Cone, torus and gear get a
// fixed 50cm³ approximation; their exact solids live in the external CAD
// service and the estimate only needs to be in the right ballpark.
func volumeCm3(p geometry.Parsed) float64 {
	d := p.Dimensions

	var mm3 float64
	switch p.Shape {
	case geometry.ShapeBox:
		mm3 = d["length"] * d["width"] * d["height"]
	case geometry.ShapeCylinder:
		r := d["diameter"] / 2
		mm3 = math.Pi * r * r * d["height"]
	case geometry.ShapeSphere:
		r := d["radius"]
		mm3 = 4.0 / 3.0 * math.Pi * r * r * r
	default:
		return 50
	}

	return mm3 / 1000
}
