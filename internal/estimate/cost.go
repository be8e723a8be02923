package estimate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
)

// Method is a manufacturing process preset: fixed setup cost, machine hourly
// rate, and a material handling multiplier.
type Method struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Setup      float64 `json:"setup"`
	Hourly     float64 `json:"hourly"`
	Multiplier float64 `json:"multiplier"`
}

var methods = map[string]Method{
	"3d_print":  {Key: "3d_print", Name: "3D Printing (FDM)", Setup: 5, Hourly: 10, Multiplier: 1.2},
	"cnc":       {Key: "cnc", Name: "CNC Machining", Setup: 50, Hourly: 75, Multiplier: 1.5},
	"injection": {Key: "injection", Name: "Injection Molding", Setup: 5000, Hourly: 30, Multiplier: 1.1},
}

// quantityTiers are the volumes the quote table is recomputed at.
var quantityTiers = []int{1, 10, 100, 1000}

type CostEstimate struct {
	MaterialCost     float64         `json:"material_cost"`
	MachiningTimeMin float64         `json:"machining_time_min"`
	MachiningCost    float64         `json:"machining_cost"`
	SetupCost        float64         `json:"setup_cost"`
	TotalCost        float64         `json:"total_cost"`
	WeightGrams      float64         `json:"weight_grams"`
	VolumeCm3        float64         `json:"volume_cm3"`
	QtyPricing       map[int]float64 `json:"qty_pricing"`
}

func LookupMethod(key string) (Method, bool) {
	m, ok := methods[strings.ToLower(strings.TrimSpace(key))]
	return m, ok
}

func Methods() []Method {
	out := []Method{methods["3d_print"], methods["cnc"], methods["injection"]}
	return out
}

// Cost estimates manufacturing cost for a geometry in a material with a
// process preset. Machining time uses a fixed 0.1 h/cm³ removal coefficient.
// Returns nil when the material or method key is unknown.
func Cost(p geometry.Parsed, materialKey, methodKey string, quantity int) *CostEstimate {
	mat, ok := LookupMaterial(materialKey)
	if !ok {
		return nil
	}
	method, ok := LookupMethod(methodKey)
	if !ok {
		return nil
	}
	if quantity < 1 {
		quantity = 1
	}

	volume := volumeCm3(p)
	mass := volume * mat.Density

	timeHours := volume * 0.1
	machining := timeHours * method.Hourly
	manufacturing := method.Setup + machining
	materialCost := mass / 1000 * mat.CostPerKg

	perUnit := func(qty int) float64 {
		unit := materialCost*method.Multiplier + manufacturing/float64(qty)
		return round2(unit)
	}

	pricing := make(map[int]float64, len(quantityTiers))
	for _, tier := range quantityTiers {
		pricing[tier] = perUnit(tier)
	}

	return &CostEstimate{
		MaterialCost:     round2(materialCost),
		MachiningTimeMin: round2(timeHours * 60),
		MachiningCost:    round2(machining),
		SetupCost:        method.Setup,
		TotalCost:        round2(perUnit(quantity) * float64(quantity)),
		WeightGrams:      round2(mass),
		VolumeCm3:        round2(volume),
		QtyPricing:       pricing,
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
