package estimate

import (
	"sort"
	"strings"
)

// Material carries the physical and commercial properties the calculators
// need. Density is g/cm³, CostPerKg is the bulk rate used for manufacturing
// estimates, PricePerGram the retail rate used for the bill of materials.
type Material struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Density      float64 `json:"density"`
	PricePerGram float64 `json:"pricePerGram"`
	CostPerKg    float64 `json:"cost_per_kg"`
}

var materials = map[string]Material{
	"steel":    {Key: "steel", Name: "Steel (mild)", Density: 7.85, PricePerGram: 0.005, CostPerKg: 5},
	"aluminum": {Key: "aluminum", Name: "Aluminum 6061", Density: 2.70, PricePerGram: 0.0045, CostPerKg: 4.5},
	"brass":    {Key: "brass", Name: "Brass", Density: 8.50, PricePerGram: 0.009, CostPerKg: 9},
	"titanium": {Key: "titanium", Name: "Titanium Gr5", Density: 4.43, PricePerGram: 0.035, CostPerKg: 35},
	"pla":      {Key: "pla", Name: "PLA", Density: 1.24, PricePerGram: 0.025, CostPerKg: 25},
	"abs":      {Key: "abs", Name: "ABS", Density: 1.04, PricePerGram: 0.02, CostPerKg: 20},
}

// LookupMaterial resolves a material key case-insensitively. An unknown key
// is not an error anywhere in the pipeline; callers return "no result".
func LookupMaterial(key string) (Material, bool) {
	m, ok := materials[strings.ToLower(strings.TrimSpace(key))]
	return m, ok
}

func Materials() []Material {
	out := make([]Material, 0, len(materials))
	for _, m := range materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
