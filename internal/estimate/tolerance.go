package estimate

import "github.com/shopspring/decimal"

// Band is a deviation pair (mm) around a nominal size.
type Band struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type ToleranceResult struct {
	Fit          string  `json:"fit"`
	Nominal      float64 `json:"nominal"`
	Hole         Band    `json:"hole"`
	Shaft        Band    `json:"shaft"`
	ClearanceMin float64 `json:"clearance_min"`
	ClearanceMax float64 `json:"clearance_max"`
}

// Simplified ISO 286 stand-in: one deviation pair per fit class instead of
// the full nominal-size bands of the standard. The H7 hole deviation is fixed
// at [0,+0.015]; only the shaft side varies. H7/p6 is an interference fit.
// Not dimensionally rigorous across all sizes; good enough for UI guidance.
var fitTable = map[string]struct {
	hole  Band
	shaft Band
}{
	"H7/g6": {Band{0, 0.015}, Band{-0.014, -0.005}},
	"H7/h6": {Band{0, 0.015}, Band{-0.009, 0}},
	"H7/p6": {Band{0, 0.015}, Band{0.015, 0.026}},
}

// Tolerance computes hole and shaft bounds for a nominal size and fit class.
// Clearances pair like with like: max is hole-upper minus shaft-upper, min is
// hole-lower minus shaft-lower. Unknown class or non-positive nominal → nil.
func Tolerance(nominal float64, fit string) *ToleranceResult {
	devs, ok := fitTable[fit]
	if !ok || nominal <= 0 {
		return nil
	}

	add := func(dev float64) float64 {
		return decimal.NewFromFloat(nominal).Add(decimal.NewFromFloat(dev)).InexactFloat64()
	}
	sub := func(a, b float64) float64 {
		return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
	}

	hole := Band{Lower: add(devs.hole.Lower), Upper: add(devs.hole.Upper)}
	shaft := Band{Lower: add(devs.shaft.Lower), Upper: add(devs.shaft.Upper)}

	return &ToleranceResult{
		Fit:          fit,
		Nominal:      nominal,
		Hole:         hole,
		Shaft:        shaft,
		ClearanceMin: sub(hole.Lower, shaft.Lower),
		ClearanceMax: sub(hole.Upper, shaft.Upper),
	}
}

// FitClasses lists the supported designators in display order.
func FitClasses() []string {
	return []string{"H7/g6", "H7/h6", "H7/p6"}
}
