package estimate

import (
	"math"
	"testing"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func boxGeometry(l, w, h float64) geometry.Parsed {
	return geometry.Parsed{
		Shape:      geometry.ShapeBox,
		Dimensions: map[string]float64{"length": l, "width": w, "height": h},
	}
}

func TestBOMSteelPlate(t *testing.T) {
	// 100x100x10mm = 100cm³; steel at 7.85 g/cm³ weighs exactly 785g.
	bom := BOM(boxGeometry(100, 100, 10), "steel")
	if bom == nil {
		t.Fatal("steel is a known material")
	}

	if !nearlyEqual(bom.VolumeCm3, 100) {
		t.Errorf("volume = %v, want 100", bom.VolumeCm3)
	}
	if !nearlyEqual(bom.MassGrams, 785) {
		t.Errorf("mass = %v, want 785", bom.MassGrams)
	}
	if !nearlyEqual(bom.Cost, 3.93) {
		t.Errorf("cost = %v, want 3.93 (785g at 0.005/g)", bom.Cost)
	}
}

func TestBOMCylinderVolume(t *testing.T) {
	p := geometry.Parsed{
		Shape:      geometry.ShapeCylinder,
		Dimensions: map[string]float64{"diameter": 30, "height": 80},
	}
	bom := BOM(p, "aluminum")
	if bom == nil {
		t.Fatal("aluminum is a known material")
	}

	want := math.Pi * 15 * 15 * 80 / 1000 // ≈56.5487 cm³, rounded to 4 places
	if math.Abs(bom.VolumeCm3-want) > 0.001 {
		t.Errorf("volume = %v, want about %.4f", bom.VolumeCm3, want)
	}
}

func TestBOMPlaceholderVolume(t *testing.T) {
	p := geometry.Parsed{
		Shape:      geometry.ShapeGear,
		Dimensions: map[string]float64{"teeth": 24, "diameter": 60, "height": 10},
	}
	bom := BOM(p, "steel")
	if bom == nil {
		t.Fatal("expected a BOM")
	}
	if bom.VolumeCm3 != 50 {
		t.Errorf("gear volume placeholder = %v, want 50", bom.VolumeCm3)
	}
}

func TestBOMUnknownMaterial(t *testing.T) {
	if bom := BOM(boxGeometry(10, 10, 10), "unobtainium"); bom != nil {
		t.Errorf("unknown material should return nil, got %+v", bom)
	}
}

func TestLookupMaterialCaseInsensitive(t *testing.T) {
	a, ok := LookupMaterial("Steel")
	if !ok {
		t.Fatal("lookup should ignore case")
	}
	b, _ := LookupMaterial("steel")
	if a != b {
		t.Error("case variants should resolve to the same material")
	}
}

func TestCostSingleUnit(t *testing.T) {
	// 100cm³ steel, CNC: time 10h, machining 750, setup 50, material 3.925.
	est := Cost(boxGeometry(100, 100, 10), "steel", "cnc", 1)
	if est == nil {
		t.Fatal("expected an estimate")
	}

	if !nearlyEqual(est.MachiningTimeMin, 600) {
		t.Errorf("machining time = %v min, want 600", est.MachiningTimeMin)
	}
	if !nearlyEqual(est.MachiningCost, 750) {
		t.Errorf("machining cost = %v, want 750", est.MachiningCost)
	}
	if !nearlyEqual(est.SetupCost, 50) {
		t.Errorf("setup cost = %v, want 50", est.SetupCost)
	}
	// 3.925*1.5 + 800 = 805.89 rounded
	if !nearlyEqual(est.TotalCost, 805.89) {
		t.Errorf("total = %v, want 805.89", est.TotalCost)
	}
}

func TestCostQuantityTiers(t *testing.T) {
	est := Cost(boxGeometry(100, 100, 10), "steel", "injection", 1)
	if est == nil {
		t.Fatal("expected an estimate")
	}

	if len(est.QtyPricing) != 4 {
		t.Fatalf("expected 4 tiers, got %d", len(est.QtyPricing))
	}
	// Injection molding amortizes its setup: per-unit cost must fall
	// strictly across the tiers.
	prev := math.Inf(1)
	for _, tier := range []int{1, 10, 100, 1000} {
		unit, ok := est.QtyPricing[tier]
		if !ok {
			t.Fatalf("missing tier %d", tier)
		}
		if unit >= prev {
			t.Errorf("tier %d unit price %v should be below the previous %v", tier, unit, prev)
		}
		prev = unit
	}
}

func TestCostUnknownKeys(t *testing.T) {
	if est := Cost(boxGeometry(10, 10, 10), "steel", "forging", 1); est != nil {
		t.Error("unknown method should return nil")
	}
	if est := Cost(boxGeometry(10, 10, 10), "wood", "cnc", 1); est != nil {
		t.Error("unknown material should return nil")
	}
}

func TestToleranceH7g6(t *testing.T) {
	res := Tolerance(10, "H7/g6")
	if res == nil {
		t.Fatal("H7/g6 is a known fit")
	}

	if !nearlyEqual(res.Hole.Lower, 10) || !nearlyEqual(res.Hole.Upper, 10.015) {
		t.Errorf("hole band = %+v, want [10, 10.015]", res.Hole)
	}
	if !nearlyEqual(res.Shaft.Lower, 9.986) || !nearlyEqual(res.Shaft.Upper, 9.995) {
		t.Errorf("shaft band = %+v, want [9.986, 9.995]", res.Shaft)
	}
	if !nearlyEqual(res.ClearanceMin, 0.014) {
		t.Errorf("clearance min = %v, want 0.014", res.ClearanceMin)
	}
	if !nearlyEqual(res.ClearanceMax, 0.020) {
		t.Errorf("clearance max = %v, want 0.020", res.ClearanceMax)
	}
	if res.ClearanceMin <= 0 {
		t.Error("a sliding fit always has positive clearance")
	}
}

func TestToleranceInterferenceFit(t *testing.T) {
	res := Tolerance(25, "H7/p6")
	if res == nil {
		t.Fatal("H7/p6 is a known fit")
	}
	// Press fit: the shaft is bigger than the hole at both extremes.
	if res.ClearanceMin >= 0 || res.ClearanceMax >= 0 {
		t.Errorf("H7/p6 must interfere, got min %v max %v", res.ClearanceMin, res.ClearanceMax)
	}
}

func TestToleranceUnknownOrInvalid(t *testing.T) {
	if Tolerance(10, "H7/z9") != nil {
		t.Error("unknown fit class should return nil")
	}
	if Tolerance(0, "H7/g6") != nil {
		t.Error("zero nominal should return nil")
	}
	if Tolerance(-5, "H7/g6") != nil {
		t.Error("negative nominal should return nil")
	}
}

func TestFitClasses(t *testing.T) {
	classes := FitClasses()
	if len(classes) != 3 {
		t.Fatalf("expected 3 fit classes, got %d", len(classes))
	}
	for _, fit := range classes {
		if Tolerance(10, fit) == nil {
			t.Errorf("listed fit %q must be computable", fit)
		}
	}
}
