package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPackage_WeightConversions(t *testing.T) {
	metric := Package{Weight: 1, Units: UnitsMetric}
	if !almostEqual(metric.Kilograms(), 1) {
		t.Errorf("metric kilograms = %v, want 1", metric.Kilograms())
	}
	if !almostEqual(metric.Pounds(), 1000/453.59237) {
		t.Errorf("metric pounds = %v, want %v", metric.Pounds(), 1000/453.59237)
	}

	imperial := Package{Weight: 1, Units: UnitsImperial}
	if !almostEqual(imperial.Pounds(), 1) {
		t.Errorf("imperial pounds = %v, want 1", imperial.Pounds())
	}
	if !almostEqual(imperial.Kilograms(), 0.45359237) {
		t.Errorf("imperial kilograms = %v, want 0.45359237", imperial.Kilograms())
	}
}

func TestPackage_DimensionConversions(t *testing.T) {
	pkg := Package{Length: 254, Width: 100, Height: 10, Units: UnitsMetric}
	if !almostEqual(pkg.Inches(Length), 100) {
		t.Errorf("254cm in inches = %v, want 100", pkg.Inches(Length))
	}
	if !almostEqual(pkg.Centimetres(Width), 100) {
		t.Errorf("metric centimetres must pass through, got %v", pkg.Centimetres(Width))
	}

	imp := Package{Length: 10, Units: UnitsImperial}
	if !almostEqual(imp.Centimetres(Length), 25.4) {
		t.Errorf("10in in cm = %v, want 25.4", imp.Centimetres(Length))
	}
	if !almostEqual(imp.Inches(Length), 10) {
		t.Errorf("imperial inches must pass through, got %v", imp.Inches(Length))
	}
}

func TestLocation_Commercial(t *testing.T) {
	if (Location{AddressType: AddressTypeCommercial}).Commercial() != true {
		t.Error("explicit commercial address must report commercial")
	}
	if (Location{AddressType: AddressTypeResidential}).Commercial() {
		t.Error("residential address must not report commercial")
	}
	// Carriers quote residential for addresses they cannot classify.
	if (Location{}).Commercial() {
		t.Error("unknown address type must not report commercial")
	}
}
