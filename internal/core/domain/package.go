package domain

// UnitSystem selects the measurement system a package was specified in.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"   // kilograms, centimetres
	UnitsImperial UnitSystem = "imperial" // pounds, inches
)

// Conversion factors between the two unit systems.
const (
	gramsPerPound = 453.59237
	cmPerInch     = 2.54
)

// Package describes one parcel in a shipment. Weight and dimensions are
// expressed in the system given by Units. Value is the declared value in
// minor currency units (cents). Immutable once constructed.
type Package struct {
	Weight float64 // kg or lb depending on Units
	Length float64
	Width  float64
	Height float64
	Units  UnitSystem

	Value    int64 // minor units; 0 means no declared value
	Currency string

	DryIceWeight float64 // same unit as Weight; 0 means no dry ice
}

// Pounds returns the package weight in pounds.
func (p Package) Pounds() float64 {
	if p.Units == UnitsImperial {
		return p.Weight
	}
	return p.Weight * 1000 / gramsPerPound
}

// Kilograms returns the package weight in kilograms.
func (p Package) Kilograms() float64 {
	if p.Units == UnitsImperial {
		return p.Weight * gramsPerPound / 1000
	}
	return p.Weight
}

// Dimension identifies one of the three package axes.
type Dimension int

const (
	Length Dimension = iota
	Width
	Height
)

func (p Package) dimension(d Dimension) float64 {
	switch d {
	case Length:
		return p.Length
	case Width:
		return p.Width
	default:
		return p.Height
	}
}

// Inches returns the given dimension in inches.
func (p Package) Inches(d Dimension) float64 {
	v := p.dimension(d)
	if p.Units == UnitsImperial {
		return v
	}
	return v / cmPerInch
}

// Centimetres returns the given dimension in centimetres.
func (p Package) Centimetres(d Dimension) float64 {
	v := p.dimension(d)
	if p.Units == UnitsImperial {
		return v * cmPerInch
	}
	return v
}
