package quantity

import (
	"fmt"
	"strings"
)

// Dimensionality records the exponent of each base dimension a quantity
// carries. Volumetric flow rate, for example, is length^3 over time:
// {Length: 3, Time: -1}.
//
// The zero value is dimensionless.
type Dimensionality struct {
	Length      int8
	Mass        int8
	Time        int8
	Temperature int8
}

// Common dimensionalities used by component schemas.
var (
	Dimensionless  = Dimensionality{}
	DimTime        = Dimensionality{Time: 1}
	DimLength      = Dimensionality{Length: 1}
	DimMass        = Dimensionality{Mass: 1}
	DimTemperature = Dimensionality{Temperature: 1}
	DimVolume      = Dimensionality{Length: 3}
	DimFlowRate    = Dimensionality{Length: 3, Time: -1}
	DimMassFlow    = Dimensionality{Mass: 1, Time: -1}
)

// IsZero reports whether d is dimensionless.
func (d Dimensionality) IsZero() bool {
	return d == Dimensionality{}
}

// mul returns the dimensionality of a product: exponents add, scaled by n
// (n = 1 multiplies, n = -1 divides).
func (d Dimensionality) mul(o Dimensionality, n int8) Dimensionality {
	return Dimensionality{
		Length:      d.Length + n*o.Length,
		Mass:        d.Mass + n*o.Mass,
		Time:        d.Time + n*o.Time,
		Temperature: d.Temperature + n*o.Temperature,
	}
}

// String renders the dimensionality in bracketed form, e.g.
// "[length]^3 [time]^-1". Dimensionless renders as "[]".
func (d Dimensionality) String() string {
	if d.IsZero() {
		return "[]"
	}

	var parts []string
	add := func(name string, exp int8) {
		switch {
		case exp == 0:
		case exp == 1:
			parts = append(parts, "["+name+"]")
		default:
			parts = append(parts, fmt.Sprintf("[%s]^%d", name, exp))
		}
	}
	add("length", d.Length)
	add("mass", d.Mass)
	add("time", d.Time)
	add("temperature", d.Temperature)

	return strings.Join(parts, " ")
}

// Quantity is a parsed physical quantity: a magnitude expressed in
// coherent base units (seconds, metres, kilograms, kelvin) plus its
// dimensionality. Quantities are immutable values.
type Quantity struct {
	magnitude float64
	dim       Dimensionality
}

// New constructs a quantity directly from a base-unit magnitude and a
// dimensionality.
func New(magnitude float64, dim Dimensionality) Quantity {
	return Quantity{magnitude: magnitude, dim: dim}
}

// Seconds constructs a time quantity from a number of seconds.
func Seconds(s float64) Quantity {
	return Quantity{magnitude: s, dim: DimTime}
}

// Magnitude returns the quantity's magnitude in base units
// (e.g. seconds for time, cubic metres per second for flow rate).
func (q Quantity) Magnitude() float64 {
	return q.magnitude
}

// Dimensionality returns the quantity's dimensionality.
func (q Quantity) Dimensionality() Dimensionality {
	return q.dim
}

// SameDimension reports whether q and o share a dimensionality.
func (q Quantity) SameDimension(o Quantity) bool {
	return q.dim == o.dim
}

// Add returns q + o. Both quantities must share a dimensionality.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if !q.SameDimension(o) {
		return Quantity{}, fmt.Errorf("%w: %s + %s", ErrDimensionMismatch, q.dim, o.dim)
	}
	return Quantity{magnitude: q.magnitude + o.magnitude, dim: q.dim}, nil
}

// Compare returns -1, 0, or 1 as q is less than, equal to, or greater
// than o. Both quantities must share a dimensionality.
func (q Quantity) Compare(o Quantity) (int, error) {
	if !q.SameDimension(o) {
		return 0, fmt.Errorf("%w: %s vs %s", ErrDimensionMismatch, q.dim, o.dim)
	}
	switch {
	case q.magnitude < o.magnitude:
		return -1, nil
	case q.magnitude > o.magnitude:
		return 1, nil
	default:
		return 0, nil
	}
}

// String renders the quantity as its base-unit magnitude plus
// dimensionality, e.g. "2.5e-07 [length]^3 [time]^-1".
func (q Quantity) String() string {
	if q.dim.IsZero() {
		return fmt.Sprintf("%g", q.magnitude)
	}
	return fmt.Sprintf("%g %s", q.magnitude, q.dim)
}
