package quantity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// unit describes a single named unit: a multiplicative factor to base
// units, an additive offset (affine temperature units only), and a
// dimensionality.
type unit struct {
	factor float64
	offset float64
	dim    Dimensionality
}

// units maps every accepted unit token (and its aliases) to its
// definition. Base units: second, metre, kilogram, kelvin.
var units = map[string]unit{
	// Time
	"s": {factor: 1, dim: DimTime}, "sec": {factor: 1, dim: DimTime},
	"secs": {factor: 1, dim: DimTime}, "second": {factor: 1, dim: DimTime},
	"seconds": {factor: 1, dim: DimTime},
	"ms":      {factor: 1e-3, dim: DimTime},
	"min":     {factor: 60, dim: DimTime}, "minute": {factor: 60, dim: DimTime},
	"minutes": {factor: 60, dim: DimTime},
	"h":       {factor: 3600, dim: DimTime}, "hr": {factor: 3600, dim: DimTime},
	"hour": {factor: 3600, dim: DimTime}, "hours": {factor: 3600, dim: DimTime},
	"day": {factor: 86400, dim: DimTime}, "days": {factor: 86400, dim: DimTime},

	// Length
	"m":  {factor: 1, dim: DimLength},
	"cm": {factor: 1e-2, dim: DimLength},
	"mm": {factor: 1e-3, dim: DimLength},
	"in": {factor: 0.0254, dim: DimLength}, "inch": {factor: 0.0254, dim: DimLength},

	// Volume (base: cubic metre)
	"l": {factor: 1e-3, dim: DimVolume}, "L": {factor: 1e-3, dim: DimVolume},
	"liter": {factor: 1e-3, dim: DimVolume}, "liters": {factor: 1e-3, dim: DimVolume},
	"litre": {factor: 1e-3, dim: DimVolume}, "litres": {factor: 1e-3, dim: DimVolume},
	"ml": {factor: 1e-6, dim: DimVolume}, "mL": {factor: 1e-6, dim: DimVolume},
	"ul": {factor: 1e-9, dim: DimVolume}, "uL": {factor: 1e-9, dim: DimVolume},
	"µl": {factor: 1e-9, dim: DimVolume}, "µL": {factor: 1e-9, dim: DimVolume},

	// Mass
	"kg": {factor: 1, dim: DimMass},
	"g":  {factor: 1e-3, dim: DimMass},
	"mg": {factor: 1e-6, dim: DimMass},

	// Temperature (base: kelvin). degC and degF are affine; their offsets
	// apply only when the unit stands alone in the expression.
	"K": {factor: 1, dim: DimTemperature}, "kelvin": {factor: 1, dim: DimTemperature},
	"degC": {factor: 1, offset: 273.15, dim: DimTemperature},
	"celsius": {factor: 1, offset: 273.15, dim: DimTemperature},
	"degF": {factor: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0, dim: DimTemperature},
}

// magnitudeRe splits an expression into its leading numeric magnitude and
// the trailing unit expression.
var magnitudeRe = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)\s*(.*)$`)

// Parse parses a quantity expression such as "15 ml/min", "2 hours",
// "80 degC", or a bare number (dimensionless). The result's magnitude is
// expressed in base units.
//
// Returns:
//   - Quantity: The parsed quantity
//   - error: ErrInvalidExpression or ErrUnknownUnit describing the failure
func Parse(expr string) (Quantity, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Quantity{}, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}

	m := magnitudeRe.FindStringSubmatch(trimmed)
	if m == nil {
		return Quantity{}, fmt.Errorf("%w: %q has no numeric magnitude", ErrInvalidExpression, expr)
	}

	magnitude, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q: %w", ErrInvalidExpression, expr, err)
	}

	unitExpr := strings.TrimSpace(m[2])
	if unitExpr == "" {
		return Quantity{magnitude: magnitude, dim: Dimensionless}, nil
	}

	factor, offset, dim, err := parseUnitExpr(unitExpr)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{magnitude: magnitude*factor + offset, dim: dim}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants built from literals.
func MustParse(expr string) Quantity {
	q, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return q
}

// ParseDimensionality parses a unit expression (no magnitude) and returns
// only its dimensionality, e.g. "ml/min" -> [length]^3 [time]^-1.
// Component schemas use this to declare expected dimensionalities in
// human-readable form.
func ParseDimensionality(unitExpr string) (Dimensionality, error) {
	_, _, dim, err := parseUnitExpr(strings.TrimSpace(unitExpr))
	if err != nil {
		return Dimensionality{}, err
	}
	return dim, nil
}

// parseUnitExpr evaluates a unit expression to a conversion factor,
// offset, and dimensionality.
//
// Grammar: terms joined by '/', "per", '*', or whitespace. A '/' (or
// "per") divides by every following term up to the next separator; '*'
// and whitespace multiply. Each term is a unit token with an optional
// ^exponent.
func parseUnitExpr(unitExpr string) (factor, offset float64, dim Dimensionality, err error) {
	// Normalise '*' to whitespace so the tokenizer only sees unit
	// tokens, "per" keywords, and '/' separators.
	normalised := strings.ReplaceAll(unitExpr, "*", " ")
	fields := strings.Fields(normalised)

	factor = 1
	sign := int8(1) // +1 numerator, -1 denominator
	terms := 0
	firstExp := 0
	var soleUnit unit

	flip := func() { sign = -1 }

	for _, field := range fields {
		if field == "per" {
			flip()
			continue
		}
		// A field may itself contain '/' separators: "ml/min".
		for i, tok := range strings.Split(field, "/") {
			if i > 0 {
				flip()
			}
			if tok == "" {
				continue
			}

			name, exp, ok := splitExponent(tok)
			if !ok {
				return 0, 0, Dimensionality{}, fmt.Errorf("%w: %q", ErrInvalidExpression, unitExpr)
			}
			u, ok := units[name]
			if !ok {
				return 0, 0, Dimensionality{}, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
			}

			for n := 0; n < exp; n++ {
				if sign > 0 {
					factor *= u.factor
				} else {
					factor /= u.factor
				}
				dim = dim.mul(u.dim, sign)
			}
			terms++
			if terms == 1 {
				firstExp = exp
				soleUnit = u
			}
		}
	}

	if terms == 0 {
		return 0, 0, Dimensionality{}, fmt.Errorf("%w: %q", ErrInvalidExpression, unitExpr)
	}

	// Affine offsets apply only to a lone, exponent-1 unit: "80 degC" is
	// an absolute temperature, but degC inside a compound expression is a
	// temperature difference.
	if terms == 1 && sign == 1 && firstExp == 1 {
		offset = soleUnit.offset
	}

	return factor, offset, dim, nil
}

// splitExponent splits a token like "s^2" into its unit name and positive
// integer exponent. Tokens without '^' have exponent 1.
func splitExponent(tok string) (name string, exp int, ok bool) {
	name, raw, found := strings.Cut(tok, "^")
	if !found {
		return tok, 1, true
	}
	exp, err := strconv.Atoi(raw)
	if err != nil || exp == 0 {
		return "", 0, false
	}
	if exp < 0 {
		// "s^-1" is handled by the caller's sign; reject here to keep the
		// grammar unambiguous (use division instead).
		return "", 0, false
	}
	return name, exp, true
}
