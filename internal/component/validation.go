package component

import (
	"fmt"

	"github.com/benchflow/benchflow-core/internal/quantity"
)

// Validate checks the component's internal consistency: the rest state
// must cover the schema exactly, every rest value must satisfy its
// attribute's kind (and dimensionality for quantities), and in
// ModeExecute an active component must carry a hardware address.
//
// Parameters:
//   - mode: ModeSimulate or ModeExecute
//
// Returns:
//   - error: nil if valid, otherwise a sentinel from this package
//     wrapped with context
func (c *Component) Validate(mode RunMode) error {
	if c.Name == "" {
		return ErrEmptyName
	}

	if !c.Active() {
		return nil
	}

	for name := range c.rest {
		if _, ok := c.Schema[name]; !ok {
			return fmt.Errorf("%w: %q on %s", ErrRestStateUnknownAttribute, name, c.Name)
		}
	}
	for name, attr := range c.Schema {
		value, ok := c.rest[name]
		if !ok {
			return fmt.Errorf("%w: %q on %s", ErrRestStateMissingAttribute, name, c.Name)
		}
		if err := CheckValue(attr, value); err != nil {
			return fmt.Errorf("rest state attribute %q on %s: %w", name, c.Name, err)
		}
	}

	if mode == ModeExecute && c.Address == "" {
		return fmt.Errorf("%w: %s", ErrMissingAddress, c.Name)
	}

	return nil
}

// CheckValue validates a single value against an attribute's rules.
// Quantity attributes accept string expressions or quantity.Quantity
// values and are checked for dimensionality; all other kinds are checked
// by Go type. Integer attributes accept int and float64 with an integral
// value, so parameters decoded from JSON or YAML pass.
func CheckValue(attr Attribute, value any) error {
	switch attr.Kind {
	case KindQuantity:
		q, err := coerceQuantity(value)
		if err != nil {
			return err
		}
		if q.Dimensionality() != attr.Dimensionality {
			return fmt.Errorf("%w: have %s, want %s",
				ErrAttributeDimensionality, q.Dimensionality(), attr.Dimensionality)
		}
		return nil

	case KindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: have %T, want bool", ErrAttributeType, value)
		}
		return nil

	case KindInt:
		switch v := value.(type) {
		case int:
			return nil
		case int64:
			return nil
		case float64:
			if v == float64(int64(v)) {
				return nil
			}
			return fmt.Errorf("%w: have non-integral float, want int", ErrAttributeType)
		default:
			return fmt.Errorf("%w: have %T, want int", ErrAttributeType, value)
		}

	case KindFloat:
		switch value.(type) {
		case float64, float32, int, int64:
			return nil
		default:
			return fmt.Errorf("%w: have %T, want float", ErrAttributeType, value)
		}

	case KindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: have %T, want string", ErrAttributeType, value)
		}
		return nil

	default:
		return fmt.Errorf("%w: unrecognised kind %q", ErrAttributeType, attr.Kind)
	}
}

// coerceQuantity accepts the value forms a quantity attribute may take.
func coerceQuantity(value any) (quantity.Quantity, error) {
	switch v := value.(type) {
	case quantity.Quantity:
		return v, nil
	case string:
		return quantity.Parse(v)
	default:
		return quantity.Quantity{}, fmt.Errorf("%w: have %T, want quantity expression", ErrAttributeType, value)
	}
}
