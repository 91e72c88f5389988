package component

import (
	"fmt"

	"github.com/benchflow/benchflow-core/internal/quantity"
)

// Kind identifies how an attribute's values are represented and checked.
type Kind string

// Attribute kinds recognised by schemas.
const (
	// KindQuantity values are physical-quantity expressions such as
	// "15 ml/min"; the attribute's Dimensionality constrains them.
	KindQuantity Kind = "quantity"

	// KindBool values are booleans.
	KindBool Kind = "bool"

	// KindInt values are integers.
	KindInt Kind = "int"

	// KindFloat values are floating-point numbers.
	KindFloat Kind = "float"

	// KindString values are free-form strings.
	KindString Kind = "string"
)

// Attribute describes one settable attribute in a component schema.
// Dimensionality is meaningful only for KindQuantity attributes and is
// the zero value otherwise.
type Attribute struct {
	Kind           Kind
	Dimensionality quantity.Dimensionality
}

// Capability marks behaviour beyond the plain attribute schema that the
// procedure builder treats specially.
type Capability string

const (
	// CapSelector components accept symbolic names for their integer
	// "setting" attribute, resolved through the component's settings map.
	CapSelector Capability = "selector"

	// CapThermal components pair a "temp" quantity with an "active"
	// boolean and receive defaulting rules for the pair.
	CapThermal Capability = "thermal"
)

// RunMode selects how strictly components are validated before a
// procedure is compiled.
type RunMode string

const (
	// ModeSimulate validates schemas and rest states only; hardware
	// addresses may be absent.
	ModeSimulate RunMode = "simulate"

	// ModeExecute additionally requires every active component to carry
	// a hardware address.
	ModeExecute RunMode = "execute"
)

// Component is a named piece of bench equipment. Active components carry
// a non-empty schema and can be targets of procedure instructions;
// passive components (empty schema) only participate in the apparatus
// topology.
//
// Thread Safety: a Component is effectively immutable after construction
// and safe for concurrent reads. Callers must not mutate Schema,
// Settings, or the rest state after handing the component to an
// apparatus.
type Component struct {
	// Name uniquely identifies the component within an apparatus.
	Name string

	// Type is the equipment class, e.g. "pump", "valve", "vessel".
	Type string

	// Address is the hardware endpoint used when executing for real.
	// Optional in simulate mode.
	Address string

	// Schema maps attribute names to their validation rules. An empty
	// schema marks the component passive.
	Schema map[string]Attribute

	// Capabilities lists the special behaviours this component opts into.
	Capabilities []Capability

	// Settings maps symbolic setting names to integer positions for
	// CapSelector components, e.g. {"inlet": 1, "waste": 2}.
	Settings map[string]int

	rest map[string]any
}

// New constructs a custom component. The rest state must name every
// schema attribute; Validate enforces this.
//
// Parameters:
//   - name: Unique component name within the apparatus
//   - ctype: Equipment class label
//   - schema: Attribute validation rules; nil or empty marks the
//     component passive
//   - rest: Rest state parameter set, one entry per schema attribute
//
// Returns:
//   - *Component: The constructed component, not yet validated
func New(name, ctype string, schema map[string]Attribute, rest map[string]any) *Component {
	return &Component{
		Name:   name,
		Type:   ctype,
		Schema: schema,
		rest:   rest,
	}
}

// Active reports whether the component can be the target of instructions.
func (c *Component) Active() bool {
	return len(c.Schema) > 0
}

// HasCapability reports whether the component declares the capability.
func (c *Component) HasCapability(capability Capability) bool {
	for _, have := range c.Capabilities {
		if have == capability {
			return true
		}
	}
	return false
}

// RestState returns a copy of the component's rest state parameters.
// Passive components return an empty map.
func (c *Component) RestState() map[string]any {
	out := make(map[string]any, len(c.rest))
	for k, v := range c.rest {
		out[k] = v
	}
	return out
}

// ResolveSetting maps a symbolic setting name to its integer position.
//
// Returns:
//   - int: The resolved position
//   - error: ErrUnknownSetting if the name has no mapping
func (c *Component) ResolveSetting(name string) (int, error) {
	pos, ok := c.Settings[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q on %s", ErrUnknownSetting, name, c.Name)
	}
	return pos, nil
}
