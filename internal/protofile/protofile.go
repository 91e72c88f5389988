// Package protofile loads protocol definitions from YAML files: the
// apparatus (components and connections) plus the procedure list, in one
// document. Loading builds the apparatus with the standard component
// constructors and replays every procedure through the protocol builder,
// so a file that names unknown attributes, wrong dimensionalities, or
// incoherent timing is rejected with the same errors a programmatic
// caller would see.
package protofile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/benchflow/benchflow-core/internal/apparatus"
	"github.com/benchflow/benchflow-core/internal/component"
	"github.com/benchflow/benchflow-core/internal/protocol"
)

// Sentinel errors for definition parsing.
var (
	// ErrUnknownComponentType indicates a component declares a type with
	// no registered constructor.
	ErrUnknownComponentType = errors.New("protofile: unknown component type")

	// ErrInvalidDefinition indicates the document is structurally
	// unusable (unparsable YAML, missing required fields).
	ErrInvalidDefinition = errors.New("protofile: invalid definition")
)

// Definition is the YAML document shape.
type Definition struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Apparatus   ApparatusDefinition   `yaml:"apparatus"`
	Procedures  []ProcedureDefinition `yaml:"procedures"`
}

// ApparatusDefinition declares the bench setup.
type ApparatusDefinition struct {
	Name        string                 `yaml:"name"`
	Components  []ComponentDefinition  `yaml:"components"`
	Connections []ConnectionDefinition `yaml:"connections"`
}

// ComponentDefinition declares one component. Positions is meaningful
// for valves only; it maps symbolic setting names to positions.
type ComponentDefinition struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"`
	Address   string         `yaml:"address"`
	Positions map[string]int `yaml:"positions"`
}

// ConnectionDefinition declares one tubing connection.
type ConnectionDefinition struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Via  string `yaml:"via"`
}

// ProcedureDefinition declares one instruction. Start, Stop, and
// Duration accept quantity expressions ("5 min") or bare seconds; absent
// fields stay unspecified.
type ProcedureDefinition struct {
	Component string         `yaml:"component"`
	Start     any            `yaml:"start"`
	Stop      any            `yaml:"stop"`
	Duration  any            `yaml:"duration"`
	Params    map[string]any `yaml:"params"`
}

// Load reads and builds a protocol definition from a file.
//
// Returns:
//   - *apparatus.Apparatus: The assembled bench setup
//   - *protocol.Protocol: The protocol with every procedure recorded
//   - error: File, parse, or validation failure
func Load(path string) (*apparatus.Apparatus, *protocol.Protocol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("protofile: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a protocol definition from YAML bytes.
func Parse(data []byte) (*apparatus.Apparatus, *protocol.Protocol, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	a, err := buildApparatus(def.Apparatus)
	if err != nil {
		return nil, nil, err
	}

	p, err := protocol.New(def.Name, a)
	if err != nil {
		return nil, nil, err
	}
	p.SetDescription(def.Description)

	for i, proc := range def.Procedures {
		target := lookup(a, proc.Component)
		if target == nil {
			return nil, nil, fmt.Errorf("%w: procedure %d targets unknown component %q",
				ErrInvalidDefinition, i, proc.Component)
		}
		timing := protocol.Timing{Start: proc.Start, Stop: proc.Stop, Duration: proc.Duration}
		if err := p.Add(target, timing, proc.Params); err != nil {
			return nil, nil, fmt.Errorf("protofile: procedure %d: %w", i, err)
		}
	}

	return a, p, nil
}

func buildApparatus(def ApparatusDefinition) (*apparatus.Apparatus, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: apparatus name is required", ErrInvalidDefinition)
	}

	a := apparatus.New(def.Name)
	for i, cdef := range def.Components {
		c, err := buildComponent(cdef)
		if err != nil {
			return nil, fmt.Errorf("protofile: component %d: %w", i, err)
		}
		if err := a.Add(c); err != nil {
			return nil, fmt.Errorf("protofile: component %d: %w", i, err)
		}
	}
	for i, conn := range def.Connections {
		if err := a.Connect(conn.From, conn.To, conn.Via); err != nil {
			return nil, fmt.Errorf("protofile: connection %d: %w", i, err)
		}
	}
	return a, nil
}

func buildComponent(def ComponentDefinition) (*component.Component, error) {
	var c *component.Component
	switch def.Type {
	case "pump":
		c = component.NewPump(def.Name)
	case "valve":
		c = component.NewValve(def.Name, def.Positions)
	case "sensor":
		c = component.NewSensor(def.Name)
	case "temp_control":
		c = component.NewTempControl(def.Name)
	case "vessel":
		c = component.NewVessel(def.Name)
	case "tube":
		c = component.NewTube(def.Name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, def.Type)
	}
	c.Address = def.Address
	return c, nil
}

func lookup(a *apparatus.Apparatus, name string) *component.Component {
	for _, c := range a.Components() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
