package component

import "github.com/benchflow/benchflow-core/internal/quantity"

// NewPump constructs a continuous pump. Its single attribute is a
// volumetric flow rate; at rest the pump is stopped.
func NewPump(name string) *Component {
	return &Component{
		Name: name,
		Type: "pump",
		Schema: map[string]Attribute{
			"rate": {Kind: KindQuantity, Dimensionality: quantity.DimFlowRate},
		},
		rest: map[string]any{"rate": "0 ml/min"},
	}
}

// NewValve constructs a multi-position valve. The setting attribute is
// the integer position; positions maps symbolic names to positions so
// instructions may say setting: "inlet" instead of a bare number. A nil
// positions map disables symbolic resolution. At rest the valve sits in
// position 1.
func NewValve(name string, positions map[string]int) *Component {
	return &Component{
		Name: name,
		Type: "valve",
		Schema: map[string]Attribute{
			"setting": {Kind: KindInt},
		},
		Capabilities: []Capability{CapSelector},
		Settings:     positions,
		rest:         map[string]any{"setting": 1},
	}
}

// NewSensor constructs a sensor that can be switched on and off. At rest
// the sensor is inactive.
func NewSensor(name string) *Component {
	return &Component{
		Name: name,
		Type: "sensor",
		Schema: map[string]Attribute{
			"active": {Kind: KindBool},
		},
		rest: map[string]any{"active": false},
	}
}

// NewTempControl constructs a temperature controller pairing a setpoint
// with an enable flag. Instructions that set only one of the pair are
// completed by the builder's thermal defaulting rules. At rest the
// controller is off with a 0 degC setpoint.
func NewTempControl(name string) *Component {
	return &Component{
		Name: name,
		Type: "temp_control",
		Schema: map[string]Attribute{
			"temp":   {Kind: KindQuantity, Dimensionality: quantity.DimTemperature},
			"active": {Kind: KindBool},
		},
		Capabilities: []Capability{CapThermal},
		rest:         map[string]any{"temp": "0 degC", "active": false},
	}
}

// NewVessel constructs a passive vessel. It has no schema, so it cannot
// be instructed; it exists for the apparatus topology only.
func NewVessel(name string) *Component {
	return &Component{Name: name, Type: "vessel"}
}

// NewTube constructs a passive tube connecting two components.
func NewTube(name string) *Component {
	return &Component{Name: name, Type: "tube"}
}
