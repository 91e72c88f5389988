package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/benchflow/benchflow-core/internal/apparatus"
	"github.com/benchflow/benchflow-core/internal/component"
)

// bench assembles the standard test apparatus: a pump, a valve, a
// sensor, a temperature controller, and a passive vessel.
type bench struct {
	apparatus *apparatus.Apparatus
	pump      *component.Component
	valve     *component.Component
	sensor    *component.Component
	heater    *component.Component
	vessel    *component.Component
}

func newBench(t *testing.T) *bench {
	t.Helper()

	b := &bench{
		apparatus: apparatus.New("bench"),
		pump:      component.NewPump("pump"),
		valve:     component.NewValve("valve", map[string]int{"inlet": 1, "waste": 2}),
		sensor:    component.NewSensor("sensor"),
		heater:    component.NewTempControl("heater"),
		vessel:    component.NewVessel("flask"),
	}
	for _, c := range []*component.Component{b.pump, b.valve, b.sensor, b.heater, b.vessel} {
		if err := b.apparatus.Add(c); err != nil {
			t.Fatalf("Add(%s) = %v, want nil", c.Name, err)
		}
	}
	return b
}

func newProtocol(t *testing.T, b *bench) *Protocol {
	t.Helper()

	p, err := New("test", b.apparatus)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	return p
}

func TestAddValid(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	err := p.Add(b.pump, Timing{Start: "0 seconds", Duration: "10 seconds"},
		map[string]any{"rate": "15 ml/min"})
	if err != nil {
		t.Fatalf("Add() = %v, want nil", err)
	}

	records := p.Records()
	if len(records) != 1 {
		t.Fatalf("Records() has %d entries, want 1", len(records))
	}
	rec := records[0]
	if rec.Start == nil || *rec.Start != 0 {
		t.Errorf("Start = %v, want 0", rec.Start)
	}
	if rec.Stop == nil || *rec.Stop != 10 {
		t.Errorf("Stop = %v, want 10", rec.Stop)
	}
	if rec.Params["rate"] != "15 ml/min" {
		t.Errorf("Params[rate] = %v, want 15 ml/min", rec.Params["rate"])
	}
}

func TestAddTimeForms(t *testing.T) {
	b := newBench(t)

	tests := []struct {
		name      string
		timing    Timing
		wantStart *float64
		wantStop  *float64
	}{
		{
			name:      "quantity strings",
			timing:    Timing{Start: "1 min", Stop: "2 min"},
			wantStart: ptr(60.0),
			wantStop:  ptr(120.0),
		},
		{
			name:      "go durations",
			timing:    Timing{Start: 30 * time.Second, Duration: time.Minute},
			wantStart: ptr(30.0),
			wantStop:  ptr(90.0),
		},
		{
			name:      "bare seconds",
			timing:    Timing{Start: 5, Stop: 7.5},
			wantStart: ptr(5.0),
			wantStop:  ptr(7.5),
		},
		{
			name:     "duration without start begins at zero",
			timing:   Timing{Duration: "45 s"},
			wantStop: ptr(45.0),
		},
		{
			name: "no boundaries spans whole run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProtocol(t, b)
			if err := p.Add(b.pump, tt.timing, map[string]any{"rate": "1 ml/min"}); err != nil {
				t.Fatalf("Add() = %v, want nil", err)
			}
			rec := p.Records()[0]
			if !floatPtrEqual(rec.Start, tt.wantStart) {
				t.Errorf("Start = %v, want %v", fmtPtr(rec.Start), fmtPtr(tt.wantStart))
			}
			if !floatPtrEqual(rec.Stop, tt.wantStop) {
				t.Errorf("Stop = %v, want %v", fmtPtr(rec.Stop), fmtPtr(tt.wantStop))
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	b := newBench(t)
	stranger := component.NewPump("stranger")

	tests := []struct {
		name    string
		target  *component.Component
		timing  Timing
		params  map[string]any
		wantErr error
	}{
		{
			name:    "component not in apparatus",
			target:  stranger,
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrUnknownComponent,
		},
		{
			name:    "nil component",
			target:  nil,
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrUnknownComponent,
		},
		{
			name:    "passive component",
			target:  b.vessel,
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrPassiveComponent,
		},
		{
			name:    "no parameters",
			target:  b.pump,
			params:  map[string]any{},
			wantErr: ErrNoParameters,
		},
		{
			name:    "unknown attribute",
			target:  b.pump,
			params:  map[string]any{"pressure": "2 kg"},
			wantErr: ErrUnknownAttribute,
		},
		{
			name:    "wrong dimensionality",
			target:  b.pump,
			params:  map[string]any{"rate": "5 seconds"},
			wantErr: ErrDimensionality,
		},
		{
			name:    "wrong type",
			target:  b.sensor,
			params:  map[string]any{"active": "yes"},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "stop and duration together",
			target:  b.pump,
			timing:  Timing{Stop: "10 s", Duration: "10 s"},
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrConflictingTimeSpec,
		},
		{
			name:    "negative start",
			target:  b.pump,
			timing:  Timing{Start: -5},
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrInvalidTimeSpec,
		},
		{
			name:    "unparsable time",
			target:  b.pump,
			timing:  Timing{Start: "soon"},
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrInvalidTimeSpec,
		},
		{
			name:    "non-time quantity as time",
			target:  b.pump,
			timing:  Timing{Start: "5 ml"},
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrInvalidTimeSpec,
		},
		{
			name:    "start after stop",
			target:  b.pump,
			timing:  Timing{Start: "20 s", Stop: "10 s"},
			params:  map[string]any{"rate": "1 ml/min"},
			wantErr: ErrInvertedInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProtocol(t, b)
			err := p.Add(tt.target, tt.timing, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() = %v, want %v", err, tt.wantErr)
			}
			if p.Len() != 0 {
				t.Errorf("failed Add() left %d records behind", p.Len())
			}
		})
	}
}

func TestAddResolvesSymbolicSetting(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	if err := p.Add(b.valve, Timing{Start: 0, Stop: 10}, map[string]any{"setting": "waste"}); err != nil {
		t.Fatalf("Add() = %v, want nil", err)
	}
	if got := p.Records()[0].Params["setting"]; got != 2 {
		t.Errorf("Params[setting] = %v (%T), want 2", got, got)
	}
}

func TestAddUnknownSymbolicSetting(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	err := p.Add(b.valve, Timing{Start: 0, Stop: 10}, map[string]any{"setting": "purge"})
	if !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("Add() = %v, want ErrUnknownSetting", err)
	}
}

func TestAddThermalDefaults(t *testing.T) {
	b := newBench(t)

	t.Run("temperature alone activates", func(t *testing.T) {
		p := newProtocol(t, b)
		if err := p.Add(b.heater, Timing{Start: 0, Stop: 10}, map[string]any{"temp": "60 degC"}); err != nil {
			t.Fatalf("Add() = %v, want nil", err)
		}
		if got := p.Records()[0].Params["active"]; got != true {
			t.Errorf("Params[active] = %v, want true", got)
		}
	})

	t.Run("deactivation alone zeroes the setpoint", func(t *testing.T) {
		p := newProtocol(t, b)
		if err := p.Add(b.heater, Timing{Start: 0, Stop: 10}, map[string]any{"active": false}); err != nil {
			t.Fatalf("Add() = %v, want nil", err)
		}
		if got := p.Records()[0].Params["temp"]; got != "0 degC" {
			t.Errorf("Params[temp] = %v, want 0 degC", got)
		}
	})

	t.Run("activation without setpoint fails", func(t *testing.T) {
		p := newProtocol(t, b)
		err := p.Add(b.heater, Timing{Start: 0, Stop: 10}, map[string]any{"active": true})
		if !errors.Is(err, ErrMissingTemperature) {
			t.Errorf("Add() = %v, want ErrMissingTemperature", err)
		}
	})
}

func TestAddDoesNotMutateCallerParams(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	params := map[string]any{"setting": "waste"}
	if err := p.Add(b.valve, Timing{Start: 0, Stop: 10}, params); err != nil {
		t.Fatalf("Add() = %v, want nil", err)
	}
	if params["setting"] != "waste" {
		t.Errorf("caller params mutated: setting = %v", params["setting"])
	}
}

func TestAddAll(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	targets := []*component.Component{b.sensor, b.sensor}
	if err := p.AddAll(targets, Timing{Start: 0, Stop: 10}, map[string]any{"active": true}); err != nil {
		t.Fatalf("AddAll() = %v, want nil", err)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestAddAllRollsBackOnFailure(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	// The vessel is passive, so the second target fails and the first
	// must be rolled back.
	targets := []*component.Component{b.sensor, b.vessel}
	err := p.AddAll(targets, Timing{Start: 0, Stop: 10}, map[string]any{"active": true})
	if !errors.Is(err, ErrPassiveComponent) {
		t.Fatalf("AddAll() = %v, want ErrPassiveComponent", err)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d after failed AddAll, want 0", p.Len())
	}
}

func TestClear(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	if err := p.Add(b.sensor, Timing{Start: 0, Stop: 10}, map[string]any{"active": true}); err != nil {
		t.Fatalf("Add() = %v, want nil", err)
	}
	if err := p.Clear(); err != nil {
		t.Fatalf("Clear() = %v, want nil", err)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", p.Len())
	}
	if p.Name() != "test" {
		t.Errorf("Name() = %q after Clear, want test", p.Name())
	}

	// A snapshot freezes the record list against clearing.
	if err := p.Add(b.sensor, Timing{Start: 0, Stop: 10}, map[string]any{"active": true}); err != nil {
		t.Fatalf("Add() = %v, want nil", err)
	}
	_ = p.Snapshot()
	if err := p.Clear(); !errors.Is(err, ErrProtocolSealed) {
		t.Errorf("Clear() after Snapshot = %v, want ErrProtocolSealed", err)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d after refused Clear, want 1", p.Len())
	}
}

func TestGeneratedNames(t *testing.T) {
	b := newBench(t)

	first, err := New("", b.apparatus)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	second, err := New("", b.apparatus)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	if first.Name() == second.Name() {
		t.Errorf("generated names collide: %q", first.Name())
	}
	if first.Name() == "" {
		t.Error("generated name is empty")
	}
}

func ptr(v float64) *float64 { return &v }

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtPtr(v *float64) any {
	if v == nil {
		return "<nil>"
	}
	return *v
}
