package protocol

import (
	"errors"
	"reflect"
	"testing"

	"github.com/benchflow/benchflow-core/internal/apparatus"
	"github.com/benchflow/benchflow-core/internal/component"
)

func mustAdd(t *testing.T, p *Protocol, target *component.Component, timing Timing, params map[string]any) {
	t.Helper()
	if err := p.Add(target, timing, params); err != nil {
		t.Fatalf("Add(%s) = %v, want nil", target.Name, err)
	}
}

func mustCompile(t *testing.T, p *Protocol, opts CompileOptions) *CompileResult {
	t.Helper()
	result, err := p.Compile(opts)
	if err != nil {
		t.Fatalf("Compile() = %v, want nil", err)
	}
	return result
}

func TestCompileBackToBackInstructions(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	// The first interval has no stop; it is inferred as the start of the
	// second. No rest entry appears between them because the handover is
	// seamless.
	mustAdd(t, p, b.pump, Timing{Start: 0}, map[string]any{"rate": "5 ml/min"})
	mustAdd(t, p, b.pump, Timing{Start: 10, Stop: 20}, map[string]any{"rate": "10 ml/min"})

	result := mustCompile(t, p, CompileOptions{})

	want := []Instruction{
		{Time: 0, Params: map[string]any{"rate": "5 ml/min"}},
		{Time: 10, Params: map[string]any{"rate": "10 ml/min"}},
		{Time: 20, Params: map[string]any{"rate": "0 ml/min"}},
	}
	if got := result.Timelines["pump"]; !reflect.DeepEqual(got, want) {
		t.Errorf("Timelines[pump] = %v, want %v", got, want)
	}

	if !hasAdvisory(result.Advisories, AdvisoryInferredStop, "pump") {
		t.Errorf("missing inferred-stop advisory, got %v", result.Advisories)
	}
}

func TestCompileGapFilledWithRestState(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 8}, map[string]any{"rate": "5 ml/min"})
	mustAdd(t, p, b.pump, Timing{Start: 10, Stop: 20}, map[string]any{"rate": "10 ml/min"})

	result := mustCompile(t, p, CompileOptions{})

	want := []Instruction{
		{Time: 0, Params: map[string]any{"rate": "5 ml/min"}},
		{Time: 8, Params: map[string]any{"rate": "0 ml/min"}},
		{Time: 10, Params: map[string]any{"rate": "10 ml/min"}},
		{Time: 20, Params: map[string]any{"rate": "0 ml/min"}},
	}
	if got := result.Timelines["pump"]; !reflect.DeepEqual(got, want) {
		t.Errorf("Timelines[pump] = %v, want %v", got, want)
	}
}

func TestCompileWholeDurationRecord(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	// The sensor record has no boundaries at all, so it runs from zero
	// to the latest explicit stop in the whole protocol.
	mustAdd(t, p, b.sensor, Timing{}, map[string]any{"active": true})
	mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 30}, map[string]any{"rate": "5 ml/min"})

	result := mustCompile(t, p, CompileOptions{})

	want := []Instruction{
		{Time: 0, Params: map[string]any{"active": true}},
		{Time: 30, Params: map[string]any{"active": false}},
	}
	if got := result.Timelines["sensor"]; !reflect.DeepEqual(got, want) {
		t.Errorf("Timelines[sensor] = %v, want %v", got, want)
	}
}

func TestCompileInspectionForm(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	mustAdd(t, p, b.pump, Timing{Start: 0}, map[string]any{"rate": "5 ml/min"})
	mustAdd(t, p, b.pump, Timing{Start: 10, Stop: 20}, map[string]any{"rate": "10 ml/min"})

	result := mustCompile(t, p, CompileOptions{Form: FormInspection})

	want := []Window{
		{Start: 0, Stop: 10, Params: map[string]any{"rate": "5 ml/min"}},
		{Start: 10, Stop: 20, Params: map[string]any{"rate": "10 ml/min"}},
	}
	if got := result.Windows["pump"]; !reflect.DeepEqual(got, want) {
		t.Errorf("Windows[pump] = %v, want %v", got, want)
	}
	if result.Timelines != nil {
		t.Error("inspection form populated Timelines")
	}
}

func TestCompileUnusedComponentAdvisory(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "5 ml/min"})

	result := mustCompile(t, p, CompileOptions{})

	for _, name := range []string{"valve", "sensor", "heater"} {
		if !hasAdvisory(result.Advisories, AdvisoryUnusedComponent, name) {
			t.Errorf("missing unused-component advisory for %s, got %v", name, result.Advisories)
		}
		if _, ok := result.Timelines[name]; ok {
			t.Errorf("unused component %s has a timeline", name)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	b := newBench(t)

	tests := []struct {
		name    string
		build   func(t *testing.T) *Protocol
		opts    CompileOptions
		wantErr error
	}{
		{
			name:    "empty protocol",
			build:   func(t *testing.T) *Protocol { return newProtocol(t, b) },
			wantErr: ErrEmptyProtocol,
		},
		{
			name: "conflicting whole-duration records",
			build: func(t *testing.T) *Protocol {
				p := newProtocol(t, b)
				mustAdd(t, p, b.sensor, Timing{}, map[string]any{"active": true})
				mustAdd(t, p, b.sensor, Timing{}, map[string]any{"active": false})
				mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "1 ml/min"})
				return p
			},
			wantErr: ErrConflictingWholeDuration,
		},
		{
			name: "ambiguous zero start",
			build: func(t *testing.T) *Protocol {
				p := newProtocol(t, b)
				mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "1 ml/min"})
				mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 20}, map[string]any{"rate": "2 ml/min"})
				return p
			},
			wantErr: ErrAmbiguousStart,
		},
		{
			name: "unresolvable duration",
			build: func(t *testing.T) *Protocol {
				p := newProtocol(t, b)
				// No record anywhere carries a stop boundary.
				mustAdd(t, p, b.sensor, Timing{}, map[string]any{"active": true})
				return p
			},
			wantErr: ErrUnresolvableDuration,
		},
		{
			name: "execute mode requires addresses",
			build: func(t *testing.T) *Protocol {
				p := newProtocol(t, b)
				mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "1 ml/min"})
				return p
			},
			opts:    CompileOptions{Mode: component.ModeExecute},
			wantErr: component.ErrMissingAddress,
		},
		{
			name: "component validation failure is marked invalid",
			build: func(t *testing.T) *Protocol {
				p := newProtocol(t, b)
				mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "1 ml/min"})
				return p
			},
			opts:    CompileOptions{Mode: component.ModeExecute},
			wantErr: ErrInvalidComponent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.build(t).Compile(tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile() error = %v, want %v", err, tt.wantErr)
			}
			if result != nil {
				t.Error("Compile() returned a partial result alongside an error")
			}
		})
	}
}

func TestCompileDuplicateComponentNames(t *testing.T) {
	a := apparatus.New("bench")
	first := component.NewPump("pump")
	second := component.NewPump("pump")
	for _, c := range []*component.Component{first, second} {
		if err := a.Add(c); err != nil {
			t.Fatalf("Add() = %v, want nil", err)
		}
	}
	p, err := New("dup", a)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}
	if err := p.Add(first, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "1 ml/min"}); err != nil {
		t.Fatalf("Add() = %v, want nil", err)
	}

	if _, err := p.Compile(CompileOptions{}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Compile() = %v, want ErrDuplicateName", err)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	mustAdd(t, p, b.pump, Timing{Start: 0}, map[string]any{"rate": "5 ml/min"})
	mustAdd(t, p, b.pump, Timing{Start: 10, Stop: 20}, map[string]any{"rate": "10 ml/min"})
	mustAdd(t, p, b.sensor, Timing{}, map[string]any{"active": true})

	first := mustCompile(t, p, CompileOptions{})
	second := mustCompile(t, p, CompileOptions{})

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated compilation produced different results")
	}

	// The records themselves must keep their unresolved boundaries.
	for _, rec := range p.Records() {
		if rec.Component == b.pump && rec.Start != nil && *rec.Start == 0 && rec.Stop != nil {
			t.Error("compilation wrote an inferred stop back into the protocol")
		}
	}
}

func TestCompileRestSuppressionTolerance(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	// The second instruction starts within Epsilon of the first's stop,
	// so no rest entry separates them.
	mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "5 ml/min"})
	mustAdd(t, p, b.pump, Timing{Start: 10 + Epsilon/2, Stop: 20}, map[string]any{"rate": "10 ml/min"})

	result := mustCompile(t, p, CompileOptions{})

	timeline := result.Timelines["pump"]
	if len(timeline) != 3 {
		t.Fatalf("timeline has %d entries, want 3: %v", len(timeline), timeline)
	}
}

func TestCompileDeterministicAdvisoryOrder(t *testing.T) {
	b := newBench(t)
	p := newProtocol(t, b)

	mustAdd(t, p, b.pump, Timing{Start: 0, Stop: 10}, map[string]any{"rate": "5 ml/min"})

	first := mustCompile(t, p, CompileOptions{}).Advisories
	second := mustCompile(t, p, CompileOptions{}).Advisories

	if !reflect.DeepEqual(first, second) {
		t.Errorf("advisory order not deterministic:\n%v\n%v", first, second)
	}
}

func hasAdvisory(advisories []Advisory, code AdvisoryCode, comp string) bool {
	for _, a := range advisories {
		if a.Code == code && a.Component == comp {
			return true
		}
	}
	return false
}
