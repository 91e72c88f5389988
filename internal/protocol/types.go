package protocol

import (
	"time"

	"github.com/google/uuid"

	"github.com/benchflow/benchflow-core/internal/component"
)

// Timing carries the caller's time specification for one instruction.
// Each field accepts a quantity expression string ("5 min"), a
// time.Duration, or a bare number of seconds (int or float64). A nil
// field is unspecified.
//
// Stop and Duration are mutually exclusive. A record with neither Start
// nor an end boundary spans the whole run; its extent is resolved at
// compile time.
type Timing struct {
	Start    any
	Stop     any
	Duration any
}

// ProcedureRecord is one validated instruction request held by a
// protocol. Start and Stop are offsets in seconds from the start of the
// run; nil means unspecified. Params hold schema-validated attribute
// values with symbolic settings already resolved.
type ProcedureRecord struct {
	ID        uuid.UUID
	Component *component.Component
	Start     *float64
	Stop      *float64
	Params    map[string]any
	CreatedAt time.Time
}

// Instruction is one entry in an execution timeline: at Time seconds
// into the run, apply Params to the device.
type Instruction struct {
	Time   float64        `json:"time" yaml:"time"`
	Params map[string]any `json:"params" yaml:"params"`
}

// Window is one entry in an inspection timeline: the device holds Params
// from Start to Stop. Rest states are implied by the gaps and not
// listed.
type Window struct {
	Start  float64        `json:"start" yaml:"start"`
	Stop   float64        `json:"stop" yaml:"stop"`
	Params map[string]any `json:"params" yaml:"params"`
}

// Form selects the shape of compiled output.
type Form string

const (
	// FormExecution interleaves instructions with rest-state entries at
	// explicit times. This is the form a runner consumes.
	FormExecution Form = "execution"

	// FormInspection lists instruction windows without rest entries.
	// This is the form for review and plotting.
	FormInspection Form = "inspection"
)

// CompileOptions control a compilation pass.
type CompileOptions struct {
	// Mode selects component validation strictness. ModeExecute requires
	// hardware addresses; ModeSimulate does not.
	Mode component.RunMode

	// Form selects execution or inspection output. The zero value means
	// FormExecution.
	Form Form
}

// AdvisoryCode classifies a non-fatal compilation finding.
type AdvisoryCode string

const (
	// AdvisoryInferredStop reports a missing stop boundary that was
	// filled in from a successor record or the overall duration.
	AdvisoryInferredStop AdvisoryCode = "inferred_stop"

	// AdvisoryUnusedComponent reports an active component that never
	// receives an instruction.
	AdvisoryUnusedComponent AdvisoryCode = "unused_component"
)

// Advisory is a non-fatal finding produced during compilation.
type Advisory struct {
	Code      AdvisoryCode `json:"code" yaml:"code"`
	Component string       `json:"component" yaml:"component"`
	Message   string       `json:"message" yaml:"message"`
}

// CompileResult is the outcome of a successful compilation. Exactly one
// of Timelines or Windows is populated, according to the requested form.
// Map keys are component names.
type CompileResult struct {
	Timelines  map[string][]Instruction `json:"timelines,omitempty" yaml:"timelines,omitempty"`
	Windows    map[string][]Window      `json:"windows,omitempty" yaml:"windows,omitempty"`
	Advisories []Advisory               `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}
