package protocol

import (
	"fmt"
	"math"
	"sort"

	"github.com/benchflow/benchflow-core/internal/component"
)

// Epsilon is the absolute tolerance for comparing time offsets. Two
// offsets within Epsilon seconds are the same moment; a rest-state entry
// is suppressed when the next instruction begins at the moment the
// current one ends.
const Epsilon = 1e-9

// isClose reports whether two time offsets coincide within Epsilon.
func isClose(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// startOrZero returns a record's start offset, reading an unspecified
// start as the beginning of the run.
func startOrZero(rec ProcedureRecord) float64 {
	if rec.Start != nil {
		return *rec.Start
	}
	return 0
}

// Compile turns the accumulated records into per-device timelines.
//
// Every active component's schedule is resolved independently: records
// are ordered by start, missing stop boundaries are inferred from the
// successor's start (or from the latest explicit stop anywhere in the
// protocol for the final record), and in the execution form each gap is
// filled with the component's rest state. Inferred boundaries and
// instruction-free components are reported as advisories.
//
// Compilation never mutates the protocol and is all-or-nothing: on error
// the result is nil and no advisories are returned.
//
// Parameters:
//   - opts: Validation mode and output form; zero value means
//     ModeSimulate and FormExecution
//
// Returns:
//   - *CompileResult: Timelines or windows plus advisories
//   - error: nil on success, otherwise a sentinel from this package
//     wrapped with context
func (p *Protocol) Compile(opts CompileOptions) (*CompileResult, error) {
	if len(p.records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyProtocol, p.name)
	}

	mode := opts.Mode
	if mode == "" {
		mode = component.ModeSimulate
	}
	form := opts.Form
	if form == "" {
		form = FormExecution
	}

	if err := p.checkUniqueNames(); err != nil {
		return nil, err
	}

	// Latest explicit stop anywhere in the protocol. Open intervals on a
	// component's final record extend to this boundary.
	var overallStop *float64
	byComponent := make(map[*component.Component][]ProcedureRecord)
	for _, rec := range p.records {
		if rec.Stop != nil && (overallStop == nil || *rec.Stop > *overallStop) {
			stop := *rec.Stop
			overallStop = &stop
		}
		byComponent[rec.Component] = append(byComponent[rec.Component], copyRecord(rec))
	}

	result := &CompileResult{}
	if form == FormExecution {
		result.Timelines = make(map[string][]Instruction)
	} else {
		result.Windows = make(map[string][]Window)
	}

	for _, c := range p.apparatus.Active() {
		records := byComponent[c]
		if len(records) == 0 {
			result.Advisories = append(result.Advisories, Advisory{
				Code:      AdvisoryUnusedComponent,
				Component: c.Name,
				Message:   fmt.Sprintf("%s receives no instructions and will hold its rest state", c.Name),
			})
			continue
		}

		if err := c.Validate(mode); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidComponent, c.Name, err)
		}

		advisories, err := resolveBoundaries(c, records, overallStop)
		if err != nil {
			return nil, err
		}
		result.Advisories = append(result.Advisories, advisories...)

		if form == FormExecution {
			result.Timelines[c.Name] = emitTimeline(c, records)
		} else {
			result.Windows[c.Name] = emitWindows(records)
		}
	}

	return result, nil
}

// checkUniqueNames rejects apparatus setups where two distinct
// components share a name; compiled output is keyed by name, so a clash
// would silently merge schedules.
func (p *Protocol) checkUniqueNames() error {
	seen := make(map[string]*component.Component)
	for _, c := range p.apparatus.Components() {
		if prev, ok := seen[c.Name]; ok && prev != c {
			return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
		}
		seen[c.Name] = c
	}
	return nil
}

// resolveBoundaries orders one component's records and closes every open
// interval. Records are modified in place; callers pass copies.
func resolveBoundaries(c *component.Component, records []ProcedureRecord, overallStop *float64) ([]Advisory, error) {
	sort.SliceStable(records, func(i, j int) bool {
		return startOrZero(records[i]) < startOrZero(records[j])
	})

	wholeDuration := 0
	for _, rec := range records {
		if rec.Start == nil && rec.Stop == nil {
			wholeDuration++
		}
	}
	if wholeDuration > 1 {
		return nil, fmt.Errorf("%w: component %q", ErrConflictingWholeDuration, c.Name)
	}

	var advisories []Advisory
	for i := range records {
		rec := &records[i]

		if i > 0 && rec.Start != nil && *rec.Start == 0 {
			return nil, fmt.Errorf("%w: component %q", ErrAmbiguousStart, c.Name)
		}

		if rec.Stop != nil {
			continue
		}

		var stop float64
		if i < len(records)-1 {
			stop = startOrZero(records[i+1])
		} else {
			if overallStop == nil {
				return nil, fmt.Errorf("%w: component %q", ErrUnresolvableDuration, c.Name)
			}
			stop = *overallStop
		}
		rec.Stop = &stop
		advisories = append(advisories, Advisory{
			Code:      AdvisoryInferredStop,
			Component: c.Name,
			Message:   fmt.Sprintf("open interval on %s closed at %gs", c.Name, stop),
		})
	}

	return advisories, nil
}

// emitTimeline renders one component's resolved records in execution
// form: an instruction at each start, and a rest-state instruction at
// each stop unless the next instruction begins at that same moment.
func emitTimeline(c *component.Component, records []ProcedureRecord) []Instruction {
	timeline := make([]Instruction, 0, 2*len(records))
	for i, rec := range records {
		timeline = append(timeline, Instruction{
			Time:   startOrZero(rec),
			Params: copyParams(rec.Params),
		})

		if i+1 < len(records) && isClose(startOrZero(records[i+1]), *rec.Stop) {
			continue
		}
		timeline = append(timeline, Instruction{
			Time:   *rec.Stop,
			Params: c.RestState(),
		})
	}
	return timeline
}

// emitWindows renders one component's resolved records in inspection
// form, omitting rest-state entries.
func emitWindows(records []ProcedureRecord) []Window {
	windows := make([]Window, 0, len(records))
	for _, rec := range records {
		windows = append(windows, Window{
			Start:  startOrZero(rec),
			Stop:   *rec.Stop,
			Params: copyParams(rec.Params),
		})
	}
	return windows
}

// copyRecord duplicates a record deeply enough that boundary inference
// cannot reach back into the protocol's own state.
func copyRecord(rec ProcedureRecord) ProcedureRecord {
	out := rec
	if rec.Start != nil {
		start := *rec.Start
		out.Start = &start
	}
	if rec.Stop != nil {
		stop := *rec.Stop
		out.Stop = &stop
	}
	out.Params = copyParams(rec.Params)
	return out
}
