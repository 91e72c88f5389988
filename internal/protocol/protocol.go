package protocol

import (
	"fmt"
	"sync"

	"github.com/benchflow/benchflow-core/internal/apparatus"
)

// protocolCounter numbers unnamed protocols process-wide.
var (
	protocolCounter   int
	protocolCounterMu sync.Mutex
)

// Protocol accumulates validated procedure records against a fixed
// apparatus and compiles them into per-device timelines.
//
// Thread Safety: not safe for concurrent mutation. Build the protocol
// from one goroutine; compiled results are plain values and safe to
// share.
type Protocol struct {
	name        string
	description string
	apparatus   *apparatus.Apparatus
	records     []ProcedureRecord

	// sealed is set once a snapshot has been taken for persistence.
	// A sealed protocol refuses Clear so the stored copy cannot
	// silently diverge from the in-memory one.
	sealed bool
}

// New constructs a protocol bound to an apparatus. An empty name is
// replaced with a generated "Protocol_N" name.
//
// Returns:
//   - *Protocol: The empty protocol
//   - error: Apparatus validation failure
func New(name string, a *apparatus.Apparatus) (*Protocol, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil apparatus", ErrUnknownComponent)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("protocol: apparatus invalid: %w", err)
	}

	if name == "" {
		protocolCounterMu.Lock()
		name = fmt.Sprintf("Protocol_%d", protocolCounter)
		protocolCounter++
		protocolCounterMu.Unlock()
	}

	return &Protocol{name: name, apparatus: a}, nil
}

// Name returns the protocol name.
func (p *Protocol) Name() string {
	return p.name
}

// Description returns the free-form protocol description.
func (p *Protocol) Description() string {
	return p.description
}

// SetDescription sets the free-form protocol description.
func (p *Protocol) SetDescription(desc string) {
	p.description = desc
}

// Apparatus returns the apparatus this protocol is bound to.
func (p *Protocol) Apparatus() *apparatus.Apparatus {
	return p.apparatus
}

// Records returns a copy of the accumulated procedure records in the
// order they were added. Params maps are copied, so callers may mutate
// the result freely.
func (p *Protocol) Records() []ProcedureRecord {
	out := make([]ProcedureRecord, len(p.records))
	for i, rec := range p.records {
		out[i] = rec
		out[i].Params = copyParams(rec.Params)
	}
	return out
}

// Len returns the number of accumulated records.
func (p *Protocol) Len() int {
	return len(p.records)
}

// Clear removes every accumulated record, leaving the apparatus binding
// and name intact. Returns ErrProtocolSealed once a snapshot has been
// taken.
func (p *Protocol) Clear() error {
	if p.sealed {
		return ErrProtocolSealed
	}
	p.records = nil
	return nil
}

// copyParams returns a shallow copy of a parameter map. Parameter values
// are scalars, so shallow is sufficient.
func copyParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
