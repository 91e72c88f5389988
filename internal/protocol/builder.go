package protocol

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benchflow/benchflow-core/internal/component"
	"github.com/benchflow/benchflow-core/internal/quantity"
)

// Add validates one instruction request and records it. The target must
// belong to the protocol's apparatus and be active; params must satisfy
// the target's schema; timing must be coherent. On any failure the
// protocol is left unchanged.
//
// Parameters:
//   - target: The component the instruction addresses
//   - timing: Start and end specification; see Timing
//   - params: Attribute values to apply; must not be empty
//
// Returns:
//   - error: nil on success, otherwise a sentinel from this package
//     wrapped with context
func (p *Protocol) Add(target *component.Component, timing Timing, params map[string]any) error {
	if target == nil || !p.apparatus.Contains(target) {
		name := "<nil>"
		if target != nil {
			name = target.Name
		}
		return fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	if !target.Active() {
		return fmt.Errorf("%w: %q", ErrPassiveComponent, target.Name)
	}

	resolved, err := resolveParams(target, params)
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		return fmt.Errorf("%w: component %q", ErrNoParameters, target.Name)
	}

	for name, value := range resolved {
		attr, ok := target.Schema[name]
		if !ok {
			return fmt.Errorf("%w: %q on %s", ErrUnknownAttribute, name, target.Name)
		}
		if err := component.CheckValue(attr, value); err != nil {
			return fmt.Errorf("protocol: attribute %q on %s: %w", name, target.Name, err)
		}
	}

	start, stop, err := resolveTiming(timing)
	if err != nil {
		return err
	}

	if target.HasCapability(component.CapThermal) {
		if err := applyThermalDefaults(target, resolved); err != nil {
			return err
		}
	}

	p.records = append(p.records, ProcedureRecord{
		ID:        uuid.New(),
		Component: target,
		Start:     start,
		Stop:      stop,
		Params:    resolved,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// AddAll records the same instruction against several components. The
// request is validated per component; the first failure aborts with no
// records added.
func (p *Protocol) AddAll(targets []*component.Component, timing Timing, params map[string]any) error {
	before := len(p.records)
	for _, target := range targets {
		if err := p.Add(target, timing, params); err != nil {
			p.records = p.records[:before]
			return err
		}
	}
	return nil
}

// resolveParams copies the request parameters and resolves symbolic
// selector settings to their integer positions.
func resolveParams(target *component.Component, params map[string]any) (map[string]any, error) {
	resolved := copyParams(params)

	if target.HasCapability(component.CapSelector) {
		if symbolic, ok := resolved["setting"].(string); ok {
			pos, err := target.ResolveSetting(symbolic)
			if err != nil {
				return nil, fmt.Errorf("protocol: %w", err)
			}
			resolved["setting"] = pos
		}
	}
	return resolved, nil
}

// resolveTiming interprets a Timing into start and stop offsets in
// seconds. A nil field stays nil; a record with neither start nor end
// boundary spans the whole run.
func resolveTiming(timing Timing) (start, stop *float64, err error) {
	if timing.Stop != nil && timing.Duration != nil {
		return nil, nil, ErrConflictingTimeSpec
	}

	start, err = resolveTime(timing.Start)
	if err != nil {
		return nil, nil, fmt.Errorf("start: %w", err)
	}
	if start != nil && *start < 0 {
		return nil, nil, fmt.Errorf("%w: negative start %g", ErrInvalidTimeSpec, *start)
	}

	switch {
	case timing.Stop != nil:
		stop, err = resolveTime(timing.Stop)
		if err != nil {
			return nil, nil, fmt.Errorf("stop: %w", err)
		}
	case timing.Duration != nil:
		dur, derr := resolveTime(timing.Duration)
		if derr != nil {
			return nil, nil, fmt.Errorf("duration: %w", derr)
		}
		if *dur < 0 {
			return nil, nil, fmt.Errorf("%w: negative duration %g", ErrInvalidTimeSpec, *dur)
		}
		base := 0.0
		if start != nil {
			base = *start
		}
		end := base + *dur
		stop = &end
	}

	if start != nil && stop != nil && *start > *stop {
		return nil, nil, fmt.Errorf("%w: start %g, stop %g", ErrInvertedInterval, *start, *stop)
	}
	return start, stop, nil
}

// resolveTime interprets one time value as an offset in seconds.
// Accepted forms: quantity expression string ("5 min"), time.Duration,
// quantity.Quantity, or a bare number of seconds. Dimensionless
// quantities are read as seconds.
func resolveTime(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}

	var seconds float64
	switch t := v.(type) {
	case string:
		q, err := quantity.Parse(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTimeSpec, t, err)
		}
		if dim := q.Dimensionality(); dim != quantity.DimTime && !dim.IsZero() {
			return nil, fmt.Errorf("%w: %q is not a time", ErrInvalidTimeSpec, t)
		}
		seconds = q.Magnitude()
	case quantity.Quantity:
		if dim := t.Dimensionality(); dim != quantity.DimTime && !dim.IsZero() {
			return nil, fmt.Errorf("%w: %s is not a time", ErrInvalidTimeSpec, t)
		}
		seconds = t.Magnitude()
	case time.Duration:
		seconds = t.Seconds()
	case float64:
		seconds = t
	case float32:
		seconds = float64(t)
	case int:
		seconds = float64(t)
	case int64:
		seconds = float64(t)
	default:
		return nil, fmt.Errorf("%w: unsupported time value %T", ErrInvalidTimeSpec, v)
	}
	return &seconds, nil
}

// applyThermalDefaults completes the temp/active pair on thermal
// components: a setpoint alone implies activation, deactivation alone
// implies a zero setpoint, and activation without a setpoint is an
// error.
func applyThermalDefaults(target *component.Component, params map[string]any) error {
	_, hasTemp := params["temp"]
	active, hasActive := params["active"]

	switch {
	case hasTemp && !hasActive:
		params["active"] = true
	case hasActive && !hasTemp:
		if active == false {
			params["temp"] = "0 degC"
		} else {
			return fmt.Errorf("%w: component %q", ErrMissingTemperature, target.Name)
		}
	}
	return nil
}
