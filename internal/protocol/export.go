package protocol

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// ExportRecord is the serialisable view of one procedure record.
// Unspecified boundaries are preserved as nulls so a re-imported record
// keeps its unresolved state.
type ExportRecord struct {
	Component string         `json:"component" yaml:"component"`
	Start     *float64       `json:"start" yaml:"start"`
	Stop      *float64       `json:"stop" yaml:"stop"`
	Params    map[string]any `json:"params" yaml:"params"`
}

// exportDocument is the top-level shape of a serialised protocol.
type exportDocument struct {
	Name      string         `json:"name" yaml:"name"`
	Apparatus string         `json:"apparatus" yaml:"apparatus"`
	Records   []ExportRecord `json:"records" yaml:"records"`
}

// Export returns the protocol's records in serialisable form, ordered by
// start time with ties kept in insertion order.
func (p *Protocol) Export() []ExportRecord {
	out := make([]ExportRecord, 0, len(p.records))
	for _, rec := range p.records {
		out = append(out, ExportRecord{
			Component: rec.Component.Name,
			Start:     rec.Start,
			Stop:      rec.Stop,
			Params:    copyParams(rec.Params),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return exportStart(out[i]) < exportStart(out[j])
	})
	return out
}

// JSON serialises the protocol as indented JSON.
func (p *Protocol) JSON() ([]byte, error) {
	return json.MarshalIndent(p.document(), "", "  ")
}

// YAML serialises the protocol as YAML.
func (p *Protocol) YAML() ([]byte, error) {
	return yaml.Marshal(p.document())
}

func (p *Protocol) document() exportDocument {
	return exportDocument{
		Name:      p.name,
		Apparatus: p.apparatus.Name(),
		Records:   p.Export(),
	}
}

func exportStart(rec ExportRecord) float64 {
	if rec.Start != nil {
		return *rec.Start
	}
	return 0
}
