package trace

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is the exported form of a Step.
type Record struct {
	Index     int       `json:"index"`
	Kind      Kind      `json:"kind"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Records exports every step of the trace.
func (t *Trace) Records() []Record {
	return t.View().Records()
}

// Records exports every step of the snapshot.
func (v View) Records() []Record {
	out := make([]Record, len(v.steps))
	for i, s := range v.steps {
		out[i] = Record{
			Index:     s.Index,
			Kind:      s.Kind,
			Payload:   s.Payload(),
			Timestamp: s.Timestamp,
		}
	}
	return out
}

// MarshalJSON encodes the trace as its records.
func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Records())
}

// MarshalRecords encodes records as indented JSON.
func MarshalRecords(records []Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace records: %w", err)
	}
	return data, nil
}

// UnmarshalRecords decodes records produced by MarshalRecords back into
// steps, restoring typed payloads.
func UnmarshalRecords(data []byte) ([]Step, error) {
	var raw []struct {
		Index     int             `json:"index"`
		Kind      Kind            `json:"kind"`
		Payload   json.RawMessage `json:"payload"`
		Timestamp time.Time       `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal trace records: %w", err)
	}

	steps := make([]Step, len(raw))
	for i, r := range raw {
		s := Step{Index: r.Index, Kind: r.Kind, Timestamp: r.Timestamp}
		var err error
		switch r.Kind {
		case KindAction:
			s.Action = &Action{}
			err = json.Unmarshal(r.Payload, s.Action)
		case KindObservation:
			s.Observation = &Observation{}
			err = json.Unmarshal(r.Payload, s.Observation)
		default:
			var p TextPayload
			err = json.Unmarshal(r.Payload, &p)
			s.Text = p.Text
		}
		if err != nil {
			return nil, fmt.Errorf("record %d payload: %w", r.Index, err)
		}
		steps[i] = s
	}
	return steps, nil
}
