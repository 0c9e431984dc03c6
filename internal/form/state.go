package form

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lithofield/geodescribe/internal/types"
)

// Change is a single field mutation. Value is raw JSON: a string for scalar
// fields, a string or array of strings for the set-valued fields.
type Change struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// ChangeResult reports what a mutation did. OutOfVocabulary is set when an
// enumerated field received a value outside its controlled list; the write
// still lands, matching the permissive data-layer contract.
type ChangeResult struct {
	Field           string `json:"field"`
	OutOfVocabulary bool   `json:"outOfVocabulary,omitempty"`
}

// Subscriber receives the full observation snapshot after every applied
// mutation. The autosave persistence hook is a subscriber.
type Subscriber func(Observation)

// State is the observation state container: all mutations flow through
// Apply, and every applied change produces a fresh snapshot for subscribers.
// One State guards one record; concurrent Apply calls serialize on the
// mutex, later writers win.
type State struct {
	mu   sync.Mutex
	obs  Observation
	subs []Subscriber
}

// NewState wraps an observation in a state container.
func NewState(obs Observation) *State {
	return &State{obs: obs.Clone()}
}

// Subscribe attaches fn to every subsequent mutation.
func (s *State) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns a deep copy of the current observation.
func (s *State) Snapshot() Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.obs.Clone()
}

// Apply is the single mutation entry point. It routes the change to its
// field, then notifies subscribers with a snapshot. Unknown fields and
// type-mismatched values fail without mutating anything.
func (s *State) Apply(c Change) (ChangeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := ChangeResult{Field: c.Field}

	if target := s.scalarField(c.Field); target != nil {
		var v string
		if err := json.Unmarshal(c.Value, &v); err != nil {
			return res, fmt.Errorf("field %q expects a string value: %w", c.Field, err)
		}
		*target = v
		res.OutOfVocabulary = !inVocabulary(c.Field, v)
	} else if target := s.setField(c.Field); target != nil {
		var list types.FlexList[string]
		if err := json.Unmarshal(c.Value, &list); err != nil {
			return res, fmt.Errorf("field %q expects a string or array of strings: %w", c.Field, err)
		}
		next := types.NewStringSet(list.Slice()...)
		for _, v := range next.Values() {
			if !inVocabulary(c.Field, v) {
				res.OutOfVocabulary = true
			}
		}
		*target = next
	} else {
		return res, fmt.Errorf("unknown form field %q", c.Field)
	}

	snapshot := s.obs.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}

	return res, nil
}

// scalarField maps a JSON field name to its string field, or nil.
func (s *State) scalarField(name string) *string {
	switch name {
	case "sampleId":
		return &s.obs.SampleID
	case "project":
		return &s.obs.Project
	case "timestamp":
		return &s.obs.Timestamp
	case "latitude":
		return &s.obs.Latitude
	case "longitude":
		return &s.obs.Longitude
	case "elevation":
		return &s.obs.Elevation
	case "category":
		return &s.obs.Category
	case "weathering":
		return &s.obs.Weathering
	case "lustre":
		return &s.obs.Lustre
	case "grainSize":
		return &s.obs.GrainSize
	case "fabric":
		return &s.obs.Fabric
	case "hardness":
		return &s.obs.Hardness
	case "streak":
		return &s.obs.Streak
	case "magnetism":
		return &s.obs.Magnetism
	case "hclReaction":
		return &s.obs.HClNote
	case "sgClass":
		return &s.obs.SGClass
	case "colourNotes":
		return &s.obs.ColourNotes
	case "fieldNotes":
		return &s.obs.FieldNotes
	}
	return nil
}

// setField maps a JSON field name to its set-valued field, or nil.
func (s *State) setField(name string) *types.StringSet {
	switch name {
	case "minerals":
		return &s.obs.Minerals
	case "alteration":
		return &s.obs.Alteration
	case "sulfides":
		return &s.obs.Sulfides
	}
	return nil
}
