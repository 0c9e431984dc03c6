package form

import (
	"time"

	"github.com/lithofield/geodescribe/internal/types"
)

// Observation is the single mutable record of one geological observation.
// Enumerated fields carry vocabulary values but are not validated at this
// layer; coordinates are free-text strings by design (field entries like
// "~425 m" or a GPS dump are all legal). Set-valued fields have no
// duplicate entries and no ordering significance.
type Observation struct {
	SampleID  string `json:"sampleId"`
	Project   string `json:"project"`
	Timestamp string `json:"timestamp"`

	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Elevation string `json:"elevation"`

	Category   string `json:"category"`
	Weathering string `json:"weathering"`
	Lustre     string `json:"lustre"`
	GrainSize  string `json:"grainSize"`
	Fabric     string `json:"fabric"`
	Hardness   string `json:"hardness"`
	Streak     string `json:"streak"`
	Magnetism  string `json:"magnetism"`
	HClNote    string `json:"hclReaction"`
	SGClass    string `json:"sgClass"`

	Minerals   types.StringSet `json:"minerals"`
	Alteration types.StringSet `json:"alteration"`
	Sulfides   types.StringSet `json:"sulfides"`

	ColourNotes string `json:"colourNotes"`
	FieldNotes  string `json:"fieldNotes"`
}

// NewObservation returns an observation with defaults, as when the form
// opens: timestamp now, magnetism and HCl reaction "None", everything else
// blank.
func NewObservation(sampleID, project string) Observation {
	return Observation{
		SampleID:  sampleID,
		Project:   project,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Magnetism: "None",
		HClNote:   "None",
	}
}

// Clone returns a deep copy; set-valued fields get fresh backing arrays so
// subscribers can hold snapshots without aliasing the live form.
func (o Observation) Clone() Observation {
	c := o
	c.Minerals = types.NewStringSet(o.Minerals.Values()...)
	c.Alteration = types.NewStringSet(o.Alteration.Values()...)
	c.Sulfides = types.NewStringSet(o.Sulfides.Values()...)
	return c
}
