package models

import (
	"time"
)

// SampleRecord is one persisted observation snapshot. The form, photo list
// and pXRF payload are stored verbatim as JSON columns; every save replaces
// the whole row (last write wins, no versioning). RecordID is the immutable
// persistence key; SampleID is the user-editable display identifier and is
// projected out for listing only.
type SampleRecord struct {
	RecordID    string `gorm:"primaryKey;size:36"`
	SampleID    string `gorm:"index;size:255"`
	Project     string `gorm:"size:255"`
	Form        JSON   `gorm:"type:json"`
	Photos      JSON   `gorm:"type:json"`
	ActivePhoto int    `gorm:"not null;default:-1"`
	PXRF        JSON   `gorm:"type:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BoreholeRecord is one persisted drill-hole log: a collar plus an ordered
// interval list, stored as JSON columns under an immutable key. HoleID is
// the display name.
type BoreholeRecord struct {
	RecordID  string `gorm:"primaryKey;size:36"`
	HoleID    string `gorm:"index;size:255"`
	Project   string `gorm:"size:255"`
	Collar    JSON   `gorm:"type:json"`
	Intervals JSON   `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for SampleRecord
func (SampleRecord) TableName() string {
	return "sample_records"
}

// TableName overrides the table name for BoreholeRecord
func (BoreholeRecord) TableName() string {
	return "borehole_records"
}
