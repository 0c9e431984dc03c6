package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lithofield/geodescribe/internal/form"
	"github.com/lithofield/geodescribe/internal/models"
	"github.com/lithofield/geodescribe/internal/pxrf"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// ErrNotFound is returned when no record exists under the requested key.
var ErrNotFound = errors.New("not found")

// SampleSnapshot is the whole persisted state of one observation: the form,
// the photo list (data URLs, insertion order), the active photo index
// (-1 when empty), and the pXRF dataset. Saves replace the entire snapshot.
type SampleSnapshot struct {
	RecordID    string           `json:"recordId"`
	Form        form.Observation `json:"form"`
	Photos      []string         `json:"photos"`
	ActivePhoto int              `json:"activePhoto"`
	PXRF        pxrf.Dataset     `json:"pxrf"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// SampleSummary is the lightweight listing projection.
type SampleSummary struct {
	RecordID  string    `json:"recordId"`
	SampleID  string    `json:"sampleId"`
	Project   string    `json:"project"`
	CreatedAt time.Time `json:"createdAt"`
	HasPhotos bool      `json:"hasPhotos"`
}

// Collar is a borehole's location and orientation. Free-text strings, like
// the sample coordinates.
type Collar struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Elevation string `json:"elevation"`
	Azimuth   string `json:"azimuth"`
	Dip       string `json:"dip"`
}

// Interval is one logged depth interval. Intervals keep list order; From/To
// are not validated or range-checked, and mutation is by id.
type Interval struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Description string `json:"description"`
}

// BoreholeSnapshot is the whole persisted state of one drill-hole log.
type BoreholeSnapshot struct {
	RecordID  string     `json:"recordId"`
	HoleID    string     `json:"holeId"`
	Project   string     `json:"project"`
	Collar    Collar     `json:"collar"`
	Intervals []Interval `json:"intervals"`
	CreatedAt time.Time  `json:"createdAt"`
}

// BoreholeSummary is the lightweight listing projection for boreholes.
type BoreholeSummary struct {
	RecordID      string    `json:"recordId"`
	HoleID        string    `json:"holeId"`
	Project       string    `json:"project"`
	CreatedAt     time.Time `json:"createdAt"`
	IntervalCount int       `json:"intervalCount"`
}

// Store persists whole-record snapshots. There is no multi-key atomicity:
// each save is one transactional row upsert, concurrent writers to the same
// key are last-write-wins.
type Store struct {
	db *gorm.DB
}

// New wraps a connected gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveSample writes the full snapshot under its record id, overwriting any
// prior row.
func (s *Store) SaveSample(snap *SampleSnapshot) error {
	if snap.RecordID == "" {
		return fmt.Errorf("record id required")
	}

	formJSON, err := json.Marshal(snap.Form)
	if err != nil {
		return fmt.Errorf("marshal form: %w", err)
	}
	photos := snap.Photos
	if photos == nil {
		photos = []string{}
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("marshal photos: %w", err)
	}
	pxrfJSON, err := json.Marshal(snap.PXRF)
	if err != nil {
		return fmt.Errorf("marshal pxrf: %w", err)
	}

	rec := models.SampleRecord{
		RecordID:    snap.RecordID,
		SampleID:    snap.Form.SampleID,
		Project:     snap.Form.Project,
		Form:        jsonColumn(formJSON),
		Photos:      jsonColumn(photosJSON),
		ActivePhoto: snap.ActivePhoto,
		PXRF:        jsonColumn(pxrfJSON),
		CreatedAt:   snap.CreatedAt,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			UpdateAll: true,
		}).Create(&rec).Error
	})
}

// LoadSample returns the snapshot under id, or ErrNotFound.
func (s *Store) LoadSample(id string) (*SampleSnapshot, error) {
	var rec models.SampleRecord
	if err := s.db.Where("record_id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sampleFromModel(&rec)
}

// DeleteSample removes the snapshot under id. Deleting a missing record is
// ErrNotFound so callers can 404.
func (s *Store) DeleteSample(id string) error {
	result := s.db.Where("record_id = ?", id).Delete(&models.SampleRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSamples enumerates every stored sample and projects the listing
// summary. Deliberately an O(n) scan with no index beyond the key: record
// counts are field-trip sized.
func (s *Store) ListSamples() ([]SampleSummary, error) {
	var recs []models.SampleRecord
	if err := s.db.
		Clauses(hints.CommentBefore("select", "sample summary scan")).
		Order("created_at").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	summaries := make([]SampleSummary, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		var photos []string
		_ = json.Unmarshal(rec.Photos.JSON, &photos)
		summaries = append(summaries, SampleSummary{
			RecordID:  rec.RecordID,
			SampleID:  rec.SampleID,
			Project:   rec.Project,
			CreatedAt: rec.CreatedAt,
			HasPhotos: len(photos) > 0,
		})
	}
	return summaries, nil
}

// SaveBorehole writes the full borehole snapshot, overwriting any prior row.
func (s *Store) SaveBorehole(snap *BoreholeSnapshot) error {
	if snap.RecordID == "" {
		return fmt.Errorf("record id required")
	}

	collarJSON, err := json.Marshal(snap.Collar)
	if err != nil {
		return fmt.Errorf("marshal collar: %w", err)
	}
	intervals := snap.Intervals
	if intervals == nil {
		intervals = []Interval{}
	}
	intervalsJSON, err := json.Marshal(intervals)
	if err != nil {
		return fmt.Errorf("marshal intervals: %w", err)
	}

	rec := models.BoreholeRecord{
		RecordID:  snap.RecordID,
		HoleID:    snap.HoleID,
		Project:   snap.Project,
		Collar:    jsonColumn(collarJSON),
		Intervals: jsonColumn(intervalsJSON),
		CreatedAt: snap.CreatedAt,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			UpdateAll: true,
		}).Create(&rec).Error
	})
}

// LoadBorehole returns the borehole snapshot under id, or ErrNotFound.
func (s *Store) LoadBorehole(id string) (*BoreholeSnapshot, error) {
	var rec models.BoreholeRecord
	if err := s.db.Where("record_id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return boreholeFromModel(&rec)
}

// DeleteBorehole removes the borehole snapshot under id.
func (s *Store) DeleteBorehole(id string) error {
	result := s.db.Where("record_id = ?", id).Delete(&models.BoreholeRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBoreholes enumerates every stored borehole, O(n) like ListSamples.
func (s *Store) ListBoreholes() ([]BoreholeSummary, error) {
	var recs []models.BoreholeRecord
	if err := s.db.
		Clauses(hints.CommentBefore("select", "borehole summary scan")).
		Order("created_at").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	summaries := make([]BoreholeSummary, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		var intervals []Interval
		_ = json.Unmarshal(rec.Intervals.JSON, &intervals)
		summaries = append(summaries, BoreholeSummary{
			RecordID:      rec.RecordID,
			HoleID:        rec.HoleID,
			Project:       rec.Project,
			CreatedAt:     rec.CreatedAt,
			IntervalCount: len(intervals),
		})
	}
	return summaries, nil
}

func sampleFromModel(rec *models.SampleRecord) (*SampleSnapshot, error) {
	snap := &SampleSnapshot{
		RecordID:    rec.RecordID,
		ActivePhoto: rec.ActivePhoto,
		CreatedAt:   rec.CreatedAt,
	}
	if err := json.Unmarshal(rec.Form.JSON, &snap.Form); err != nil {
		return nil, fmt.Errorf("unmarshal form: %w", err)
	}
	if err := json.Unmarshal(rec.Photos.JSON, &snap.Photos); err != nil {
		return nil, fmt.Errorf("unmarshal photos: %w", err)
	}
	if err := json.Unmarshal(rec.PXRF.JSON, &snap.PXRF); err != nil {
		return nil, fmt.Errorf("unmarshal pxrf: %w", err)
	}
	if snap.Photos == nil {
		snap.Photos = []string{}
	}
	return snap, nil
}

func boreholeFromModel(rec *models.BoreholeRecord) (*BoreholeSnapshot, error) {
	snap := &BoreholeSnapshot{
		RecordID:  rec.RecordID,
		HoleID:    rec.HoleID,
		Project:   rec.Project,
		CreatedAt: rec.CreatedAt,
	}
	if err := json.Unmarshal(rec.Collar.JSON, &snap.Collar); err != nil {
		return nil, fmt.Errorf("unmarshal collar: %w", err)
	}
	if err := json.Unmarshal(rec.Intervals.JSON, &snap.Intervals); err != nil {
		return nil, fmt.Errorf("unmarshal intervals: %w", err)
	}
	if snap.Intervals == nil {
		snap.Intervals = []Interval{}
	}
	return snap, nil
}

func jsonColumn(data []byte) models.JSON {
	var j models.JSON
	_ = j.Scan(data)
	return j
}
