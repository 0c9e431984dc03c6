package pxrf

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Elements is the fixed element set summarized from a pXRF export. Columns
// outside this set are carried in the raw rows but produce no statistics.
var Elements = []string{
	"Fe", "Cu", "Pb", "Zn", "As", "S", "Au", "Ag", "Mo", "Mn", "Ni", "Co",
	"Cr", "Ti", "Ca", "K", "Si", "Al", "Mg", "Sb", "Bi", "W", "Sn",
}

// ElementSummary holds per-element statistics over the parsed rows.
// Unparseable or missing values are excluded, never coerced to zero.
type ElementSummary struct {
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
}

// Dataset is a parsed pXRF import: the raw rows verbatim plus the computed
// summary. A new import replaces the whole dataset; nothing is updated
// incrementally.
type Dataset struct {
	Rows    []map[string]string       `json:"rows"`
	Summary map[string]ElementSummary `json:"summary"`
}

// HasData reports whether any element produced statistics.
func (d Dataset) HasData() bool {
	return len(d.Summary) > 0
}

// Import parses a pXRF CSV export: first row headers, quoted fields
// respected. Element columns are recognized by exact name or by the
// %, _ppm, or _wt% suffixed variants instrument vendors emit. Rows with
// malformed numeric cells keep their raw value but contribute nothing to
// that element's statistics.
func Import(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err == io.EOF {
		return Dataset{}, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("reading CSV header: %w", err)
	}

	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	// Column index -> canonical element, for recognized headers only
	elementCols := make(map[int]string)
	for i, h := range headers {
		if el, ok := MatchElementColumn(h); ok {
			// First matching column wins for each element
			taken := false
			for _, existing := range elementCols {
				if existing == el {
					taken = true
					break
				}
			}
			if !taken {
				elementCols[i] = el
			}
		}
	}

	ds := Dataset{Summary: make(map[string]ElementSummary)}
	values := make(map[string][]float64)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken row is excluded, not fatal; the
			// instrument trailer lines are a known offender.
			continue
		}

		row := make(map[string]string, len(headers))
		for i, cell := range record {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			row[headers[i]] = cell
			if el, ok := elementCols[i]; ok {
				cell = strings.TrimSpace(cell)
				if cell == "" {
					continue
				}
				if v, err := strconv.ParseFloat(strings.TrimSuffix(cell, "%"), 64); err == nil {
					values[el] = append(values[el], v)
				}
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	for el, vals := range values {
		ds.Summary[el] = summarize(vals)
	}

	return ds, nil
}

// MatchElementColumn resolves a CSV header to its canonical element symbol.
// Accepted forms for e.g. Fe: "Fe", "Fe%", "Fe_ppm", "Fe_wt%", case
// insensitively.
func MatchElementColumn(header string) (string, bool) {
	h := strings.TrimSpace(header)
	for _, suffix := range []string{"_wt%", "_ppm", "%"} {
		if strings.HasSuffix(strings.ToLower(h), suffix) {
			h = h[:len(h)-len(suffix)]
			break
		}
	}
	for _, el := range Elements {
		if strings.EqualFold(h, el) {
			return el, true
		}
	}
	return "", false
}

func summarize(vals []float64) ElementSummary {
	s := ElementSummary{N: len(vals)}
	if s.N == 0 {
		return s
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(len(sorted))

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		s.Median = sorted[mid]
	}

	return s
}
