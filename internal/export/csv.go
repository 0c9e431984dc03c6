package export

import (
	"encoding/csv"
	"strings"

	"github.com/lithofield/geodescribe/internal/store"
)

// BoreholeCSV renders a drill-hole log as CSV: one header row, one row per
// interval in list order. Quoting follows RFC 4180 (a comma or embedded
// quote wraps the field, embedded quotes are doubled), so re-parsing
// recovers the original field values exactly.
func BoreholeCSV(snap *store.BoreholeSnapshot) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{"hole_id", "project", "latitude", "longitude", "elevation", "azimuth", "dip", "from", "to", "description"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, iv := range snap.Intervals {
		row := []string{
			snap.HoleID,
			snap.Project,
			snap.Collar.Latitude,
			snap.Collar.Longitude,
			snap.Collar.Elevation,
			snap.Collar.Azimuth,
			snap.Collar.Dip,
			iv.From,
			iv.To,
			iv.Description,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
