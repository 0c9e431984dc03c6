package export

import (
	"encoding/json"

	"github.com/lithofield/geodescribe/internal/store"
)

// JSONSnapshot emits the full snapshot verbatim, indented for a text
// download.
func JSONSnapshot(snap *store.SampleSnapshot) (string, error) {
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
