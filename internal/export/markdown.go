package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithofield/geodescribe/internal/pxrf"
	"github.com/lithofield/geodescribe/internal/store"
)

// blank is the placeholder emitted for empty fields.
const blank = "—"

// Markdown renders one sample snapshot into the fixed field-report
// template. Empty fields render as an em dash; the pXRF section appears
// only when at least one element produced statistics.
func Markdown(snap *store.SampleSnapshot) string {
	f := snap.Form
	var b strings.Builder

	fmt.Fprintf(&b, "# Field Description — %s\n\n", orBlank(f.SampleID))
	fmt.Fprintf(&b, "- **Project:** %s\n", orBlank(f.Project))
	fmt.Fprintf(&b, "- **Date:** %s\n", orBlank(f.Timestamp))
	fmt.Fprintf(&b, "- **Location:** lat %s, lon %s, elev %s\n\n",
		orBlank(f.Latitude), orBlank(f.Longitude), orBlank(f.Elevation))

	b.WriteString("## Lithology\n\n")
	fmt.Fprintf(&b, "- **Category:** %s\n", orBlank(f.Category))
	fmt.Fprintf(&b, "- **Weathering:** %s\n", orBlank(f.Weathering))
	fmt.Fprintf(&b, "- **Grain size:** %s\n", orBlank(f.GrainSize))
	fmt.Fprintf(&b, "- **Fabric:** %s\n\n", orBlank(f.Fabric))

	b.WriteString("## Physical properties\n\n")
	fmt.Fprintf(&b, "- **Lustre:** %s\n", orBlank(f.Lustre))
	fmt.Fprintf(&b, "- **Hardness:** %s\n", orBlank(f.Hardness))
	fmt.Fprintf(&b, "- **Streak:** %s\n", orBlank(f.Streak))
	fmt.Fprintf(&b, "- **Magnetism:** %s\n", orBlank(f.Magnetism))
	fmt.Fprintf(&b, "- **HCl reaction:** %s\n", orBlank(f.HClNote))
	fmt.Fprintf(&b, "- **Specific gravity:** %s\n\n", orBlank(f.SGClass))

	b.WriteString("## Mineralogy\n\n")
	fmt.Fprintf(&b, "- **Minerals:** %s\n", orBlank(strings.Join(f.Minerals.Values(), ", ")))
	fmt.Fprintf(&b, "- **Alteration:** %s\n", orBlank(strings.Join(f.Alteration.Values(), ", ")))
	fmt.Fprintf(&b, "- **Sulfides:** %s\n\n", orBlank(strings.Join(f.Sulfides.Values(), ", ")))

	b.WriteString("## Notes\n\n")
	fmt.Fprintf(&b, "- **Colour:** %s\n", orBlank(f.ColourNotes))
	fmt.Fprintf(&b, "- **Field notes:** %s\n", orBlank(f.FieldNotes))
	fmt.Fprintf(&b, "- **Photos:** %d\n", len(snap.Photos))

	if snap.PXRF.HasData() {
		b.WriteString("\n## pXRF statistics\n\n")
		for _, el := range sortedElements(snap.PXRF.Summary) {
			s := snap.PXRF.Summary[el]
			fmt.Fprintf(&b, "- **%s:** n=%d, min=%s, median=%s, mean=%s, max=%s\n",
				el, s.N, trimFloat(s.Min), trimFloat(s.Median), trimFloat(s.Mean), trimFloat(s.Max))
		}
	}

	return b.String()
}

func orBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return blank
	}
	return s
}

func sortedElements(summary map[string]pxrf.ElementSummary) []string {
	els := make([]string, 0, len(summary))
	for el := range summary {
		els = append(els, el)
	}
	sort.Strings(els)
	return els
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
