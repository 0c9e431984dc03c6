package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lithofield/geodescribe/internal/imaging"
	"github.com/lithofield/geodescribe/internal/store"
)

// gossanPattern gates the interpretive iron-oxide sentence on the category
// field.
var gossanPattern = regexp.MustCompile(`(?i)gossan|iron`)

// gossanSentence is the fixed interpretive line appended when the colour
// read and the category both point at an oxidized capping.
const gossanSentence = "The saturated red-orange colouration together with the " +
	"logged category is consistent with an iron-oxide gossan; consider the " +
	"exposure a weathered expression of possible underlying sulfide mineralization."

// QuickDraft builds the local template narrative from the current snapshot
// and an optional colour summary of the active photo. Sentence rules:
// colour/lustre always; grain size and fabric when present; alteration,
// sulfides, HCl and magnetism when present and not "None"; the gossan
// sentence when the colour summarizer flagged iron oxide AND the category
// matches the gossan pattern.
func QuickDraft(snap *store.SampleSnapshot, colour *imaging.ColorSummary) string {
	f := snap.Form
	var sentences []string

	colourTerm := strings.TrimSpace(f.ColourNotes)
	if colour != nil && colourTerm == "" {
		colourTerm = colour.Name
	}
	if colourTerm == "" {
		colourTerm = "undescribed colour"
	}
	lustre := strings.TrimSpace(f.Lustre)
	if lustre == "" {
		lustre = "unrecorded lustre"
	}
	sentences = append(sentences, fmt.Sprintf("Hand sample is %s with %s.",
		colourTerm, strings.ToLower(lustre)))

	if gs := strings.TrimSpace(f.GrainSize); gs != "" {
		sentences = append(sentences, fmt.Sprintf("Grain size is %s.", strings.ToLower(gs)))
	}
	if fb := strings.TrimSpace(f.Fabric); fb != "" {
		sentences = append(sentences, fmt.Sprintf("The fabric is %s.", strings.ToLower(fb)))
	}
	if f.Alteration.Len() > 0 {
		sentences = append(sentences, fmt.Sprintf("Alteration includes %s.",
			strings.ToLower(strings.Join(f.Alteration.Values(), ", "))))
	}
	if f.Sulfides.Len() > 0 {
		sentences = append(sentences, fmt.Sprintf("Visible sulfides: %s.",
			strings.ToLower(strings.Join(f.Sulfides.Values(), ", "))))
	}
	if hcl := strings.TrimSpace(f.HClNote); hcl != "" && !strings.EqualFold(hcl, "None") {
		sentences = append(sentences, fmt.Sprintf("Reaction to dilute HCl is %s.", strings.ToLower(hcl)))
	}
	if mag := strings.TrimSpace(f.Magnetism); mag != "" && !strings.EqualFold(mag, "None") {
		sentences = append(sentences, fmt.Sprintf("Magnetic response is %s.", strings.ToLower(mag)))
	}

	if colour != nil && colour.IronOxideLikely && gossanPattern.MatchString(f.Category) {
		sentences = append(sentences, gossanSentence)
	}

	return strings.Join(sentences, " ")
}
