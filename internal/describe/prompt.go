package describe

import (
	"fmt"
	"sort"
	"strings"
)

// PromptTemplate is the externally supplied prompt configuration: a fixed
// system role plus an instruction block the geological context is appended
// to. One template serves every model candidate.
type PromptTemplate struct {
	System       string
	Instructions string
}

// DefaultPrompt is the stock field-description prompt.
var DefaultPrompt = PromptTemplate{
	System: "You are an experienced exploration geologist writing concise, " +
		"factual field descriptions of hand samples. Never invent features " +
		"that are not supported by the observations or the photo.",
	Instructions: "Write a single-paragraph field description of this rock " +
		"sample. Integrate the logged observations with what is visible in " +
		"the photo, note any inconsistencies, and end with one cautious " +
		"interpretive sentence.",
}

// BuildUser assembles the user message: instructions, then the form fields
// as a key block, then the pXRF summary when present. Field order is sorted
// for stable prompts.
func (p PromptTemplate) BuildUser(req Request) string {
	var b strings.Builder
	b.WriteString(p.Instructions)
	b.WriteString("\n\nLogged observations:\n")

	keys := make([]string, 0, len(req.Form))
	for k := range req.Form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := req.Form[k]
		if v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) == "" {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", k, t)
		case []interface{}:
			if len(t) == 0 {
				continue
			}
			parts := make([]string, 0, len(t))
			for _, item := range t {
				parts = append(parts, fmt.Sprint(item))
			}
			fmt.Fprintf(&b, "- %s: %s\n", k, strings.Join(parts, ", "))
		default:
			fmt.Fprintf(&b, "- %s: %v\n", k, v)
		}
	}

	if len(req.PXRFSummary) > 0 {
		b.WriteString("\npXRF element summary (mean values):\n")
		els := make([]string, 0, len(req.PXRFSummary))
		for el := range req.PXRFSummary {
			els = append(els, el)
		}
		sort.Strings(els)
		for _, el := range els {
			s := req.PXRFSummary[el]
			fmt.Fprintf(&b, "- %s: mean %.4g over %d readings (min %.4g, max %.4g)\n",
				el, s.Mean, s.N, s.Min, s.Max)
		}
	}

	return b.String()
}
