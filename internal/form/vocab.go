package form

// Controlled vocabularies for the enumerated and set-valued fields. These
// mirror the pick lists in the capture UI; the data layer stores whatever it
// is given, so older records with retired terms still load. ApplyChange
// consults these to flag out-of-vocabulary writes without rejecting them.
var Vocabularies = map[string][]string{
	"category": {
		"Igneous - Intrusive",
		"Igneous - Volcanic",
		"Sedimentary - Clastic",
		"Sedimentary - Chemical",
		"Metamorphic - Foliated",
		"Metamorphic - Non-foliated",
		"Vein / Breccia",
		"Gossan / Iron-oxide",
		"Regolith / Soil",
		"Unknown",
	},
	"weathering": {
		"Fresh",
		"Slightly weathered",
		"Moderately weathered",
		"Highly weathered",
		"Completely weathered",
	},
	"lustre": {
		"Metallic",
		"Sub-metallic",
		"Vitreous",
		"Pearly",
		"Silky",
		"Resinous",
		"Greasy",
		"Dull / Earthy",
	},
	"grainSize": {
		"Aphanitic / cryptocrystalline",
		"Fine (<1 mm)",
		"Medium (1-5 mm)",
		"Coarse (5-30 mm)",
		"Pegmatitic (>30 mm)",
	},
	"fabric": {
		"Massive",
		"Foliated",
		"Banded",
		"Layered / Bedded",
		"Porphyritic",
		"Vesicular",
		"Amygdaloidal",
		"Brecciated",
		"Veined",
	},
	"hardness": {
		"<2.5 (fingernail)",
		"2.5-3.5 (coin)",
		"3.5-5.5 (knife)",
		"5.5-6.5 (glass)",
		">6.5 (streak plate)",
	},
	"streak": {
		"White / Colourless",
		"Grey",
		"Black",
		"Red / Red-brown",
		"Yellow-brown",
		"Green-black",
		"Pale yellow",
	},
	"magnetism": {
		"None",
		"Weak",
		"Moderate",
		"Strong",
	},
	"hclReaction": {
		"None",
		"Weak",
		"Moderate",
		"Vigorous",
	},
	"sgClass": {
		"Light (<2.5)",
		"Average (2.5-3.0)",
		"Dense (3.0-4.0)",
		"Very dense (>4.0)",
	},
	"minerals": {
		"Quartz", "K-feldspar", "Plagioclase", "Muscovite", "Biotite",
		"Chlorite", "Amphibole", "Pyroxene", "Olivine", "Calcite",
		"Dolomite", "Garnet", "Epidote", "Sericite", "Magnetite",
		"Hematite", "Goethite", "Limonite", "Barite", "Fluorite",
		"Gypsum", "Tourmaline", "Malachite", "Azurite",
	},
	"alteration": {
		"Silicification", "Sericitization", "Chloritization",
		"Epidotization", "Carbonatization", "Argillic",
		"Advanced argillic", "Potassic", "Propylitic",
		"Hematization", "Limonitic", "Skarn",
	},
	"sulfides": {
		"Pyrite", "Chalcopyrite", "Bornite", "Chalcocite", "Covellite",
		"Galena", "Sphalerite", "Pyrrhotite", "Arsenopyrite",
		"Molybdenite", "Stibnite",
	},
}

// inVocabulary reports whether value appears in the vocabulary for field.
// Unknown fields and blank values are always considered in-vocabulary.
func inVocabulary(field, value string) bool {
	vocab, ok := Vocabularies[field]
	if !ok || value == "" {
		return true
	}
	for _, v := range vocab {
		if v == value {
			return true
		}
	}
	return false
}
