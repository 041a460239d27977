package nlp

import "go-triage/types"

// labelMap translates raw model outputs into clean labels. The LABEL_n rows
// cover the Russian RuSentiment model (5 classes, where "speech" splits into
// insults and gratitude), the upper-case rows cover the Kazakh polarity
// model, and the three-letter rows cover generic sentiment heads.
var labelMap = map[string]types.Label{
	"LABEL_0": types.LabelNegative,
	"LABEL_1": types.LabelNeutral,
	"LABEL_2": types.LabelPositive,
	"LABEL_3": types.LabelNeutral,
	"LABEL_4": types.LabelPositive,

	"NEGATIVE": types.LabelNegative,
	"POSITIVE": types.LabelPositive,
	"NEUTRAL":  types.LabelNeutral,

	"NEG": types.LabelNegative,
	"POS": types.LabelPositive,
	"NEU": types.LabelNeutral,
}

// NormalizeLabel maps a raw model label onto the closed label set. Unknown
// labels fall back to Neutral so one odd model output can't poison a run.
func NormalizeLabel(raw string) types.Label {
	if mapped, ok := labelMap[raw]; ok {
		return mapped
	}
	return types.LabelNeutral
}
