package tos

// MaxDistinctPositives caps the positives sample injected into prompts.
const MaxDistinctPositives = 10

// CommunityAggregate summarizes previously stored analyses.
type CommunityAggregate struct {
	RedFlagFrequency  map[string]int `json:"redFlagFrequency"`
	CautionFrequency  map[string]int `json:"cautionFrequency"`
	DistinctPositives []string       `json:"distinctPositives"`
	TotalReports      int            `json:"totalReports"`
}

// Empty reports whether the aggregate carries no community signal at all.
func (a CommunityAggregate) Empty() bool {
	return len(a.RedFlagFrequency) == 0 && len(a.CautionFrequency) == 0 && len(a.DistinctPositives) == 0
}

// ComputeCommunityAggregate folds previous analyses into frequency tables.
// Strings are matched exactly (case-sensitive). Positives keep first-seen
// order and stop at MaxDistinctPositives.
func ComputeCommunityAggregate(previous []AnalysisRecord) CommunityAggregate {
	agg := CommunityAggregate{
		RedFlagFrequency:  make(map[string]int),
		CautionFrequency:  make(map[string]int),
		DistinctPositives: []string{},
		TotalReports:      len(previous),
	}

	seen := make(map[string]bool)
	for _, rec := range previous {
		for _, f := range rec.RedFlags {
			agg.RedFlagFrequency[f]++
		}
		for _, c := range rec.Cautions {
			agg.CautionFrequency[c]++
		}
		for _, p := range rec.Positives {
			if seen[p] || len(agg.DistinctPositives) >= MaxDistinctPositives {
				continue
			}
			seen[p] = true
			agg.DistinctPositives = append(agg.DistinctPositives, p)
		}
	}
	return agg
}
