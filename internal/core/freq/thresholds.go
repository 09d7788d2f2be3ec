package freq

// Thresholds carries the derived classification cutoffs for one analysis run
type Thresholds struct {
	MinDocumentFrequency int
	P90                  float64
	P50                  float64
	Root                 float64
	Candidate            float64
}

// ComputeThresholds derives root and candidate cutoffs from the min-df
// filtered table. Both are floored at the noise floor so a tiny surviving
// distribution cannot pull them below it. An empty table yields a zeroed
// result (the classifier treats that as nonexistent signal)
func ComputeThresholds(filtered Table, minDF int) Thresholds {
	th := Thresholds{MinDocumentFrequency: minDF}
	if len(filtered) == 0 {
		return th
	}

	totals := filtered.SortedTotals()
	th.P90 = Percentile(totals, 90)
	th.P50 = Percentile(totals, 50)

	th.Root = th.P90
	if f := float64(minDF); f > th.Root {
		th.Root = f
	}
	th.Candidate = th.P50
	if f := float64(minDF); f > th.Candidate {
		th.Candidate = f
	}
	return th
}
