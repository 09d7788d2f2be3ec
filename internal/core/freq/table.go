// Package freq builds hashtag frequency tables over a lead corpus and derives
// the corpus-size-adaptive thresholds that feed niche classification
package freq

import "sort"

// Source tags where an occurrence was observed on the profile
type Source string

const (
	SourceBio  Source = "bio"
	SourcePost Source = "post"
)

// Occurrence is one observation of a canonical hashtag on one lead
type Occurrence struct {
	Hashtag     string
	Source      Source
	LeadID      string
	Contactable bool
}

// Frequency aggregates all observations of one canonical hashtag
type Frequency struct {
	Hashtag          string
	Total            int
	Bio              int
	Post             int
	UniqueLeads      int
	ContactableLeads int
}

// Table maps canonical hashtag to its aggregate
type Table map[string]*Frequency

// BuildTable aggregates occurrences into a frequency table.
// UniqueLeads counts distinct lead ids per tag regardless of source
func BuildTable(occs []Occurrence) Table {
	t := make(Table, len(occs)/4+1)
	leads := make(map[string]map[string]struct{}, len(occs)/4+1)
	contact := make(map[string]map[string]struct{})

	for _, o := range occs {
		if o.Hashtag == "" {
			continue
		}
		f := t[o.Hashtag]
		if f == nil {
			f = &Frequency{Hashtag: o.Hashtag}
			t[o.Hashtag] = f
			leads[o.Hashtag] = make(map[string]struct{}, 4)
		}
		f.Total++
		switch o.Source {
		case SourceBio:
			f.Bio++
		case SourcePost:
			f.Post++
		}
		if o.LeadID != "" {
			leads[o.Hashtag][o.LeadID] = struct{}{}
			if o.Contactable {
				c := contact[o.Hashtag]
				if c == nil {
					c = make(map[string]struct{}, 4)
					contact[o.Hashtag] = c
				}
				c[o.LeadID] = struct{}{}
			}
		}
	}

	for tag, f := range t {
		f.UniqueLeads = len(leads[tag])
		f.ContactableLeads = len(contact[tag])
	}
	return t
}

// SortedTotals returns all Total counts ascending, ready for percentile math
func (t Table) SortedTotals() []float64 {
	out := make([]float64, 0, len(t))
	for _, f := range t {
		out = append(out, float64(f.Total))
	}
	sort.Float64s(out)
	return out
}

// MinDFPolicy scales the noise floor with corpus size. Fractions are applied
// to the total lead count and the result rounded up
type MinDFPolicy struct {
	SmallFraction  float64 // below SmallCutoff leads
	MediumFraction float64 // below LargeCutoff leads
	LargeFraction  float64 // at or above LargeCutoff
	SmallCutoff    int
	LargeCutoff    int
}

// DefaultMinDFPolicy mirrors the tuned production constants
func DefaultMinDFPolicy() MinDFPolicy {
	return MinDFPolicy{
		SmallFraction:  0.005,
		MediumFraction: 0.0075,
		LargeFraction:  0.01,
		SmallCutoff:    20_000,
		LargeCutoff:    50_000,
	}
}

// MinDocumentFrequency computes ceil(totalLeads * p) with p chosen by corpus size
func (p MinDFPolicy) MinDocumentFrequency(totalLeads int) int {
	if totalLeads <= 0 {
		return 0
	}
	frac := p.LargeFraction
	switch {
	case totalLeads < p.SmallCutoff:
		frac = p.SmallFraction
	case totalLeads < p.LargeCutoff:
		frac = p.MediumFraction
	}
	return ceilMul(totalLeads, frac)
}

// MinDocumentFrequency with the default policy
func MinDocumentFrequency(totalLeads int) int {
	return DefaultMinDFPolicy().MinDocumentFrequency(totalLeads)
}

// FilterByMinDF returns a new table with every tag below the floor removed
func FilterByMinDF(t Table, minDF int) Table {
	out := make(Table, len(t))
	for tag, f := range t {
		if f.Total >= minDF {
			out[tag] = f
		}
	}
	return out
}

// ceilMul computes ceil(n * frac) without drifting through float rounding
// on exact multiples
func ceilMul(n int, frac float64) int {
	v := float64(n) * frac
	i := int(v)
	if float64(i) < v {
		i++
	}
	return i
}
