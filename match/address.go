package match

import (
	"sort"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/normalize"
)

// Weights maps a field type to its score multiplier. Types absent from the
// table weigh 1.
type Weights map[core.FieldType]float64

// DefaultWeights favors the fields people actually type when searching:
// street name and locality above unit, region and street type.
func DefaultWeights() Weights {
	return Weights{
		core.FieldTypeUnit:       0.6,
		core.FieldTypeNumber:     1.1,
		core.FieldTypeStreetName: 1.5,
		core.FieldTypeStreetType: 0.9,
		core.FieldTypeLocality:   1.3,
		core.FieldTypeRegion:     0.8,
		core.FieldTypePostcode:   1.2,
	}
}

// Of returns the multiplier for t, defaulting to 1 for unlisted types.
func (w Weights) Of(t core.FieldType) float64 {
	if v, ok := w[t]; ok {
		return v
	}
	return 1
}

// Query is a normalized query ready for scoring: canonical lower-case terms
// plus the matching mode parsed from the raw input.
type Query struct {
	Terms         []string
	SubstringOnly bool
}

// FieldTarget is one address field prepared for scoring: the canonical
// matching text with its skip table, plus the token span table that maps
// match ranges back onto the field's display text.
type FieldTarget struct {
	Type   core.FieldType
	Text   string
	Target Target
	Spans  []normalize.TokenSpan
}

// NewFieldTarget canonicalizes one field for scoring.
func NewFieldTarget(f core.Field) FieldTarget {
	canon, spans := normalize.CanonicalField(f.Text)
	return FieldTarget{Type: f.Type, Text: f.Text, Target: NewTarget(canon), Spans: spans}
}

// FieldTargets prepares a record's fields for scoring, dropping fields that
// normalize to nothing.
func FieldTargets(fields []core.Field) []FieldTarget {
	targets := make([]FieldTarget, 0, len(fields))
	for _, f := range fields {
		ft := NewFieldTarget(f)
		if ft.Target.Text == "" {
			continue
		}
		targets = append(targets, ft)
	}
	return targets
}

// AddressScore is the outcome of scoring one candidate address. FirstField
// and FirstStart identify the earliest matched span, the secondary sort key
// after Score when ranking candidates.
type AddressScore struct {
	Score float64
	Spans []core.Span

	FirstField core.FieldType
	FirstStart int
}

// ScoreAddress scores a query against one candidate's prepared fields. Each
// term takes its best weighted field match, ties going to the earlier field;
// a term matching no field rejects the whole candidate. Winning ranges are
// merged per field and translated to display offsets.
func ScoreAddress(q Query, fields []FieldTarget, weights Weights) (AddressScore, bool) {
	if len(q.Terms) == 0 || len(fields) == 0 {
		return AddressScore{}, false
	}

	var total float64
	fieldRanges := make([][]Range, len(fields))
	for _, term := range q.Terms {
		search := Search{Text: term, SubstringOnly: q.SubstringOnly}
		best := -1
		var bestScore float64
		var bestRanges []Range
		for i := range fields {
			m, ok := fields[i].Target.Score(search)
			if !ok {
				continue
			}
			weighted := weights.Of(fields[i].Type) * float64(m.Score)
			if best < 0 || weighted > bestScore {
				best, bestScore, bestRanges = i, weighted, m.Ranges
			}
		}
		if best < 0 {
			return AddressScore{}, false
		}
		total += bestScore
		fieldRanges[best] = append(fieldRanges[best], bestRanges...)
	}

	score := AddressScore{Score: total}
	for i, ranges := range fieldRanges {
		if len(ranges) == 0 {
			continue
		}
		for _, r := range mergeRanges(ranges) {
			start, end, ok := rangeToRaw(r, fields[i].Spans)
			if !ok {
				continue
			}
			score.Spans = append(score.Spans, core.Span{
				Field: fields[i].Type,
				Start: start,
				End:   end,
			})
		}
	}
	if len(score.Spans) > 0 {
		score.FirstField = score.Spans[0].Field
		score.FirstStart = score.Spans[0].Start
	}
	return score, true
}

// mergeRanges sorts ranges and merges overlapping or touching neighbors.
func mergeRanges(ranges []Range) []Range {
	if len(ranges) < 2 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End() {
			if r.End() > last.End() {
				last.Len = r.End() - last.Start
			}
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

// rangeToRaw maps a range over canonical field text onto display offsets.
// Offsets inside an exactly-preserved token map linearly; an expanded token
// contributes its whole raw extent. A range crossing token boundaries covers
// from the first to the last overlapped token. ok is false when the range
// overlaps no token at all.
func rangeToRaw(r Range, spans []normalize.TokenSpan) (int, int, bool) {
	start, end := -1, -1
	for _, ts := range spans {
		if ts.CanonEnd <= r.Start || ts.CanonStart >= r.End() {
			continue
		}
		s, e := ts.RawStart, ts.RawEnd
		if ts.Exact {
			if r.Start > ts.CanonStart {
				s = ts.RawStart + (r.Start - ts.CanonStart)
			}
			if r.End() < ts.CanonEnd {
				e = ts.RawEnd - (ts.CanonEnd - r.End())
			}
		}
		if start < 0 || s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	return start, end, true
}
