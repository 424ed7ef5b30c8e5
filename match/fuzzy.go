package match

import "strings"

// Scoring constants. Contiguity dominates: a run of n bytes scores
// scoreContiguous*n*n, so one long run always beats the same bytes split
// across runs. The bonuses reward matches the user most plausibly meant.
const (
	scoreStartOfString = 1000
	scoreWordPrefix    = 200
	scoreContiguous    = 300
)

// Range is a matched byte span within a target's text.
type Range struct {
	Start int
	Len   int
}

// End returns the exclusive end offset of the range.
func (r Range) End() int {
	return r.Start + r.Len
}

// score applies the range formula. A range at offset zero earns the
// start-of-string bonus; otherwise a range at a word start earns the prefix
// bonus decayed by its offset, floored at zero.
func (r Range) score(atWordStart bool) int {
	s := scoreContiguous * r.Len * r.Len
	switch {
	case r.Start == 0:
		s += scoreStartOfString
	case atWordStart && r.Start < scoreWordPrefix:
		s += scoreWordPrefix - r.Start
	}
	return s
}

// Match is the outcome of scoring one search against one target. Ranges are
// sorted, non-overlapping and non-touching.
type Match struct {
	Score  int
	Ranges []Range
}

// Search is one query term. Text must already be lower case, as produced by
// normalize.Tokenize. SubstringOnly restricts matching to verbatim substring
// occurrences, the mode used for quoted queries.
type Search struct {
	Text          string
	SubstringOnly bool
}

// Target is a candidate string prepared for repeated scoring: the
// ASCII-folded text plus the skip table of candidate match starts. Prepare
// once at index build time, score per query.
type Target struct {
	Text string

	folded string
	skips  []int
}

// NewTarget prepares text for scoring. Folding preserves byte length, so
// every Range offset is valid in the original text.
func NewTarget(text string) Target {
	return Target{Text: text, folded: foldASCII(text), skips: targetSkips(text)}
}

// Score matches search against the target. The second return reports
// whether the search matched at all. An empty search matches with score
// zero; an empty target never matches.
//
// A verbatim substring occurrence is preferred; failing that, a forward
// walk consumes the search at word starts (see walkFrom). Single-byte
// searches and SubstringOnly searches never fall through to the walk.
func (t Target) Score(search Search) (Match, bool) {
	if len(t.folded) == 0 {
		return Match{}, false
	}
	if len(search.Text) == 0 {
		return Match{}, true
	}

	if pos := strings.Index(t.folded, search.Text); pos >= 0 {
		r := Range{Start: pos, Len: len(search.Text)}
		atWordStart := pos == 0 || !isAlnumByte(t.folded[pos-1])
		return Match{Score: r.score(atWordStart), Ranges: []Range{r}}, true
	}
	if search.SubstringOnly || len(search.Text) < 2 {
		return Match{}, false
	}

	ranges, ok := t.fuzzyMatch(search.Text)
	if !ok {
		return Match{}, false
	}
	total := 0
	for _, r := range ranges {
		total += r.score(true)
	}
	return Match{Score: total, Ranges: ranges}, true
}

// fuzzyMatch starts a walk at every skip whose byte equals the first search
// byte, in order. The first walk that consumes the whole search wins.
func (t Target) fuzzyMatch(search string) ([]Range, bool) {
	first := search[0]
	for i := 0; i+1 < len(t.skips); i++ {
		if t.folded[t.skips[i]] != first {
			continue
		}
		if ranges, ok := t.walkFrom(i, search); ok {
			return ranges, true
		}
	}
	return nil, false
}

// walkFrom walks the skip segments from skip index from onward, consuming
// search bytes that agree with the target. Inside a segment a disagreement
// ends that segment's run, except that a space on either side is stepped
// over without breaking the run. Runs in touching segments merge into one
// range, so "smith street" stays a single highlight. The walk succeeds iff
// the search is fully consumed.
func (t Target) walkFrom(from int, search string) ([]Range, bool) {
	var ranges []Range
	si := 0
	for k := from; k+1 < len(t.skips) && si < len(search); k++ {
		pos, end := t.skips[k], t.skips[k+1]
		matched := 0
		for pos < end && si < len(search) {
			switch {
			case t.folded[pos] == search[si]:
				pos++
				si++
				matched++
			case t.folded[pos] == ' ':
				pos++
			case search[si] == ' ':
				si++
			default:
				pos = end
			}
		}
		if matched > 0 {
			start := t.skips[k]
			if n := len(ranges); n > 0 && ranges[n-1].End() == start {
				ranges[n-1].Len += matched
			} else {
				ranges = append(ranges, Range{Start: start, Len: matched})
			}
		}
	}
	return ranges, si == len(search)
}

// ParseQuery splits a raw query into its search text and matching mode. A
// query opened with a double quote matches verbatim substrings only; the
// closing quote is optional so the mode works while still typing.
func ParseQuery(raw string) (string, bool) {
	if strings.HasPrefix(raw, `"`) {
		return strings.TrimSuffix(raw[1:], `"`), true
	}
	return raw, false
}

// ScoreString scores one raw search string against one target string,
// honoring the quoted substring-only form. Convenience for one-off calls;
// prepare a Target when scoring the same text repeatedly.
func ScoreString(target, search string) (Match, bool) {
	text, substringOnly := ParseQuery(search)
	return NewTarget(target).Score(Search{Text: foldASCII(text), SubstringOnly: substringOnly})
}

// Highlights splits text into alternating unmatched and matched substrings:
// even indices unmatched, odd indices matched. Ranges must be sorted and
// non-overlapping, as produced by Score.
func Highlights(text string, ranges []Range) []string {
	if len(ranges) == 0 {
		return []string{text}
	}
	parts := make([]string, 0, 2*len(ranges)+1)
	pos := 0
	for _, r := range ranges {
		parts = append(parts, text[pos:r.Start], text[r.Start:r.End()])
		pos = r.End()
	}
	if pos < len(text) {
		parts = append(parts, text[pos:])
	}
	return parts
}

// targetSkips returns the candidate match starts of text: the first byte of
// every alphanumeric run, every upper-case hump and every ASCII punctuation
// byte, with len(text) appended as the final segment boundary.
func targetSkips(text string) []int {
	skips := make([]int, 0, 8)
	wasAlnum, wasUpper := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		isAlnum := isAlnumByte(c)
		isUpper := 'A' <= c && c <= 'Z'
		if (isAlnum && !wasAlnum) || (isUpper && !wasUpper) || isPunctByte(c) {
			skips = append(skips, i)
		}
		wasAlnum, wasUpper = isAlnum, isUpper
	}
	return append(skips, len(text))
}

// foldASCII lowercases ASCII letters byte for byte. Unlike strings.ToLower
// it never changes byte length, keeping offsets aligned with the source.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func isAlnumByte(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

func isPunctByte(b byte) bool {
	return b >= '!' && b <= '/' || b >= ':' && b <= '@' ||
		b >= '[' && b <= '`' || b >= '{' && b <= '~'
}
