package match

import (
	"reflect"
	"testing"
)

func TestScoreSubstring(t *testing.T) {
	tests := []struct {
		name   string
		target string
		search string
		score  int
		ranges []Range
	}{
		{
			name:   "exact full string",
			target: "springvale",
			search: "springvale",
			score:  300*10*10 + 1000,
			ranges: []Range{{0, 10}},
		},
		{
			name:   "prefix of string",
			target: "springvale",
			search: "spring",
			score:  300*6*6 + 1000,
			ranges: []Range{{0, 6}},
		},
		{
			name:   "word prefix mid string",
			target: "smith street",
			search: "street",
			score:  300*6*6 + (200 - 6),
			ranges: []Range{{6, 6}},
		},
		{
			name:   "inner substring no bonus",
			target: "springvale",
			search: "ring",
			score:  300 * 4 * 4,
			ranges: []Range{{2, 4}},
		},
		{
			name:   "case folded",
			target: "Smith Street",
			search: "smith",
			score:  300*5*5 + 1000,
			ranges: []Range{{0, 5}},
		},
		{
			name:   "single byte substring",
			target: "spring vale",
			search: "v",
			score:  300 + (200 - 7),
			ranges: []Range{{7, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ScoreString(tt.target, tt.search)
			if !ok {
				t.Fatalf("ScoreString(%q, %q) did not match", tt.target, tt.search)
			}
			if m.Score != tt.score {
				t.Errorf("score = %d, want %d", m.Score, tt.score)
			}
			if !reflect.DeepEqual(m.Ranges, tt.ranges) {
				t.Errorf("ranges = %v, want %v", m.Ranges, tt.ranges)
			}
		})
	}
}

func TestScoreFuzzy(t *testing.T) {
	tests := []struct {
		name   string
		target string
		search string
		score  int
		ranges []Range
	}{
		{
			name:   "camel humps",
			target: "FuzzBunny",
			search: "fb",
			score:  (300 + 1000) + (300 + 200 - 4),
			ranges: []Range{{0, 1}, {4, 1}},
		},
		{
			name:   "word starts",
			target: "united states of america",
			search: "usam",
			score:  (300 + 1000) + (300 + 200 - 7) + (300*2*2 + 200 - 17),
			ranges: []Range{{0, 1}, {7, 1}, {17, 2}},
		},
		{
			name:   "space in target skipped",
			target: "smith street",
			search: "smithstreet",
			score:  (300*5*5 + 1000) + (300*6*6 + 200 - 6),
			ranges: []Range{{0, 5}, {6, 6}},
		},
		{
			name:   "space in search skipped",
			target: "smithstreet",
			search: "smith st",
			score:  300*7*7 + 1000,
			ranges: []Range{{0, 7}},
		},
		{
			name:   "touching segments merge",
			target: "smith street vale",
			search: "smith strvale",
			score:  (300*9*9 + 1000) + (300*4*4 + 200 - 13),
			ranges: []Range{{0, 9}, {13, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ScoreString(tt.target, tt.search)
			if !ok {
				t.Fatalf("ScoreString(%q, %q) did not match", tt.target, tt.search)
			}
			if m.Score != tt.score {
				t.Errorf("score = %d, want %d", m.Score, tt.score)
			}
			if !reflect.DeepEqual(m.Ranges, tt.ranges) {
				t.Errorf("ranges = %v, want %v", m.Ranges, tt.ranges)
			}
		})
	}
}

func TestScoreNoMatch(t *testing.T) {
	tests := []struct {
		name   string
		target string
		search string
	}{
		{"empty target", "", "x"},
		{"missing letters", "springvale", "xyz"},
		{"single byte absent", "springvale", "q"},
		{"scattered inside one word", "springvale", "sprvl"},
		{"quoted blocks fuzzy", "FuzzBunny", `"fb`},
		{"out of order", "smith street", "streetsmith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m, ok := ScoreString(tt.target, tt.search); ok {
				t.Errorf("ScoreString(%q, %q) = %+v, want no match", tt.target, tt.search, m)
			}
		})
	}
}

func TestScoreEmptySearch(t *testing.T) {
	m, ok := ScoreString("springvale", "")
	if !ok {
		t.Fatal("empty search should match")
	}
	if m.Score != 0 || len(m.Ranges) != 0 {
		t.Errorf("empty search = %+v, want zero score and no ranges", m)
	}
}

func TestScoreQuotedSubstring(t *testing.T) {
	// The quoted form still matches verbatim substrings, closed or not.
	for _, search := range []string{`"smith"`, `"smith`} {
		m, ok := ScoreString("smithfield", search)
		if !ok {
			t.Fatalf("ScoreString(smithfield, %s) did not match", search)
		}
		if want := []Range{{0, 5}}; !reflect.DeepEqual(m.Ranges, want) {
			t.Errorf("ranges = %v, want %v", m.Ranges, want)
		}
	}

	// The same search without quotes falls through to the walk.
	if _, ok := ScoreString("FuzzBunny", "fb"); !ok {
		t.Fatal("unquoted fb should fuzzy-match FuzzBunny")
	}
	if _, ok := ScoreString("FuzzBunny", `"fb"`); ok {
		t.Fatal("quoted fb should not fuzzy-match FuzzBunny")
	}
}

func TestScoreMonotonicity(t *testing.T) {
	exact, ok := ScoreString("spring vale", "spring vale")
	if !ok {
		t.Fatal("exact match failed")
	}
	prefix, ok := ScoreString("spring vale", "spring")
	if !ok {
		t.Fatal("prefix match failed")
	}
	scattered, ok := ScoreString("spring vale", "sprvale")
	if !ok {
		t.Fatal("scattered match failed")
	}

	if exact.Score <= prefix.Score {
		t.Errorf("exact %d should beat prefix %d", exact.Score, prefix.Score)
	}
	if prefix.Score <= scattered.Score {
		t.Errorf("prefix %d should beat scattered %d", prefix.Score, scattered.Score)
	}
	if scattered.Score <= 0 {
		t.Errorf("scattered score = %d, want positive", scattered.Score)
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		text          string
		substringOnly bool
	}{
		{"plain", "smith st", "smith st", false},
		{"quoted", `"smith st"`, "smith st", true},
		{"open quote", `"smith st`, "smith st", true},
		{"inner quotes kept", `smith "st"`, `smith "st"`, false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, substringOnly := ParseQuery(tt.raw)
			if text != tt.text || substringOnly != tt.substringOnly {
				t.Errorf("ParseQuery(%q) = (%q, %v), want (%q, %v)",
					tt.raw, text, substringOnly, tt.text, tt.substringOnly)
			}
		})
	}
}

func TestHighlights(t *testing.T) {
	m, ok := ScoreString("united states of america", "usam")
	if !ok {
		t.Fatal("usam should match")
	}
	want := []string{"", "u", "nited ", "s", "tates of ", "am", "erica"}
	if got := Highlights("united states of america", m.Ranges); !reflect.DeepEqual(got, want) {
		t.Errorf("Highlights = %q, want %q", got, want)
	}

	if got := Highlights("no match", nil); !reflect.DeepEqual(got, []string{"no match"}) {
		t.Errorf("Highlights with no ranges = %q", got)
	}

	full := []Range{{0, 5}}
	if got := Highlights("smith", full); !reflect.DeepEqual(got, []string{"", "smith"}) {
		t.Errorf("Highlights full match = %q", got)
	}
}

func TestTargetSkips(t *testing.T) {
	tests := []struct {
		text string
		want []int
	}{
		{"", []int{0}},
		{"smith", []int{0, 5}},
		{"FuzzBunny", []int{0, 4, 9}},
		{"ABC", []int{0, 3}},
		{"foo-bar", []int{0, 3, 4, 7}},
		{"12 smith", []int{0, 3, 8}},
		{"  lead", []int{2, 6}},
	}

	for _, tt := range tests {
		if got := targetSkips(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("targetSkips(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
