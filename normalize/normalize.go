// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Class is a coarse classification of a normalized token.
type Class int

const (
	// ClassAlpha is a purely alphabetic token.
	ClassAlpha Class = iota + 1
	// ClassNumeric is a token led by a digit: house numbers, ranges like
	// "12-14", postcodes, alphanumeric units like "12b".
	ClassNumeric
	// ClassAbbrev is a token expanded from the abbreviation table.
	ClassAbbrev
	// ClassOther is a single passed-through character outside the address
	// vocabulary.
	ClassOther
)

// Token is one normalized token with its extent in the original string.
// Text is the canonical form: lowercased and, for known abbreviations,
// expanded. Start and End are byte offsets into the original string.
type Token struct {
	Text  string
	Start int
	End   int
	Class Class
}

// abbreviations maps lowercase address abbreviations to their canonical
// expansion. Street types first, then directionals. The table is applied
// tokenwise after lowercasing.
var abbreviations = map[string]string{
	"st":   "street",
	"rd":   "road",
	"ave":  "avenue",
	"av":   "avenue",
	"hwy":  "highway",
	"pde":  "parade",
	"cres": "crescent",
	"ct":   "court",
	"crt":  "court",
	"pl":   "place",
	"dr":   "drive",
	"ln":   "lane",
	"tce":  "terrace",
	"blvd": "boulevard",
	"cct":  "circuit",
	"esp":  "esplanade",
	"gr":   "grove",
	"gdns": "gardens",
	"sq":   "square",
	"cl":   "close",

	"n":   "north",
	"s":   "south",
	"e":   "east",
	"w":   "west",
	"nth": "north",
	"sth": "south",
}

// Tokenize splits raw into normalized tokens. It is pure and total: no input
// fails. Letters and digits form tokens; whitespace and ASCII punctuation are
// boundaries, except a hyphen between two digits, which stays inside a
// numeric token. Any other character passes through as a single-character
// ClassOther token.
func Tokenize(raw string) []Token {
	var tokens []Token
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		tokens = append(tokens, makeToken(raw, start, end))
		start = -1
	}

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if start < 0 {
				start = i
			}
		case r == '-' && start >= 0 && isDigitByte(raw[i-1]) && i+1 < len(raw) && isDigitByte(raw[i+1]):
			// keep "12-14" together
		case unicode.IsSpace(r), r < utf8.RuneSelf && isASCIIPunct(byte(r)):
			flush(i)
		default:
			flush(i)
			tokens = append(tokens, Token{
				Text:  string(unicode.ToLower(r)),
				Start: i,
				End:   i + size,
				Class: ClassOther,
			})
		}
		i += size
	}
	flush(len(raw))

	return tokens
}

func makeToken(raw string, start, end int) Token {
	lower := strings.ToLower(raw[start:end])
	if expanded, ok := abbreviations[lower]; ok {
		return Token{Text: expanded, Start: start, End: end, Class: ClassAbbrev}
	}
	class := ClassAlpha
	if isDigitByte(lower[0]) {
		class = ClassNumeric
	}
	return Token{Text: lower, Start: start, End: end, Class: class}
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIIPunct(b byte) bool {
	return (b >= '!' && b <= '/') || (b >= ':' && b <= '@') ||
		(b >= '[' && b <= '`') || (b >= '{' && b <= '~')
}

// TokenSpan relates one canonical token's extent in a canonical field text to
// its extent in the raw field text. Exact reports that the canonical form
// preserved the raw byte length, so offsets inside the token map linearly.
type TokenSpan struct {
	CanonStart int
	CanonEnd   int
	RawStart   int
	RawEnd     int
	Exact      bool
}

// CanonicalField normalizes one field's display text into its canonical
// matching text: canonical tokens joined by single spaces, plus the span
// table mapping canonical extents back to raw extents. Applied identically
// to corpus fields at build time and implicit in query tokenization.
func CanonicalField(raw string) (string, []TokenSpan) {
	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		return "", nil
	}

	var sb strings.Builder
	spans := make([]TokenSpan, 0, len(tokens))
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		cs := sb.Len()
		sb.WriteString(tok.Text)
		spans = append(spans, TokenSpan{
			CanonStart: cs,
			CanonEnd:   sb.Len(),
			RawStart:   tok.Start,
			RawEnd:     tok.End,
			Exact:      len(tok.Text) == tok.End-tok.Start,
		})
	}

	return sb.String(), spans
}
