package index

import (
	"sort"
	"strings"
	"time"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/match"
)

// Retrieval bounds applied when LookupParams leaves a field zero.
const (
	DefaultAnchorCount   = 2
	DefaultMaxCandidates = 2048
)

// Record is one corpus address resident in a shard, with its fields
// prepared for scoring so query time never re-normalizes corpus text.
type Record struct {
	Address *core.AddressRecord
	Fields  []match.FieldTarget
}

// Shard is one immutable, queryable snapshot of the candidate index.
// Postings are flat owned arrays: a sorted token slice with a parallel
// slice of sorted ID lists, which keeps prefix scans cache-friendly.
// Shards are built by a Builder and never mutated afterwards.
type Shard struct {
	tokens   []string
	postings [][]core.ID
	grams    map[string][]core.ID
	records  map[core.ID]*Record
	builtAt  time.Time
}

// Record returns the resident record for id.
func (s *Shard) Record(id core.ID) (*Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Len returns the number of records resident in the shard.
func (s *Shard) Len() int {
	return len(s.records)
}

// TokenCount returns the number of distinct indexed tokens.
func (s *Shard) TokenCount() int {
	return len(s.tokens)
}

// BuiltAt returns when the shard build completed.
func (s *Shard) BuiltAt() time.Time {
	return s.builtAt
}

// LookupParams bounds one candidate retrieval.
type LookupParams struct {
	// AnchorCount is how many of the rarest query terms drive retrieval.
	AnchorCount int
	// MaxCandidates caps the candidate superset. When the anchor union
	// exceeds it, the overflow is dropped: an accepted recall trade-off.
	MaxCandidates int
}

// termPostings is one query term's reachable posting lists. The list order
// is fixed (prefix matches in token order, then the n-gram list), keeping
// the capped union deterministic.
type termPostings struct {
	term  string
	mass  int
	lists [][]core.ID
}

// Lookup returns the candidate superset for a query: the union of postings
// of the anchor terms, capped at MaxCandidates and sorted ascending.
//
// Anchors are the terms with the fewest reachable postings, ties broken by
// term text. Terms reaching no postings are not anchors: they retrieve
// nothing and would only burn an anchor slot. When every term reaches
// nothing, Lookup returns nil.
func (s *Shard) Lookup(terms []string, p LookupParams) []core.ID {
	if len(terms) == 0 || len(s.records) == 0 {
		return nil
	}
	anchorCount := p.AnchorCount
	if anchorCount <= 0 {
		anchorCount = DefaultAnchorCount
	}
	maxCandidates := p.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}

	seen := make(map[string]struct{}, len(terms))
	ranked := make([]termPostings, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		if tp := s.postingsFor(term); tp.mass > 0 {
			ranked = append(ranked, tp)
		}
	}
	if len(ranked) == 0 {
		return nil
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].mass != ranked[j].mass {
			return ranked[i].mass < ranked[j].mass
		}
		return ranked[i].term < ranked[j].term
	})
	if len(ranked) > anchorCount {
		ranked = ranked[:anchorCount]
	}

	unique := make(map[core.ID]struct{}, maxCandidates)
	out := make([]core.ID, 0, maxCandidates)
collect:
	for _, tp := range ranked {
		for _, list := range tp.lists {
			for _, id := range list {
				if _, ok := unique[id]; ok {
					continue
				}
				unique[id] = struct{}{}
				out = append(out, id)
				if len(out) == maxCandidates {
					break collect
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// postingsFor collects the posting lists one query term can reach: every
// indexed token having the term as a prefix, plus the term's n-gram list
// for two- and three-byte terms. Prefix reach is what lets "smi" retrieve
// "smith"; the n-gram list is what lets "71" retrieve postcode "3171".
func (s *Shard) postingsFor(term string) termPostings {
	tp := termPostings{term: term}
	i := sort.SearchStrings(s.tokens, term)
	for ; i < len(s.tokens) && strings.HasPrefix(s.tokens[i], term); i++ {
		tp.lists = append(tp.lists, s.postings[i])
		tp.mass += len(s.postings[i])
	}
	if n := len(term); n == 2 || n == 3 {
		if list, ok := s.grams[term]; ok {
			tp.lists = append(tp.lists, list)
			tp.mass += len(list)
		}
	}
	return tp
}
