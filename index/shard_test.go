package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resolvit/core"
)

func TestLookupPrefix(t *testing.T) {
	shard := mustBuild(t, testCorpus())

	tests := []struct {
		name  string
		terms []string
		want  []core.ID
	}{
		{"full token", []string{"smith"}, []core.ID{1, 2}},
		{"prefix", []string{"smi"}, []core.ID{1, 2}},
		{"expanded street type", []string{"street"}, []core.ID{1, 2, 3}},
		{"locality prefix", []string{"spring"}, []core.ID{1, 2}},
		{"unknown term", []string{"zzz"}, nil},
		{"no terms", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shard.Lookup(tt.terms, LookupParams{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupGrams(t *testing.T) {
	shard := mustBuild(t, testCorpus())

	// "71" is no token prefix, but it is a 2-gram of postcode 3171.
	assert.Equal(t, []core.ID{1, 2}, shard.Lookup([]string{"71"}, LookupParams{}))
	// "171" reaches the same postcode as a 3-gram.
	assert.Equal(t, []core.ID{1, 2}, shard.Lookup([]string{"171"}, LookupParams{}))
}

func TestLookupAnchorsRarestTerms(t *testing.T) {
	shard := mustBuild(t, testCorpus())

	// With one anchor slot, "kew" (1 record) outranks "street" (3 records),
	// so the street-only records must not be retrieved.
	ids := shard.Lookup([]string{"street", "kew"}, LookupParams{AnchorCount: 1})
	assert.Equal(t, []core.ID{3}, ids)

	// Terms reaching no postings never consume an anchor slot.
	ids = shard.Lookup([]string{"zzz", "kew"}, LookupParams{AnchorCount: 1})
	assert.Equal(t, []core.ID{3}, ids)
}

func TestLookupCap(t *testing.T) {
	shard := mustBuild(t, testCorpus())

	ids := shard.Lookup([]string{"street"}, LookupParams{AnchorCount: 1, MaxCandidates: 2})
	require.Len(t, ids, 2)

	again := shard.Lookup([]string{"street"}, LookupParams{AnchorCount: 1, MaxCandidates: 2})
	assert.Equal(t, ids, again, "capped lookup must be deterministic")
}

func TestLookupBoundedRecall(t *testing.T) {
	shard := mustBuild(t, testCorpus())

	// Every record whose postings contain the anchor verbatim must appear
	// in the candidate superset while the cap is not hit.
	ids := shard.Lookup([]string{"smith"}, LookupParams{})
	for _, id := range []core.ID{1, 2} {
		assert.Contains(t, ids, id)
	}
}

func TestLookupDuplicateTermsCollapse(t *testing.T) {
	shard := mustBuild(t, testCorpus())

	once := shard.Lookup([]string{"smith"}, LookupParams{})
	twice := shard.Lookup([]string{"smith", "smith"}, LookupParams{AnchorCount: 1})
	assert.Equal(t, once, twice)
}

func TestRecordAccess(t *testing.T) {
	shard := mustBuild(t, testCorpus())

	rec, ok := shard.Record(1)
	require.True(t, ok)
	assert.Equal(t, core.ID(1), rec.Address.Id)

	_, ok = shard.Record(9999)
	assert.False(t, ok)
}
