package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/index"
	"github.com/poiesic/resolvit/match"
	"github.com/poiesic/resolvit/normalize"
)

// Resolver ranks corpus addresses against free-form queries using the
// current index shard.
type Resolver struct {
	holder *index.Holder
	config *Config
	pool   *ants.Pool
	logger *slog.Logger
}

// Result is the outcome of one resolve call.
type Result struct {
	// Results holds ranked matches, best first.
	Results []core.MatchResult

	// Truncated reports that the context deadline expired mid-scoring and
	// unscored candidates were skipped. The results present are still
	// correctly ranked among themselves.
	Truncated bool
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithPool sets a worker pool for scoring candidates concurrently.
// Without a pool, candidates are scored on the calling goroutine.
// The pool is shared, not owned: the resolver never releases it.
func WithPool(pool *ants.Pool) Option {
	return func(r *Resolver) error {
		r.pool = pool
		return nil
	}
}

// NewResolver creates a new resolver reading shards from holder.
// A nil config uses DefaultConfig().
func NewResolver(holder *index.Holder, config *Config, opts ...Option) (*Resolver, error) {
	if holder == nil {
		return nil, ErrHolderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Resolver{
		holder: holder,
		config: config,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve ranks corpus addresses against the raw query.
// Returns up to limit results, best first.
func (r *Resolver) Resolve(ctx context.Context, raw string, limit int) (*Result, error) {
	return r.ResolveWithMonitor(ctx, raw, limit, nil)
}

// ResolveWithMonitor ranks corpus addresses against the raw query with
// monitoring. The monitor receives callbacks at each stage of resolution.
// Returns up to limit results, best first.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, raw string, limit int, monitor ResolveMonitor) (*Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(raw)

	if limit <= 0 || limit > r.config.MaxLimit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if len(raw) > r.config.MaxQueryBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrQueryTooLong, len(raw))
	}

	// 1. Normalize the query
	text, substringOnly := match.ParseQuery(raw)
	tokens := normalize.Tokenize(text)
	monitor.AfterTokenize(tokens)

	if len(tokens) == 0 {
		result := &Result{Results: []core.MatchResult{}}
		monitor.Finish(result)
		return result, nil
	}

	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		terms = append(terms, tok.Text)
	}
	query := match.Query{Terms: terms, SubstringOnly: substringOnly}

	// 2. Retrieve the candidate superset from the current shard
	shard, err := r.holder.Current()
	if err != nil {
		r.logger.Error("no index shard to resolve against", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	candidates := shard.Lookup(terms, index.LookupParams{
		AnchorCount:   r.config.AnchorCount,
		MaxCandidates: r.config.CandidateFactor * limit,
	})
	monitor.AfterLookup(candidates)

	if len(candidates) == 0 {
		result := &Result{Results: []core.MatchResult{}}
		monitor.Finish(result)
		return result, nil
	}

	// 3. Score candidates, stopping early if the deadline expires
	scored, scoredUpTo, err := r.scoreCandidates(ctx, shard, query, candidates)
	if err != nil {
		r.logger.Error("error scoring candidates", "query", raw, "err", err)
		return nil, err
	}
	skipped := len(candidates) - scoredUpTo

	// 4. Filter and rank
	kept := make([]*candidateScore, 0, scoredUpTo)
	for i := 0; i < scoredUpTo; i++ {
		c := &scored[i]
		if !c.matched || c.score.Score < r.config.MinScore {
			monitor.CandidateDropped(candidates[i])
			continue
		}
		monitor.CandidateScored(candidates[i], c.score.Score)
		kept = append(kept, c)
	}

	// Total order: score, then earliest matched span, then ID. Keeps
	// identical queries over identical shards byte-for-byte stable no
	// matter how scoring was scheduled.
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.score.Score != b.score.Score {
			return a.score.Score > b.score.Score
		}
		if a.score.FirstField != b.score.FirstField {
			return a.score.FirstField < b.score.FirstField
		}
		if a.score.FirstStart != b.score.FirstStart {
			return a.score.FirstStart < b.score.FirstStart
		}
		return a.record.Address.Id < b.record.Address.Id
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	results := make([]core.MatchResult, 0, len(kept))
	for _, c := range kept {
		addr := c.record.Address
		results = append(results, core.MatchResult{
			Id:      addr.Id,
			Display: addr.Display,
			Score:   c.score.Score,
			Geocode: addr.Geocode,
			Spans:   c.score.Spans,
		})
	}

	if skipped > 0 {
		monitor.DeadlineExpired(scoredUpTo, skipped)
		r.logger.Debug("deadline expired mid-scoring",
			"query", raw, "scored", scoredUpTo, "skipped", skipped)
	}

	result := &Result{Results: results, Truncated: skipped > 0}
	monitor.Finish(result)

	return result, nil
}

// candidateScore is one candidate's scoring slot. Slots are indexed by
// candidate position so pool scheduling never reorders anything.
type candidateScore struct {
	record  *index.Record
	score   match.AddressScore
	matched bool
}

// scoreCandidates scores candidates[0:n] for the largest n the context
// deadline allows, returning the filled slots and n. The deadline is
// checked between candidates, never inside one, so a slot is either fully
// scored or untouched.
func (r *Resolver) scoreCandidates(ctx context.Context, shard *index.Shard, query match.Query, candidates []core.ID) ([]candidateScore, int, error) {
	scored := make([]candidateScore, len(candidates))

	scoreOne := func(i int) error {
		rec, ok := shard.Record(candidates[i])
		if !ok {
			return fmt.Errorf("%w: %d", ErrRecordMissing, candidates[i])
		}
		s, matched := match.ScoreAddress(query, rec.Fields, r.config.Weights)
		scored[i] = candidateScore{record: rec, score: s, matched: matched}
		return nil
	}

	if r.pool == nil {
		for i := range candidates {
			if ctx.Err() != nil {
				return scored, i, nil
			}
			if err := scoreOne(i); err != nil {
				return nil, 0, err
			}
		}
		return scored, len(candidates), nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	upTo := len(candidates)
	for i := range candidates {
		if ctx.Err() != nil {
			upTo = i
			break
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := scoreOne(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}
		// A released or saturated pool falls back to scoring inline
		if err := r.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, 0, firstErr
	}
	return scored, upTo, nil
}
