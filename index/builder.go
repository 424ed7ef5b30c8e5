package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/match"
	"github.com/poiesic/resolvit/normalize"
)

// Builder constructs shards from corpus batches. A Builder is stateless
// between builds and safe for concurrent use.
type Builder struct {
	logger  *slog.Logger
	workers int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithWorkers sets how many goroutines index corpus chunks.
// Default is runtime.NumCPU().
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		b.workers = n
		return nil
	}
}

// NewBuilder creates a builder with default settings and applies options.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		logger:  slog.Default(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("failed to apply builder option: %w", err)
		}
	}
	return b, nil
}

// Build indexes a corpus batch into a new shard. Every record is validated;
// the first invalid record fails the whole build, naming the record, and no
// partial shard escapes. The caller decides whether and where to publish
// the result.
func (b *Builder) Build(ctx context.Context, records []*core.AddressRecord) (*Shard, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCorpus
	}
	started := time.Now()

	workers := b.workers
	if workers > len(records) {
		workers = len(records)
	}
	chunk := (len(records) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	parts := make([]*partial, 0, workers)
	for lo := 0; lo < len(records); lo += chunk {
		hi := min(lo+chunk, len(records))
		part := newPartial(hi - lo)
		parts = append(parts, part)
		batch := records[lo:hi]
		g.Go(func() error {
			return part.index(gctx, batch)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shard, err := mergePartials(parts)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("index build complete",
		"records", shard.Len(),
		"tokens", shard.TokenCount(),
		"grams", len(shard.grams),
		"workers", workers,
		"elapsed", time.Since(started))

	return shard, nil
}

// partial is one worker's private slice of the index under construction.
type partial struct {
	tokens  map[string][]core.ID
	grams   map[string][]core.ID
	records []*Record
}

func newPartial(capacity int) *partial {
	return &partial{
		tokens:  make(map[string][]core.ID),
		grams:   make(map[string][]core.ID),
		records: make([]*Record, 0, capacity),
	}
}

func (p *partial) index(ctx context.Context, records []*core.AddressRecord) error {
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrBuildCancelled, err)
		}
		if err := p.add(rec); err != nil {
			return err
		}
	}
	return nil
}

// add validates and indexes a single record: every canonical token of every
// field becomes a posting, and numeric or short tokens additionally post
// their character n-grams.
func (p *partial) add(rec *core.AddressRecord) error {
	if rec == nil {
		return ErrNilRecord
	}
	if err := core.ValidateAddressRecord(rec); err != nil {
		return fmt.Errorf("record %d: %w", rec.Id, err)
	}

	indexed := 0
	for _, f := range rec.Fields {
		for _, tok := range normalize.Tokenize(f.Text) {
			p.tokens[tok.Text] = append(p.tokens[tok.Text], rec.Id)
			indexed++
			if tok.Class == normalize.ClassNumeric || len(tok.Text) <= 3 {
				for _, gram := range tokenGrams(tok.Text) {
					p.grams[gram] = append(p.grams[gram], rec.Id)
				}
			}
		}
	}
	if indexed == 0 {
		return fmt.Errorf("record %d: %w", rec.Id, ErrEmptyRecord)
	}

	p.records = append(p.records, &Record{
		Address: rec,
		Fields:  match.FieldTargets(rec.Fields),
	})
	return nil
}

// mergePartials combines worker outputs into the final flat shard arrays.
func mergePartials(parts []*partial) (*Shard, error) {
	total := 0
	for _, p := range parts {
		total += len(p.records)
	}

	recordTable := make(map[core.ID]*Record, total)
	tokenLists := make(map[string][]core.ID)
	gramLists := make(map[string][]core.ID)
	for _, p := range parts {
		for _, rec := range p.records {
			if _, dup := recordTable[rec.Address.Id]; dup {
				return nil, fmt.Errorf("record %d: %w", rec.Address.Id, ErrDuplicateRecord)
			}
			recordTable[rec.Address.Id] = rec
		}
		for tok, ids := range p.tokens {
			tokenLists[tok] = append(tokenLists[tok], ids...)
		}
		for gram, ids := range p.grams {
			gramLists[gram] = append(gramLists[gram], ids...)
		}
	}

	tokens := make([]string, 0, len(tokenLists))
	for tok := range tokenLists {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	postings := make([][]core.ID, len(tokens))
	for i, tok := range tokens {
		postings[i] = sortIDs(tokenLists[tok])
	}
	for gram, ids := range gramLists {
		gramLists[gram] = sortIDs(ids)
	}

	return &Shard{
		tokens:   tokens,
		postings: postings,
		grams:    gramLists,
		records:  recordTable,
		builtAt:  time.Now().UTC(),
	}, nil
}

// tokenGrams returns the 2- and 3-byte substrings of token.
func tokenGrams(token string) []string {
	grams := make([]string, 0, 2*len(token))
	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(token); i++ {
			grams = append(grams, token[i:i+n])
		}
	}
	return grams
}

// sortIDs sorts ids ascending and drops duplicates in place.
func sortIDs(ids []core.ID) []core.ID {
	slices.Sort(ids)
	return slices.Compact(ids)
}
