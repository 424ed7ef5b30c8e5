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


// Package resolvit is a self-hosted fuzzy address resolution engine: it
// ranks candidate addresses from a persistent corpus against partial or
// noisy query strings, with highlight spans over the matched text.
//
// Engine is the assembled system. Open wires the Badger-backed corpus
// store, the index builder and holder, the ingestion pipeline and the
// resolver together; callers that need finer control can assemble the
// underlying packages directly.
package resolvit

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/index"
	"github.com/poiesic/resolvit/ingestion"
	"github.com/poiesic/resolvit/rebuild"
	"github.com/poiesic/resolvit/resolve"
	"github.com/poiesic/resolvit/storage"
	"github.com/poiesic/resolvit/storage/badger"
)

// Engine is the assembled address resolution system: corpus store, index,
// ingestion pipeline and resolver behind one handle.
type Engine struct {
	backend     *badger.Backend
	records     storage.RecordRepository
	checkpoints storage.CheckpointRepository
	holder      *index.Holder
	rebuilder   *rebuild.Rebuilder
	pipeline    *ingestion.Pipeline
	resolver    *resolve.Resolver
	pool        *ants.Pool
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	resolveConfig *resolve.Config
	rebuildConfig *rebuild.Config
	logger        *slog.Logger
	progress      io.Writer
	poolSize      int
	inMemory      bool
}

// WithResolveConfig sets the resolver configuration.
// Default is resolve.DefaultConfig().
func WithResolveConfig(config *resolve.Config) EngineOption {
	return func(o *engineOptions) {
		o.resolveConfig = config
	}
}

// WithRebuildConfig sets the index rebuild configuration.
// Default is rebuild.DefaultConfig().
func WithRebuildConfig(config *rebuild.Config) EngineOption {
	return func(o *engineOptions) {
		o.rebuildConfig = config
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress sets where rebuild progress is written.
// Default discards progress output.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		if w != nil {
			o.progress = w
		}
	}
}

// WithPoolSize sets the size of the shared scoring pool.
// Default is runtime.NumCPU().
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		if size > 0 {
			o.poolSize = size
		}
	}
}

// WithInMemory opens an in-memory store, ignoring the path. Nothing is
// persisted; intended for tests and experiments.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// Open assembles an engine over the store at filePath. When the store
// already holds records, the index is built before Open returns, so a
// successfully opened non-empty engine can resolve immediately.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		resolveConfig: resolve.DefaultConfig(),
		rebuildConfig: rebuild.DefaultConfig(),
		logger:        slog.Default(),
		progress:      io.Discard,
		poolSize:      runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	records := badger.NewRecordRepository(backend)
	checkpoints := badger.NewCheckpointRepository(backend)

	builder, err := index.NewBuilder(index.WithLogger(options.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}
	holder := &index.Holder{}

	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		backend.Close()
		return nil, err
	}

	rebuilder, err := rebuild.NewRebuilder(records, checkpoints, builder, holder,
		options.rebuildConfig, options.progress)
	if err != nil {
		pool.Release()
		backend.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(records, rebuilder,
		ingestion.WithLogger(options.logger))
	if err != nil {
		pool.Release()
		backend.Close()
		return nil, err
	}

	resolver, err := resolve.NewResolver(holder, options.resolveConfig,
		resolve.WithLogger(options.logger), resolve.WithPool(pool))
	if err != nil {
		pipeline.Close()
		pool.Release()
		backend.Close()
		return nil, err
	}

	e := &Engine{
		backend:     backend,
		records:     records,
		checkpoints: checkpoints,
		holder:      holder,
		rebuilder:   rebuilder,
		pipeline:    pipeline,
		resolver:    resolver,
		pool:        pool,
		logger:      options.logger,
	}

	if err := e.initialBuild(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// initialBuild indexes a pre-existing corpus so the first Resolve does not
// have to wait for an ingestion-triggered rebuild. An empty store builds
// nothing; Resolve reports the index unavailable until records arrive.
func (e *Engine) initialBuild() error {
	ctx := context.Background()
	count, err := e.records.CountRecords(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return e.rebuilder.Run(ctx)
}

// Resolve ranks corpus addresses against the raw query.
// Returns up to limit results, best first.
func (e *Engine) Resolve(ctx context.Context, query string, limit int) (*resolve.Result, error) {
	return e.resolver.Resolve(ctx, query, limit)
}

// Resolver returns the underlying resolver, for callers that want monitor
// hooks on individual calls.
func (e *Engine) Resolver() *resolve.Resolver {
	return e.resolver
}

// Ingest validates and stores a batch of address records and schedules a
// background index rebuild. Returns the records with IDs populated.
func (e *Engine) Ingest(ctx context.Context, records ...*core.AddressRecord) ([]*core.AddressRecord, error) {
	return e.pipeline.IngestBatch(ctx, records)
}

// Upsert inserts or replaces one address record and schedules a rebuild.
func (e *Engine) Upsert(ctx context.Context, record *core.AddressRecord) (*core.AddressRecord, error) {
	return e.pipeline.Upsert(ctx, record)
}

// Delete removes an address record by ID and schedules a rebuild.
func (e *Engine) Delete(ctx context.Context, id core.ID) error {
	return e.pipeline.Delete(ctx, id)
}

// Rebuild runs a full index rebuild synchronously.
func (e *Engine) Rebuild(ctx context.Context) error {
	return e.rebuilder.Run(ctx)
}

// Stats describes the engine's current corpus and index state.
type Stats struct {
	// StoredRecords is the record count in the corpus store.
	StoredRecords uint64
	// IndexedRecords and IndexedTokens describe the served shard; both are
	// zero when no shard has been published.
	IndexedRecords int
	IndexedTokens  int
	// ShardBuiltAt is when the served shard build completed.
	ShardBuiltAt time.Time
	// LastCheckpoint is the most recent full-build checkpoint, nil if no
	// build has ever completed.
	LastCheckpoint *core.Checkpoint
}

// Stats reports the current corpus and index state.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	count, err := e.records.CountRecords(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{StoredRecords: count}
	if shard, err := e.holder.Current(); err == nil {
		stats.IndexedRecords = shard.Len()
		stats.IndexedTokens = shard.TokenCount()
		stats.ShardBuiltAt = shard.BuiltAt()
	}

	checkpoint, err := e.checkpoints.LoadCheckpoint(ctx, rebuild.CheckpointKindFull)
	if err != nil {
		return nil, err
	}
	stats.LastCheckpoint = checkpoint

	return stats, nil
}

// Close drains in-flight rebuilds and releases all resources.
func (e *Engine) Close() error {
	e.pipeline.Close()
	e.pool.Release()

	if err := e.records.Close(); err != nil {
		e.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
