package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/storage"
)

// Pipeline orchestrates ingestion of address records: writes are validated,
// persisted to the record store, and followed by a scheduled background
// index rebuild.
type Pipeline struct {
	records   storage.RecordRepository
	rebuilder Rebuilder
	pool      *ants.Pool
	logger    *slog.Logger

	mu         sync.Mutex
	rebuilding bool
	dirty      bool
	closed     bool
	wg         sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for background rebuilds.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline writing to records and
// scheduling rebuilds on rebuilder.
func NewPipeline(records storage.RecordRepository, rebuilder Rebuilder, opts ...Option) (*Pipeline, error) {
	if records == nil {
		return nil, ErrRepositoryRequired
	}
	if rebuilder == nil {
		return nil, ErrRebuilderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		records:   records,
		rebuilder: rebuilder,
		pool:      pool,
		logger:    slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.pool.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestBatch validates and persists a batch of address records, then
// schedules a rebuild. The batch is all-or-nothing: the first invalid record
// fails the call, naming the record, and nothing is stored. Records with
// ID=0 get content-based IDs; the returned records have IDs populated.
func (p *Pipeline) IngestBatch(ctx context.Context, records []*core.AddressRecord) ([]*core.AddressRecord, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("record %d: %w", i, ErrNilRecord)
		}
		if err := core.ValidateAddressRecord(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	added, err := p.records.PutRecords(ctx, records...)
	if err != nil {
		return nil, err
	}

	p.scheduleRebuild()
	return added, nil
}

// Upsert inserts or replaces a single address record and schedules a rebuild.
func (p *Pipeline) Upsert(ctx context.Context, record *core.AddressRecord) (*core.AddressRecord, error) {
	added, err := p.IngestBatch(ctx, []*core.AddressRecord{record})
	if err != nil {
		return nil, err
	}
	return added[0], nil
}

// Delete removes an address record by ID and schedules a rebuild.
// Returns storage.ErrNotFound if the record doesn't exist.
func (p *Pipeline) Delete(ctx context.Context, id core.ID) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if err := p.records.DeleteRecords(ctx, id); err != nil {
		return err
	}
	p.scheduleRebuild()
	return nil
}

// Close marks the pipeline closed, waits for in-flight rebuilds to drain and
// releases the worker pool. The pipeline must not be used after Close.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	p.pool.Release()
}

func (p *Pipeline) checkOpen() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPipelineClosed
	}
	return nil
}

// scheduleRebuild arranges for one rebuild to follow the write that just
// landed. Writes arriving while a rebuild is in flight coalesce: the worker
// loops once more instead of queueing a rebuild per write.
func (p *Pipeline) scheduleRebuild() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rebuilding {
		p.dirty = true
		return
	}
	p.rebuilding = true
	p.wg.Add(1)

	task := func() {
		defer p.wg.Done()
		for {
			if err := p.rebuilder.Run(context.Background()); err != nil {
				p.logger.Error("background index rebuild failed", "err", err)
			}

			p.mu.Lock()
			if !p.dirty {
				p.rebuilding = false
				p.mu.Unlock()
				return
			}
			p.dirty = false
			p.mu.Unlock()
		}
	}

	// A released or saturated pool runs the rebuild inline
	if err := p.pool.Submit(task); err != nil {
		go task()
	}
}
