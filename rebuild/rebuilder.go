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


package rebuild

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/index"
	"github.com/poiesic/resolvit/storage"
)

// CheckpointKindFull is the checkpoint kind recorded after a full rebuild.
const CheckpointKindFull = "full"

// Config holds configuration for the rebuild operation.
type Config struct {
	// BatchSize is the number of records streamed from storage per batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for storage reads
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      1000,
		ReportInterval: 10000,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Rebuilder rebuilds the index shard from the full corpus store and
// publishes the result. The currently served shard is replaced only after a
// completely successful build, so readers never see partial state.
type Rebuilder struct {
	records     storage.RecordRepository
	checkpoints storage.CheckpointRepository
	builder     *index.Builder
	holder      *index.Holder
	config      *Config
	progress    io.Writer
	iterator    *RecordIterator
}

// NewRebuilder creates a new rebuilder. checkpoints may be nil, in which
// case no checkpoint is written after a build.
// progress: where to write progress output (typically os.Stderr)
func NewRebuilder(
	records storage.RecordRepository,
	checkpoints storage.CheckpointRepository,
	builder *index.Builder,
	holder *index.Holder,
	config *Config,
	progress io.Writer,
) (*Rebuilder, error) {
	if records == nil {
		return nil, ErrRepositoryRequired
	}
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if holder == nil {
		return nil, ErrHolderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Rebuilder{
		records:     records,
		checkpoints: checkpoints,
		builder:     builder,
		holder:      holder,
		config:      config,
		progress:    progress,
		iterator:    NewRecordIterator(records, config.BatchSize),
	}, nil
}

// Run executes one full rebuild: stream the corpus, build a fresh shard,
// publish it, checkpoint. A store with zero records publishes nothing and
// returns nil; the previously served shard, if any, stays in place.
func (r *Rebuilder) Run(ctx context.Context) error {
	var total uint64
	err := RetryWithBackoff(ctx, func() error {
		var countErr error
		total, countErr = r.records.CountRecords(ctx)
		return countErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No address records in store (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting index rebuild over %d records (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, int(total), r.config.ReportInterval)
	tracker.Start()

	// The whole stream is retried as a unit: Badger iterators are snapshot
	// reads, so a failed pass cannot be resumed mid-way.
	corpus := make([]*core.AddressRecord, 0, total)
	err = RetryWithBackoff(ctx, func() error {
		corpus = corpus[:0]
		return r.iterator.ForEach(ctx, func(batch []*core.AddressRecord) error {
			corpus = append(corpus, batch...)
			tracker.Update(len(corpus))
			return nil
		})
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to stream corpus: %w", err)
	}

	shard, err := r.builder.Build(ctx, corpus)
	if err != nil {
		return fmt.Errorf("failed to build shard: %w", err)
	}

	if err := r.holder.Publish(shard); err != nil {
		return fmt.Errorf("failed to publish shard: %w", err)
	}

	if r.checkpoints != nil {
		checkpoint := &core.Checkpoint{
			Kind:    CheckpointKindFull,
			Records: uint64(shard.Len()),
			Tokens:  uint64(shard.TokenCount()),
		}
		if err := r.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Rebuild complete. Indexed %d records, %d tokens in %v (%.1f records/sec)\n",
		shard.Len(), shard.TokenCount(), elapsed.Round(time.Millisecond),
		float64(shard.Len())/elapsed.Seconds())

	return nil
}
