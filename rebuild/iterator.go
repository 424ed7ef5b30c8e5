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

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/storage"
)

const (
	// DefaultBatchSize is the default number of records delivered per batch
	DefaultBatchSize = 1000
)

// RecordIterator streams all stored address records in ID-ordered batches.
type RecordIterator struct {
	repo      storage.RecordRepository
	batchSize int
}

// NewRecordIterator creates a new record iterator.
// batchSize: number of records delivered in each batch (must be > 0)
func NewRecordIterator(repo storage.RecordRepository, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &RecordIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach streams every stored record to fn in batches of batchSize.
// Iteration stops on the first error from fn, on a storage error, or when
// ctx ends.
func (it *RecordIterator) ForEach(ctx context.Context, fn func([]*core.AddressRecord) error) error {
	batch := make([]*core.AddressRecord, 0, it.batchSize)

	err := it.repo.ForEachRecord(ctx, func(record *core.AddressRecord) error {
		batch = append(batch, record)
		if len(batch) < it.batchSize {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	})
	if err != nil {
		return err
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
