package rebuild

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/storage"
	"github.com/poiesic/resolvit/storage/badger"
)

func seedRecords(t *testing.T, repo storage.RecordRepository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		fields := []core.Field{
			{Type: core.FieldTypeNumber, Text: fmt.Sprintf("%d", i+1)},
			{Type: core.FieldTypeStreetName, Text: "Smith"},
			{Type: core.FieldTypeStreetType, Text: "Street"},
			{Type: core.FieldTypeLocality, Text: "Springvale"},
		}
		rec := &core.AddressRecord{Fields: fields, Display: core.DisplayFromFields(fields)}
		_, err := repo.PutRecords(ctx, rec)
		require.NoError(t, err)
	}
}

func TestRecordIterator_ForEach(t *testing.T) {
	recordRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	seedRecords(t, recordRepo, 7)
	ctx := context.Background()

	t.Run("delivers all records in batches", func(t *testing.T) {
		it := NewRecordIterator(recordRepo, 3)

		var batchSizes []int
		total := 0
		err := it.ForEach(ctx, func(batch []*core.AddressRecord) error {
			batchSizes = append(batchSizes, len(batch))
			total += len(batch)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		assert.Equal(t, []int{3, 3, 1}, batchSizes)
	})

	t.Run("stops on callback error", func(t *testing.T) {
		it := NewRecordIterator(recordRepo, 2)
		wantErr := errors.New("stop")

		calls := 0
		err := it.ForEach(ctx, func(batch []*core.AddressRecord) error {
			calls++
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, calls)
	})

	t.Run("invalid batch size falls back to default", func(t *testing.T) {
		it := NewRecordIterator(recordRepo, 0)
		assert.Equal(t, DefaultBatchSize, it.batchSize)
	})

	t.Run("cancelled context stops iteration", func(t *testing.T) {
		it := NewRecordIterator(recordRepo, 2)
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		err := it.ForEach(cancelled, func(batch []*core.AddressRecord) error {
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRecordIterator_EmptyStore(t *testing.T) {
	recordRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	it := NewRecordIterator(recordRepo, 10)
	calls := 0
	err = it.ForEach(context.Background(), func(batch []*core.AddressRecord) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}
