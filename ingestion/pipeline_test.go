package ingestion

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/storage"
	"github.com/poiesic/resolvit/storage/badger"
)

// testRebuilder counts rebuild runs and optionally fails or slows them.
type testRebuilder struct {
	runs        atomic.Int64
	delay       time.Duration
	shouldError bool
}

func (r *testRebuilder) Run(ctx context.Context) error {
	r.runs.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.shouldError {
		return errors.New("rebuild error")
	}
	return nil
}

func testAddress(number, street string) *core.AddressRecord {
	fields := []core.Field{
		{Type: core.FieldTypeNumber, Text: number},
		{Type: core.FieldTypeStreetName, Text: street},
		{Type: core.FieldTypeStreetType, Text: "Street"},
		{Type: core.FieldTypeLocality, Text: "Springvale"},
		{Type: core.FieldTypeRegion, Text: "VIC"},
		{Type: core.FieldTypePostcode, Text: "3171"},
	}
	return &core.AddressRecord{Fields: fields, Display: core.DisplayFromFields(fields)}
}

func setupPipeline(t *testing.T) (*Pipeline, storage.RecordRepository, *testRebuilder) {
	t.Helper()

	recordRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	rebuilder := &testRebuilder{}
	pipeline, err := NewPipeline(recordRepo, rebuilder)
	require.NoError(t, err)
	t.Cleanup(pipeline.Close)

	return pipeline, recordRepo, rebuilder
}

func TestNewPipeline(t *testing.T) {
	recordRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	t.Run("requires record repository", func(t *testing.T) {
		_, err := NewPipeline(nil, &testRebuilder{})
		assert.ErrorIs(t, err, ErrRepositoryRequired)
	})

	t.Run("requires rebuilder", func(t *testing.T) {
		_, err := NewPipeline(recordRepo, nil)
		assert.ErrorIs(t, err, ErrRebuilderRequired)
	})

	t.Run("applies options", func(t *testing.T) {
		p, err := NewPipeline(recordRepo, &testRebuilder{}, WithPoolSize(2), WithLogger(nil))
		require.NoError(t, err)
		p.Close()
	})
}

func TestPipeline_IngestBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("persists records and schedules a rebuild", func(t *testing.T) {
		pipeline, recordRepo, rebuilder := setupPipeline(t)

		added, err := pipeline.IngestBatch(ctx, []*core.AddressRecord{
			testAddress("12", "Smith"),
			testAddress("14", "Smith"),
		})
		require.NoError(t, err)
		require.Len(t, added, 2)
		assert.NotZero(t, added[0].Id, "content ID derived on put")

		count, err := recordRepo.CountRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)

		assert.Eventually(t, func() bool {
			return rebuilder.runs.Load() >= 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		pipeline, _, rebuilder := setupPipeline(t)

		added, err := pipeline.IngestBatch(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, added)
		assert.Zero(t, rebuilder.runs.Load())
	})

	t.Run("nil record rejects the whole batch", func(t *testing.T) {
		pipeline, recordRepo, _ := setupPipeline(t)

		_, err := pipeline.IngestBatch(ctx, []*core.AddressRecord{testAddress("1", "High"), nil})
		require.ErrorIs(t, err, ErrNilRecord)

		count, err := recordRepo.CountRecords(ctx)
		require.NoError(t, err)
		assert.Zero(t, count, "failed batch must store nothing")
	})

	t.Run("invalid record rejects the whole batch", func(t *testing.T) {
		pipeline, recordRepo, rebuilder := setupPipeline(t)

		invalid := &core.AddressRecord{Fields: []core.Field{{Type: core.FieldTypeNumber, Text: "1"}}}
		_, err := pipeline.IngestBatch(ctx, []*core.AddressRecord{invalid})
		require.ErrorIs(t, err, core.ErrInvalidAddressRecord)

		count, err := recordRepo.CountRecords(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, rebuilder.runs.Load())
	})

	t.Run("coalesces rebuilds under write bursts", func(t *testing.T) {
		pipeline, _, rebuilder := setupPipeline(t)
		rebuilder.delay = 20 * time.Millisecond

		for i := 0; i < 20; i++ {
			_, err := pipeline.Upsert(ctx, testAddress("12", "Smith"))
			require.NoError(t, err)
		}
		pipeline.Close()

		runs := rebuilder.runs.Load()
		assert.GreaterOrEqual(t, runs, int64(1))
		assert.Less(t, runs, int64(20), "rebuilds coalesce rather than queueing per write")
	})

	t.Run("rebuild failure does not fail ingestion", func(t *testing.T) {
		pipeline, recordRepo, rebuilder := setupPipeline(t)
		rebuilder.shouldError = true

		_, err := pipeline.IngestBatch(ctx, []*core.AddressRecord{testAddress("7", "Chapel")})
		require.NoError(t, err)

		count, err := recordRepo.CountRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count)
	})
}

func TestPipeline_UpsertDelete(t *testing.T) {
	ctx := context.Background()
	pipeline, recordRepo, rebuilder := setupPipeline(t)

	added, err := pipeline.Upsert(ctx, testAddress("12", "Smith"))
	require.NoError(t, err)
	require.NotZero(t, added.Id)

	require.NoError(t, pipeline.Delete(ctx, added.Id))

	count, err := recordRepo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Eventually(t, func() bool {
		return rebuilder.runs.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	t.Run("deleting a missing record reports not found", func(t *testing.T) {
		err := pipeline.Delete(ctx, core.ID(424242))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestPipeline_Close(t *testing.T) {
	ctx := context.Background()
	pipeline, _, _ := setupPipeline(t)
	pipeline.Close()

	t.Run("ingest after close", func(t *testing.T) {
		_, err := pipeline.IngestBatch(ctx, []*core.AddressRecord{testAddress("12", "Smith")})
		assert.ErrorIs(t, err, ErrPipelineClosed)
	})

	t.Run("delete after close", func(t *testing.T) {
		err := pipeline.Delete(ctx, core.ID(1))
		assert.ErrorIs(t, err, ErrPipelineClosed)
	})

	t.Run("double close is safe", func(t *testing.T) {
		pipeline.Close()
	})
}
