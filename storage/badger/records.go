package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) *RecordRepository {
	return &RecordRepository{
		backend: backend,
	}
}

// Close releases repository resources. The shared backend is owned and
// closed by its opener.
func (r *RecordRepository) Close() error {
	return nil
}

// WithTransaction executes a function within a transaction.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutRecords inserts or replaces one or more address records.
// Records with ID=0 get content-based IDs derived from the display string.
func (r *RecordRepository) PutRecords(ctx context.Context, records ...*core.AddressRecord) ([]*core.AddressRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Display)
			}

			key := makeAddressRecordKey(record.Id)
			value := storage.MarshalAddressRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteRecords removes address records by their IDs.
// Returns storage.ErrNotFound if any record doesn't exist.
func (r *RecordRepository) DeleteRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeAddressRecordKey(id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single address record by ID.
// Returns storage.ErrNotFound if the record doesn't exist.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.AddressRecord, error) {
	var record *core.AddressRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readAddressRecord(tx, makeAddressRecordKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetRecords retrieves multiple address records by their IDs.
// Missing records are skipped without error.
func (r *RecordRepository) GetRecords(ctx context.Context, ids ...core.ID) ([]*core.AddressRecord, error) {
	records := make([]*core.AddressRecord, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readAddressRecord(tx, makeAddressRecordKey(id))
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}
			records = append(records, record)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountRecords returns the number of stored address records.
func (r *RecordRepository) CountRecords(ctx context.Context) (uint64, error) {
	var count uint64

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordKeyspace()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}

// ForEachRecord streams every stored record to fn in ID order.
// Iteration stops on the first error returned by fn or when ctx ends.
func (r *RecordRepository) ForEachRecord(ctx context.Context, fn func(record *core.AddressRecord) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordKeyspace()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.AddressRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalAddressRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readAddressRecord reads a record by key, returning nil when absent.
func (r *RecordRepository) readAddressRecord(tx *badger.Txn, key []byte) (*core.AddressRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.AddressRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalAddressRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
