// Package ingestion provides the write path into the address corpus.
//
// The Pipeline type accepts batches of validated address records and a
// stream of upsert/delete operations, persists them to the record store and
// schedules a background index rebuild. Rebuilds run on a worker pool and
// are coalesced: writes arriving while a rebuild is in flight trigger one
// follow-up rebuild rather than one per write. Rebuild errors are logged but
// do not fail the ingestion operation that triggered them.
package ingestion
