// Package rebuild orchestrates full index rebuilds from the corpus store.
//
// A Rebuilder streams every stored address record, builds a fresh shard and
// publishes it atomically. The served shard is never touched until the new
// build has fully succeeded, so a failed rebuild leaves queries unaffected.
// Progress is reported to a configurable writer and transient storage errors
// are retried with exponential backoff.
package rebuild
