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


// Package index maintains the candidate index over the address corpus.
//
// A Shard is one immutable snapshot: flat sorted token postings, n-gram
// postings for numeric and short tokens, and the resident record table with
// per-field scoring targets. Lookup unions the postings of the rarest query
// tokens (the anchors) into a bounded candidate superset; it never scans
// the corpus and never touches disk.
//
// The Builder constructs shards from corpus batches off to the side, in
// parallel. The Holder then publishes a finished shard atomically, so
// rebuilds never block readers and readers never observe a partial shard.
package index
