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


// Package resolve ranks corpus addresses against free-form queries.
//
// The Resolver type implements a multi-stage resolution pipeline:
//   - Query normalization into canonical tokens
//   - Candidate retrieval from the current index shard
//   - Per-field fuzzy scoring with configurable field weights
//
// Ranking follows a deterministic total order, so identical queries against
// identical shards always return identical output, with or without a worker
// pool. A context deadline expiring mid-scoring truncates the candidate set
// rather than failing the call; the result is flagged Truncated.
package resolve
