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


package resolve

import "errors"

var (
	// ErrHolderRequired is returned when an index holder is not provided.
	ErrHolderRequired = errors.New("index holder required")

	// ErrInvalidLimit is returned when the requested result limit is zero,
	// negative, or above the configured maximum. Limits are never clamped.
	ErrInvalidLimit = errors.New("invalid result limit")

	// ErrQueryTooLong is returned when the raw query exceeds the configured
	// maximum length.
	ErrQueryTooLong = errors.New("query too long")

	// ErrIndexUnavailable is returned when no index shard has been published
	// yet. Callers should retry after the first build completes.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrRecordMissing is returned when a candidate ID has no record in the
	// shard that produced it. Shards are immutable, so this indicates a
	// corrupted build rather than a racing update.
	ErrRecordMissing = errors.New("candidate record missing from shard")
)
