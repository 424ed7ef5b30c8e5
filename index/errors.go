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


package index

import "errors"

var (
	// ErrNoShard is returned when no shard has ever been published.
	ErrNoShard = errors.New("no index shard available")

	// ErrNilShard is returned when publishing a nil shard.
	ErrNilShard = errors.New("shard cannot be nil")

	// ErrEmptyCorpus is returned when a build receives no records.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrNilRecord is returned when a corpus batch contains a nil record.
	ErrNilRecord = errors.New("record cannot be nil")

	// ErrEmptyRecord is returned when a record yields no indexable tokens.
	ErrEmptyRecord = errors.New("record has no indexable tokens")

	// ErrDuplicateRecord is returned when two corpus records share an ID.
	ErrDuplicateRecord = errors.New("duplicate record id")

	// ErrBuildCancelled is returned when the build context ends before the
	// build completes.
	ErrBuildCancelled = errors.New("index build cancelled")
)
